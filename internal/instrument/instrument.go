package instrument

import "fmt"

// Option is one selectable response to a question.
type Option struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Question is a single scored item within an instrument.
type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`

	// Critical marks an item whose non-zero answer raises a safety alert.
	Critical bool `yaml:"critical,omitempty" json:"critical,omitempty"`

	// Notice is shown to the respondent when this item raises an alert.
	Notice string `yaml:"notice,omitempty" json:"notice,omitempty"`
}

// Band is a closed score interval [Low, High] mapped to a severity label.
type Band struct {
	Low     int    `yaml:"low" json:"low"`
	High    int    `yaml:"high" json:"high"`
	Label   string `yaml:"label" json:"label"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// Contains reports whether score falls inside the band.
func (b Band) Contains(score int) bool {
	return score >= b.Low && score <= b.High
}

// String renders the band as "label (low-high)".
func (b Band) String() string {
	return fmt.Sprintf("%s (%d-%d)", b.Label, b.Low, b.High)
}

// Instrument is the static definition of one questionnaire.
// Question order is the item numbering and is never changed.
type Instrument struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Preamble    string     `yaml:"preamble,omitempty" json:"preamble,omitempty"`
	Source      string     `yaml:"source,omitempty" json:"source,omitempty"`
	Questions   []Question `yaml:"questions" json:"questions"`
	Bands       []Band     `yaml:"bands" json:"bands"`
}

// Question returns the question with the given ID.
func (in Instrument) Question(id string) (Question, bool) {
	for _, q := range in.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionIndex returns the position of the question with the given ID, or -1.
func (in Instrument) QuestionIndex(id string) int {
	for i, q := range in.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of questions.
func (in Instrument) Len() int {
	return len(in.Questions)
}

// MinScore is the lowest achievable total: the sum of each question's
// smallest option value.
func (in Instrument) MinScore() int {
	total := 0
	for _, q := range in.Questions {
		lo, _ := q.valueRange()
		total += lo
	}
	return total
}

// MaxScore is the highest achievable total.
func (in Instrument) MaxScore() int {
	total := 0
	for _, q := range in.Questions {
		_, hi := q.valueRange()
		total += hi
	}
	return total
}

// HasValue reports whether value is one of the question's option values.
func (q Question) HasValue(value int) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the label for value, or "" if value is not an option.
func (q Question) OptionLabel(value int) string {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return ""
}

func (q Question) valueRange() (lo, hi int) {
	if len(q.Options) == 0 {
		return 0, 0
	}
	lo, hi = q.Options[0].Value, q.Options[0].Value
	for _, o := range q.Options[1:] {
		lo = min(lo, o.Value)
		hi = max(hi, o.Value)
	}
	return lo, hi
}
