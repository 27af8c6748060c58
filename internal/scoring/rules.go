package scoring

import (
	"fmt"

	"github.com/abhisek/screenwell/internal/instrument"
)

// Alert is a safety flag raised by an answer. Alerts never change the score
// or the severity band.
type Alert struct {
	Rule       string `json:"rule"`
	QuestionID string `json:"question_id"`
	Value      int    `json:"value"`
	Message    string `json:"message"`

	// Notice is the respondent-facing text configured on the question.
	Notice string `json:"notice,omitempty"`
}

// AlertRule inspects the answered items of a scored session.
type AlertRule interface {
	Name() string
	Check(inst instrument.Instrument, answers map[string]int) []Alert
}

// DefaultRules returns the alert rules applied by Score.
func DefaultRules() []AlertRule {
	return []AlertRule{
		&CriticalItemRule{},
	}
}

// RunRules applies every rule in order and concatenates the alerts.
func RunRules(rules []AlertRule, inst instrument.Instrument, answers map[string]int) []Alert {
	var out []Alert
	for _, r := range rules {
		out = append(out, r.Check(inst, answers)...)
	}
	return out
}

// CriticalItemRule flags any answered critical question with a value above zero.
type CriticalItemRule struct{}

func (c *CriticalItemRule) Name() string { return "critical-item" }

func (c *CriticalItemRule) Check(inst instrument.Instrument, answers map[string]int) []Alert {
	var out []Alert
	for i, q := range inst.Questions {
		if !q.Critical {
			continue
		}
		v, ok := answers[q.ID]
		if !ok || v <= 0 {
			continue
		}
		out = append(out, Alert{
			Rule:       c.Name(),
			QuestionID: q.ID,
			Value:      v,
			Message:    fmt.Sprintf("Item %d was answered %q. Please talk to someone you trust or a clinician today.", i+1, q.OptionLabel(v)),
			Notice:     q.Notice,
		})
	}
	return out
}
