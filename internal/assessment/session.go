package assessment

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/screenwell/internal/instrument"
)

// Answer is one recorded response, in instrument question order.
type Answer struct {
	QuestionID string
	Value      int
}

// Session holds one respondent's answers to one instrument.
//
// Answers are keyed by question ID and a question is unanswered exactly when
// its key is absent, so a recorded 0 is never confused with "not yet
// answered". Completion is derived from the answer set; there is no stored
// flag to drift out of sync with it.
//
// A Session is owned by a single caller and is not safe for concurrent use.
type Session struct {
	id         string
	startedAt  time.Time
	instrument instrument.Instrument
	answers    map[string]int
}

// New starts an empty session for inst.
func New(inst instrument.Instrument) *Session {
	return &Session{
		id:         uuid.New().String(),
		startedAt:  time.Now(),
		instrument: inst.Clone(),
		answers:    make(map[string]int, inst.Len()),
	}
}

// Restore rebuilds a session from persisted answers. Every entry is
// validated; if any is invalid no session is returned.
func Restore(inst instrument.Instrument, id string, startedAt time.Time, answers map[string]int) (*Session, error) {
	s := New(inst)
	if id != "" {
		s.id = id
	}
	if !startedAt.IsZero() {
		s.startedAt = startedAt
	}
	for qid, v := range answers {
		if err := s.SetAnswer(qid, v); err != nil {
			return nil, fmt.Errorf("restore session %s: %w", s.id, err)
		}
	}
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// InstrumentID returns the ID of the instrument this session answers.
func (s *Session) InstrumentID() string { return s.instrument.ID }

// Instrument returns a copy of the bound instrument definition.
func (s *Session) Instrument() instrument.Instrument { return s.instrument.Clone() }

// SetAnswer records value for questionID, replacing any earlier answer.
// It fails with *InvalidAnswerError if the question is unknown or value is
// not one of its options; in that case the session is left unchanged.
func (s *Session) SetAnswer(questionID string, value int) error {
	q, ok := s.instrument.Question(questionID)
	if !ok {
		return &InvalidAnswerError{
			InstrumentID: s.instrument.ID,
			QuestionID:   questionID,
			Value:        value,
			Reason:       "unknown question",
		}
	}
	if !q.HasValue(value) {
		return &InvalidAnswerError{
			InstrumentID: s.instrument.ID,
			QuestionID:   questionID,
			Value:        value,
			Reason:       "value is not one of the question's options",
		}
	}
	s.answers[questionID] = value
	return nil
}

// ClearAnswer removes the answer for questionID. Clearing an unanswered
// question is a no-op; an unknown question fails with *InvalidAnswerError.
func (s *Session) ClearAnswer(questionID string) error {
	if _, ok := s.instrument.Question(questionID); !ok {
		return &InvalidAnswerError{
			InstrumentID: s.instrument.ID,
			QuestionID:   questionID,
			Reason:       "unknown question",
		}
	}
	delete(s.answers, questionID)
	return nil
}

// Answer returns the recorded value for questionID and whether one exists.
func (s *Session) Answer(questionID string) (int, bool) {
	v, ok := s.answers[questionID]
	return v, ok
}

// Answers returns the recorded answers in question order. Unanswered
// questions are omitted.
func (s *Session) Answers() []Answer {
	out := make([]Answer, 0, len(s.answers))
	for _, q := range s.instrument.Questions {
		if v, ok := s.answers[q.ID]; ok {
			out = append(out, Answer{QuestionID: q.ID, Value: v})
		}
	}
	return out
}

// Snapshot returns a copy of the answer map, suitable for persistence.
func (s *Session) Snapshot() map[string]int {
	return maps.Clone(s.answers)
}

// AnsweredCount returns the number of distinct answered questions.
func (s *Session) AnsweredCount() int {
	return len(s.answers)
}

// Progress returns answered/total in [0, 1].
func (s *Session) Progress() float64 {
	total := s.instrument.Len()
	if total == 0 {
		return 0
	}
	return float64(len(s.answers)) / float64(total)
}

// IsComplete reports whether every question has an answer.
func (s *Session) IsComplete() bool {
	if s.instrument.Len() == 0 {
		return false
	}
	for _, q := range s.instrument.Questions {
		if _, ok := s.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// NextUnanswered returns the index of the first unanswered question.
func (s *Session) NextUnanswered() (int, bool) {
	for i, q := range s.instrument.Questions {
		if _, ok := s.answers[q.ID]; !ok {
			return i, true
		}
	}
	return 0, false
}
