package assessment

import (
	"errors"
	"fmt"
)

// ErrInvalidAnswer is matched by every rejected SetAnswer/ClearAnswer call.
var ErrInvalidAnswer = errors.New("invalid answer")

// InvalidAnswerError describes why an answer was rejected.
type InvalidAnswerError struct {
	InstrumentID string
	QuestionID   string
	Value        int
	Reason       string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for %s/%s (value %d): %s", e.InstrumentID, e.QuestionID, e.Value, e.Reason)
}

func (e *InvalidAnswerError) Unwrap() error { return ErrInvalidAnswer }
