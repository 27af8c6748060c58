package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrInstrumentMismatch is returned when a session is scored against an
	// instrument other than the one it was created for.
	ErrInstrumentMismatch = errors.New("session and instrument do not match")

	// ErrScoringConfiguration means an instrument's band table does not
	// classify a score it can produce. It is fatal for that instrument.
	ErrScoringConfiguration = errors.New("scoring configuration error")
)

// ConfigurationError reports a score no severity band covers.
type ConfigurationError struct {
	InstrumentID string
	Score        int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("scoring configuration error: no severity band of %q contains score %d", e.InstrumentID, e.Score)
}

func (e *ConfigurationError) Unwrap() error { return ErrScoringConfiguration }
