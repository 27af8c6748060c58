package assessment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/screenwell/internal/instrument"
)

func mustGet(t *testing.T, id string) instrument.Instrument {
	t.Helper()
	in, err := instrument.Get(id)
	require.NoError(t, err)
	return in
}

func answerAll(t *testing.T, s *Session, in instrument.Instrument, value int) {
	t.Helper()
	for _, q := range in.Questions {
		require.NoError(t, s.SetAnswer(q.ID, value))
	}
}

func TestNew_Empty(t *testing.T) {
	for _, in := range instrument.All() {
		s := New(in)
		assert.Equal(t, in.ID, s.InstrumentID())
		assert.Equal(t, 0.0, s.Progress(), "%s progress before any answer", in.ID)
		assert.False(t, s.IsComplete(), "%s should not be complete", in.ID)
		assert.Empty(t, s.Answers())
		assert.NotEmpty(t, s.ID())
	}
}

func TestAllAnswered_Complete(t *testing.T) {
	for _, in := range instrument.All() {
		s := New(in)
		answerAll(t, s, in, in.Questions[0].Options[0].Value)
		assert.Equal(t, 1.0, s.Progress(), "%s progress after all answers", in.ID)
		assert.True(t, s.IsComplete(), "%s should be complete", in.ID)
		_, more := s.NextUnanswered()
		assert.False(t, more)
	}
}

func TestZeroIsAnAnswer(t *testing.T) {
	in := mustGet(t, instrument.PHQ9)
	s := New(in)

	require.NoError(t, s.SetAnswer("q1", 0))

	v, ok := s.Answer("q1")
	assert.True(t, ok, "zero answer should be present")
	assert.Equal(t, 0, v)

	_, ok = s.Answer("q2")
	assert.False(t, ok, "untouched question should be absent")
	assert.Equal(t, 1, s.AnsweredCount())
	assert.InDelta(t, 1.0/9.0, s.Progress(), 1e-9)
}

func TestSetAnswer_Overwrite(t *testing.T) {
	in := mustGet(t, instrument.GAD7)
	s := New(in)

	require.NoError(t, s.SetAnswer("q2", 1))
	require.NoError(t, s.SetAnswer("q2", 3))

	v, _ := s.Answer("q2")
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, s.AnsweredCount())
	assert.InDelta(t, 1.0/7.0, s.Progress(), 1e-9)
}

func TestSetAnswer_Invalid(t *testing.T) {
	in := mustGet(t, instrument.PHQ9)

	tests := []struct {
		name       string
		questionID string
		value      int
		reason     string
	}{
		{"value too high", "q1", 4, "not one of"},
		{"negative value", "q1", -1, "not one of"},
		{"unknown question", "q10", 1, "unknown question"},
		{"empty question id", "", 0, "unknown question"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(in)
			require.NoError(t, s.SetAnswer("q2", 2))
			before := s.Snapshot()

			err := s.SetAnswer(tt.questionID, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAnswer))

			var iae *InvalidAnswerError
			require.True(t, errors.As(err, &iae))
			assert.Equal(t, tt.questionID, iae.QuestionID)
			assert.Contains(t, iae.Reason, tt.reason)

			assert.Equal(t, before, s.Snapshot(), "answers must be unchanged")
			assert.InDelta(t, 1.0/9.0, s.Progress(), 1e-9)
			assert.False(t, s.IsComplete())
		})
	}
}

func TestSetAnswer_InvalidDoesNotOverwrite(t *testing.T) {
	in := mustGet(t, instrument.PHQ9)
	s := New(in)
	require.NoError(t, s.SetAnswer("q1", 2))

	require.Error(t, s.SetAnswer("q1", 7))

	v, ok := s.Answer("q1")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestClearAnswer(t *testing.T) {
	in := mustGet(t, instrument.GAD2)
	s := New(in)
	answerAll(t, s, in, 1)
	require.True(t, s.IsComplete())

	require.NoError(t, s.ClearAnswer("q1"))
	assert.False(t, s.IsComplete())
	assert.Equal(t, 0.5, s.Progress())

	idx, ok := s.NextUnanswered()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	// Clearing again is a no-op.
	require.NoError(t, s.ClearAnswer("q1"))
	assert.Equal(t, 0.5, s.Progress())

	err := s.ClearAnswer("nope")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestPHQ9_PartialProgress(t *testing.T) {
	in := mustGet(t, instrument.PHQ9)
	s := New(in)
	for _, id := range []string{"q1", "q2", "q3"} {
		require.NoError(t, s.SetAnswer(id, 3))
	}
	assert.False(t, s.IsComplete())
	assert.InDelta(t, 0.333, s.Progress(), 0.001)

	idx, ok := s.NextUnanswered()
	assert.True(t, ok)
	assert.Equal(t, 3, idx)
}

func TestProgress_Monotonic(t *testing.T) {
	in := mustGet(t, instrument.PHQ9)
	s := New(in)
	prev := s.Progress()
	for i, q := range in.Questions {
		require.NoError(t, s.SetAnswer(q.ID, i%4))
		cur := s.Progress()
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, 1.0, prev)
}

func TestAnswers_QuestionOrder(t *testing.T) {
	in := mustGet(t, instrument.GAD7)
	s := New(in)
	require.NoError(t, s.SetAnswer("q5", 1))
	require.NoError(t, s.SetAnswer("q1", 0))
	require.NoError(t, s.SetAnswer("q3", 2))

	got := s.Answers()
	want := []Answer{{"q1", 0}, {"q3", 2}, {"q5", 1}}
	assert.Equal(t, want, got)
}

func TestSnapshot_IsCopy(t *testing.T) {
	in := mustGet(t, instrument.GAD2)
	s := New(in)
	require.NoError(t, s.SetAnswer("q1", 1))

	snap := s.Snapshot()
	snap["q2"] = 3
	_, ok := s.Answer("q2")
	assert.False(t, ok, "mutating a snapshot must not change the session")
}

func TestRestore(t *testing.T) {
	in := mustGet(t, instrument.PHQ9)
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	s, err := Restore(in, "abc", started, map[string]int{"q1": 0, "q4": 2})
	require.NoError(t, err)
	assert.Equal(t, "abc", s.ID())
	assert.Equal(t, started, s.StartedAt())
	assert.Equal(t, 2, s.AnsweredCount())

	_, err = Restore(in, "abc", started, map[string]int{"q1": 0, "q4": 9})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestNew_IsolatedFromCallerDefinition(t *testing.T) {
	in := mustGet(t, instrument.GAD2)
	s := New(in)
	in.Questions[0].Options = nil

	assert.NoError(t, s.SetAnswer("q1", 2), "session must keep its own copy of the definition")
}
