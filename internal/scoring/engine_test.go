package scoring

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
)

func get(t *testing.T, id string) instrument.Instrument {
	t.Helper()
	in, err := instrument.Get(id)
	if err != nil {
		t.Fatalf("Get(%s): %v", id, err)
	}
	return in
}

func sessionWith(t *testing.T, in instrument.Instrument, answers map[string]int) *assessment.Session {
	t.Helper()
	s := assessment.New(in)
	for id, v := range answers {
		if err := s.SetAnswer(id, v); err != nil {
			t.Fatalf("SetAnswer(%s, %d): %v", id, v, err)
		}
	}
	return s
}

func all(in instrument.Instrument, v int) map[string]int {
	m := make(map[string]int, in.Len())
	for _, q := range in.Questions {
		m[q.ID] = v
	}
	return m
}

func TestScore_PHQ9AllOnes(t *testing.T) {
	in := get(t, instrument.PHQ9)
	res, err := Score(sessionWith(t, in, all(in, 1)), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScore != 9 {
		t.Errorf("TotalScore = %d, want 9", res.TotalScore)
	}
	if res.SeverityBand != "mild" {
		t.Errorf("SeverityBand = %q, want mild", res.SeverityBand)
	}
	if res.Partial {
		t.Error("complete session should not be partial")
	}
	if res.MaxScore != 27 || res.Answered != 9 || res.Total != 9 {
		t.Errorf("got max=%d answered=%d total=%d", res.MaxScore, res.Answered, res.Total)
	}
	if len(res.Alerts) != 1 || res.Alerts[0].QuestionID != "q9" {
		t.Errorf("all-ones PHQ-9 endorses item 9 and should alert once, got %+v", res.Alerts)
	}
}

func TestScore_PHQ9Partial(t *testing.T) {
	in := get(t, instrument.PHQ9)
	s := sessionWith(t, in, map[string]int{"q1": 3, "q2": 3, "q3": 3})

	if s.IsComplete() {
		t.Fatal("session should be incomplete")
	}
	if p := s.Progress(); p < 0.333 || p > 0.334 {
		t.Errorf("Progress = %f, want ~0.333", p)
	}

	res, err := Score(s, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScore != 9 {
		t.Errorf("TotalScore = %d, want 9", res.TotalScore)
	}
	if !res.Partial {
		t.Error("incomplete session should be partial")
	}
	if res.SeverityBand != "mild" {
		t.Errorf("display band = %q, want mild", res.SeverityBand)
	}
	if !strings.HasPrefix(res.Label(), "partial:") {
		t.Errorf("Label() = %q, want partial prefix", res.Label())
	}
}

func TestScore_GAD7AllThrees(t *testing.T) {
	in := get(t, instrument.GAD7)
	res, err := Score(sessionWith(t, in, all(in, 3)), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScore != 21 || res.SeverityBand != "severe" {
		t.Errorf("got %d %q, want 21 severe", res.TotalScore, res.SeverityBand)
	}
	if got := res.Label(); got != "severe (21/21)" {
		t.Errorf("Label() = %q", got)
	}
}

func TestScore_Bands(t *testing.T) {
	in := get(t, instrument.PHQ9)
	tests := []struct {
		answers map[string]int
		total   int
		band    string
	}{
		{all(in, 0), 0, "minimal"},
		{map[string]int{"q1": 3, "q2": 1}, 4, "minimal"},
		{map[string]int{"q1": 3, "q2": 2}, 5, "mild"},
		{map[string]int{"q1": 3, "q2": 3, "q3": 3, "q4": 1}, 10, "moderate"},
		{map[string]int{"q1": 3, "q2": 3, "q3": 3, "q4": 3, "q5": 3}, 15, "moderately severe"},
		{all(in, 3), 27, "severe"},
	}
	for _, tt := range tests {
		res, err := Score(sessionWith(t, in, tt.answers), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalScore != tt.total || res.SeverityBand != tt.band {
			t.Errorf("got %d %q, want %d %q", res.TotalScore, res.SeverityBand, tt.total, tt.band)
		}
	}
}

func TestScore_Mismatch(t *testing.T) {
	phq := get(t, instrument.PHQ9)
	gad := get(t, instrument.GAD7)

	for _, answers := range []map[string]int{{}, all(gad, 2)} {
		_, err := Score(sessionWith(t, gad, answers), phq)
		if !errors.Is(err, ErrInstrumentMismatch) {
			t.Fatalf("expected ErrInstrumentMismatch, got %v", err)
		}
		if !strings.Contains(err.Error(), "gad7") || !strings.Contains(err.Error(), "phq9") {
			t.Errorf("error should name both instruments: %v", err)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	in := get(t, instrument.PHQ9)
	s := sessionWith(t, in, map[string]int{"q1": 2, "q4": 1, "q9": 1})

	a, errA := Score(s, in)
	b, errB := Score(s, in)
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ:\n%+v\n%+v", a, b)
	}
	if s.AnsweredCount() != 3 {
		t.Error("scoring must not modify the session")
	}
}

func TestScore_CriticalItemAlert(t *testing.T) {
	in := get(t, instrument.PHQ9)

	res, err := Score(sessionWith(t, in, map[string]int{"q9": 0}), in)
	if err != nil {
		t.Fatal(err)
	}
	if res.HasAlerts() {
		t.Errorf("q9=0 should not alert, got %+v", res.Alerts)
	}

	res, err = Score(sessionWith(t, in, map[string]int{"q9": 2}), in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(res.Alerts))
	}
	a := res.Alerts[0]
	if a.QuestionID != "q9" || a.Value != 2 || a.Rule != "critical-item" {
		t.Errorf("unexpected alert %+v", a)
	}
	if a.Notice != instrument.SelfHarmNotice {
		t.Errorf("alert should carry the item's notice, got %q", a.Notice)
	}
	if res.TotalScore != 2 || res.SeverityBand != "minimal" {
		t.Errorf("alerts must not change score or band, got %d %q", res.TotalScore, res.SeverityBand)
	}
}

func TestEngine_NoRules(t *testing.T) {
	in := get(t, instrument.PHQ9)
	e := NewEngine(zap.NewNop(), []AlertRule{}...)
	res, err := e.Score(sessionWith(t, in, all(in, 1)), in)
	if err != nil {
		t.Fatal(err)
	}
	if res.HasAlerts() {
		t.Error("engine with empty rule list should not alert")
	}
}

// brokenInstrument has a band table that stops short of its maximum score.
func brokenInstrument() instrument.Instrument {
	scale := []instrument.Option{{Value: 0}, {Value: 1}, {Value: 2}, {Value: 3}}
	return instrument.Instrument{
		ID: "broken",
		Questions: []instrument.Question{
			{ID: "a", Options: scale},
			{ID: "b", Options: scale},
		},
		Bands: []instrument.Band{
			{Low: 0, High: 2, Label: "low"},
			{Low: 3, High: 4, Label: "mid"},
		},
	}
}

func TestScore_ConfigurationError(t *testing.T) {
	in := brokenInstrument()
	if err := instrument.Validate(in); !errors.Is(err, instrument.ErrBandCoverage) {
		t.Fatalf("Validate should reject the band table, got %v", err)
	}

	core, logs := observer.New(zapcore.ErrorLevel)
	e := NewEngine(zap.New(core))

	s := sessionWith(t, in, map[string]int{"a": 3, "b": 3})
	_, err := e.Score(s, in)
	if !errors.Is(err, ErrScoringConfiguration) {
		t.Fatalf("expected ErrScoringConfiguration, got %v", err)
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
	if ce.InstrumentID != "broken" || ce.Score != 6 {
		t.Errorf("got %+v", ce)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one error log entry, got %d", logs.Len())
	}

	// Scores the table does cover still work.
	s2 := sessionWith(t, in, map[string]int{"a": 1, "b": 2})
	res, err := e.Score(s2, in)
	if err != nil || res.SeverityBand != "mid" {
		t.Errorf("got %q, %v; want mid", res.SeverityBand, err)
	}
}

func TestLookupBand_FirstMatchWins(t *testing.T) {
	bands := []instrument.Band{
		{Low: 0, High: 5, Label: "first"},
		{Low: 5, High: 9, Label: "second"},
	}
	b, ok := LookupBand(bands, 5)
	if !ok || b.Label != "first" {
		t.Errorf("got %q %v, want first", b.Label, ok)
	}
	if _, ok := LookupBand(bands, 10); ok {
		t.Error("score outside every band should not match")
	}
	if _, ok := LookupBand(nil, 0); ok {
		t.Error("empty band table should not match")
	}
}
