package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/llm"
	"github.com/abhisek/screenwell/internal/scoring"
)

func TestMain(m *testing.M) {
	// opencensus, pulled in by the Gemini SDK, starts a worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func scored(t *testing.T, id string, answers map[string]int) (instrument.Instrument, scoring.Result) {
	t.Helper()
	in, err := instrument.Get(id)
	require.NoError(t, err)
	s := assessment.New(in)
	for q, v := range answers {
		require.NoError(t, s.SetAnswer(q, v))
	}
	res, err := scoring.Score(s, in)
	require.NoError(t, err)
	return in, res
}

func allOf(id string, v int) map[string]int {
	in, _ := instrument.Get(id)
	m := map[string]int{}
	for _, q := range in.Questions {
		m[q.ID] = v
	}
	return m
}

func TestExplain_NoProviderUsesFallback(t *testing.T) {
	in, res := scored(t, instrument.GAD7, allOf(instrument.GAD7, 2))
	svc := New(nil, DefaultConfig(), nil)

	got, err := svc.Explain(context.Background(), in, res)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, res.BandSummary, got.Summary)
	assert.Equal(t, Disclaimer, got.Disclaimer)
	assert.NotEmpty(t, got.NextSteps)
	assert.Empty(t, got.Notices)
	assert.False(t, svc.HasProvider())
}

func TestExplain_LLM(t *testing.T) {
	in, res := scored(t, instrument.PHQ9, allOf(instrument.PHQ9, 0))
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"Your answers suggest few symptoms right now.","next_steps":["Check in again if things change."]}`),
	})
	svc := New(mock, DefaultConfig(), zap.NewNop())

	got, err := svc.Explain(context.Background(), in, res)
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, got.Source)
	assert.Equal(t, "Your answers suggest few symptoms right now.", got.Summary)
	assert.Equal(t, []string{"Check in again if things change."}, got.NextSteps)
	assert.Equal(t, Disclaimer, got.Disclaimer)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	require.NotNil(t, req.Schema)
	assert.Equal(t, "result-explanation", req.Schema.Name)
	assert.Contains(t, req.Messages[0].Content, "Score: 0 out of 27")
	assert.Contains(t, req.Messages[0].Content, "Severity band: minimal")
	assert.Contains(t, req.System, "Do not diagnose")
}

func TestExplain_RecordsPurpose(t *testing.T) {
	in, res := scored(t, instrument.GAD2, map[string]int{"q1": 0, "q2": 1})
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"ok","next_steps":["a"]}`),
	})
	var purpose string
	svc := New(purposeSpy{Provider: mock, got: &purpose}, DefaultConfig(), nil)

	_, err := svc.Explain(context.Background(), in, res)
	require.NoError(t, err)
	assert.Equal(t, llm.PurposeExplain, purpose)
}

type purposeSpy struct {
	llm.Provider
	got *string
}

func (p purposeSpy) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*p.got = llm.PurposeFrom(ctx)
	return p.Provider.Generate(ctx, req)
}

func TestExplain_PartialNeverCallsProvider(t *testing.T) {
	in, res := scored(t, instrument.PHQ9, map[string]int{"q1": 3, "q2": 3, "q3": 3})
	require.True(t, res.Partial)
	mock := llm.NewMockProvider()
	svc := New(mock, DefaultConfig(), nil)

	got, err := svc.Explain(context.Background(), in, res)
	require.NoError(t, err)
	assert.Equal(t, 0, mock.CallCount())
	assert.Equal(t, SourceFallback, got.Source)
	assert.Contains(t, got.Notices, PartialNotice)
	assert.Contains(t, strings.Join(got.NextSteps, " "), "remaining questions")
}

func TestExplain_ProviderErrorFallsBack(t *testing.T) {
	in, res := scored(t, instrument.GAD7, allOf(instrument.GAD7, 1))
	core, logs := observer.New(zapcore.WarnLevel)
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}})
	svc := New(mock, DefaultConfig(), zap.New(core))

	got, err := svc.Explain(context.Background(), in, res)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, 1, logs.Len())
}

func TestExplain_InvalidResponseFallsBack(t *testing.T) {
	in, res := scored(t, instrument.GAD7, allOf(instrument.GAD7, 1))
	for _, body := range []string{
		`{"summary":"x"}`,
		`{"summary":"x","next_steps":[],"diagnosis":"MDD"}`,
		`{"summary":"  ","next_steps":["a"]}`,
		`{"summary":"x","next_steps":[]}`,
		`not json`,
	} {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})
		got, err := New(mock, DefaultConfig(), nil).Explain(context.Background(), in, res)
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, got.Source, "body %s", body)
	}
}

func TestExplain_CanceledContext(t *testing.T) {
	in, res := scored(t, instrument.GAD7, allOf(instrument.GAD7, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := llm.NewMockProvider(llm.MockResponse{Err: context.Canceled})

	_, err := New(mock, DefaultConfig(), nil).Explain(ctx, in, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExplain_AlertsAddCrisisNotice(t *testing.T) {
	in, res := scored(t, instrument.PHQ9, allOf(instrument.PHQ9, 1))
	require.True(t, res.HasAlerts())

	fb := Fallback(in, res)
	assert.Contains(t, fb.Notices, CrisisNotice)

	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"s","next_steps":["a","b","c","d","e"]}`),
	})
	got, err := New(mock, DefaultConfig(), nil).Explain(context.Background(), in, res)
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, got.Source)
	assert.Contains(t, got.Notices, CrisisNotice)
	assert.Len(t, got.NextSteps, 4)
}

func TestFallback_NextStepsBySeverity(t *testing.T) {
	in, low := scored(t, instrument.PHQ9, allOf(instrument.PHQ9, 0))
	_, high := scored(t, instrument.PHQ9, allOf(instrument.PHQ9, 3))

	lowSteps := strings.Join(Fallback(in, low).NextSteps, " ")
	highSteps := strings.Join(Fallback(in, high).NextSteps, " ")
	assert.NotContains(t, lowSteps, "appointment")
	assert.Contains(t, highSteps, "appointment")
}

func TestFallback_CustomCriticalItemUsesItsOwnNotice(t *testing.T) {
	scale := []instrument.Option{{Value: 0, Label: "No"}, {Value: 1, Label: "Some"}, {Value: 2, Label: "A lot"}}
	in := instrument.Instrument{
		ID:    "sleep",
		Title: "Sleep check",
		Questions: []instrument.Question{
			{ID: "q1", Text: "Trouble sleeping", Options: scale, Critical: true},
			{ID: "q2", Text: "Waking at night", Options: scale, Critical: true, Notice: "Mention night waking to your doctor."},
		},
		Bands: []instrument.Band{{Low: 0, High: 4, Label: "any"}},
	}
	require.NoError(t, instrument.Validate(in))

	s := assessment.New(in)
	require.NoError(t, s.SetAnswer("q1", 2))
	require.NoError(t, s.SetAnswer("q2", 1))
	res, err := scoring.Score(s, in)
	require.NoError(t, err)
	require.Len(t, res.Alerts, 2)

	fb := Fallback(in, res)
	assert.NotContains(t, fb.Notices, CrisisNotice)
	assert.Equal(t, []string{FollowUpNotice, "Mention night waking to your doctor."}, fb.Notices)
}
