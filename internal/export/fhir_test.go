package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/scoring"
	"github.com/abhisek/screenwell/internal/store"
)

func record(t *testing.T, id string, answers map[string]int) (instrument.Instrument, *store.ResultRecord) {
	t.Helper()
	in, err := instrument.Get(id)
	require.NoError(t, err)
	s := assessment.New(in)
	for q, v := range answers {
		require.NoError(t, s.SetAnswer(q, v))
	}
	res, err := scoring.Score(s, in)
	require.NoError(t, err)
	return in, &store.ResultRecord{
		ID:          "0b9f6c1e-result",
		SessionID:   s.ID(),
		Answers:     s.Snapshot(),
		StartedAt:   time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 5, 4, 9, 5, 0, 0, time.UTC),
		Result:      res,
	}
}

func TestQuestionnaireResponse_Complete(t *testing.T) {
	answers := map[string]int{"q1": 0, "q2": 1, "q3": 2, "q4": 3, "q5": 0, "q6": 1, "q7": 2}
	in, rec := record(t, instrument.GAD7, answers)

	qr, err := NewQuestionnaireResponse(in, rec)
	require.NoError(t, err)

	assert.Equal(t, "QuestionnaireResponse", qr.ResourceType)
	assert.Equal(t, "completed", qr.Status)
	assert.Equal(t, "http://loinc.org/q/69737-5", qr.Questionnaire)
	assert.Equal(t, "2026-05-04T09:05:00Z", qr.Authored)
	require.NotNil(t, qr.Identifier)
	assert.Equal(t, rec.SessionID, qr.Identifier.Value)

	require.Len(t, qr.Item, 9)
	first := qr.Item[0]
	assert.Equal(t, "q1", first.LinkID)
	require.Len(t, first.Answer, 1)
	assert.Equal(t, "0", first.Answer[0].ValueCoding.Code, "zero answers must be exported")
	assert.Equal(t, "Not at all", first.Answer[0].ValueCoding.Display)

	total := qr.Item[7]
	assert.Equal(t, TotalScoreLinkID, total.LinkID)
	require.NotNil(t, total.Answer[0].ValueInteger)
	assert.Equal(t, 9, *total.Answer[0].ValueInteger)

	sev := qr.Item[8]
	assert.Equal(t, SeverityLinkID, sev.LinkID)
	assert.Equal(t, "mild", sev.Answer[0].ValueString)
}

func TestQuestionnaireResponse_PartialIsInProgress(t *testing.T) {
	in, rec := record(t, instrument.PHQ9, map[string]int{"q1": 3, "q2": 3, "q3": 3})

	qr, err := NewQuestionnaireResponse(in, rec)
	require.NoError(t, err)
	assert.Equal(t, "in-progress", qr.Status)
	assert.Empty(t, qr.Item[3].Answer, "unanswered question should have no answer")
}

func TestQuestionnaireResponse_JSONShape(t *testing.T) {
	in, rec := record(t, instrument.GAD2, map[string]int{"q1": 1, "q2": 2})
	qr, err := NewQuestionnaireResponse(in, rec)
	require.NoError(t, err)

	data, err := qr.JSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "QuestionnaireResponse", doc["resourceType"])
	assert.Equal(t, "Questionnaire/gad2", doc["questionnaire"])

	items := doc["item"].([]any)
	item := items[0].(map[string]any)
	assert.Equal(t, "q1", item["linkId"])
	coding := item["answer"].([]any)[0].(map[string]any)["valueCoding"].(map[string]any)
	assert.Equal(t, "1", coding["code"])
	assert.Equal(t, "Several days", coding["display"])

	total := items[2].(map[string]any)["answer"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(3), total["valueInteger"])
}

func TestQuestionnaireResponse_InstrumentMismatch(t *testing.T) {
	_, rec := record(t, instrument.GAD2, map[string]int{"q1": 1})
	phq, _ := instrument.Get(instrument.PHQ9)
	_, err := NewQuestionnaireResponse(phq, rec)
	assert.Error(t, err)
}
