// Package export renders stored results in interchange formats.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/store"
)

// Link IDs of the summary items appended after the instrument's questions.
const (
	TotalScoreLinkID = "total-score"
	SeverityLinkID   = "severity"
)

// Canonical questionnaire references for instruments that have a LOINC
// panel code. Others use a local Questionnaire/<id> reference.
var loincPanels = map[string]string{
	instrument.PHQ9: "http://loinc.org/q/44249-1",
	instrument.GAD7: "http://loinc.org/q/69737-5",
	instrument.PHQ2: "http://loinc.org/q/55757-9",
}

// QuestionnaireResponse is the subset of the FHIR R4 resource we produce.
type QuestionnaireResponse struct {
	ResourceType  string       `json:"resourceType"`
	ID            string       `json:"id,omitempty"`
	Identifier    *Identifier  `json:"identifier,omitempty"`
	Questionnaire string       `json:"questionnaire"`
	Status        string       `json:"status"`
	Authored      string       `json:"authored"`
	Item          []ItemAnswer `json:"item"`
}

// Identifier carries the session ID the result was scored from.
type Identifier struct {
	System string `json:"system"`
	Value  string `json:"value"`
}

// ItemAnswer is one questionnaire item with its answers.
type ItemAnswer struct {
	LinkID string   `json:"linkId"`
	Text   string   `json:"text,omitempty"`
	Answer []Answer `json:"answer,omitempty"`
}

// Answer holds exactly one of the value fields.
type Answer struct {
	ValueCoding  *Coding `json:"valueCoding,omitempty"`
	ValueInteger *int    `json:"valueInteger,omitempty"`
	ValueString  string  `json:"valueString,omitempty"`
}

// Coding is a FHIR Coding.
type Coding struct {
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

// NewQuestionnaireResponse builds the resource for rec. Questions are listed
// in instrument order; unanswered questions appear without an answer.
func NewQuestionnaireResponse(inst instrument.Instrument, rec *store.ResultRecord) (*QuestionnaireResponse, error) {
	if rec.Result.InstrumentID != inst.ID {
		return nil, fmt.Errorf("result %s is for %q, not %q", rec.ID, rec.Result.InstrumentID, inst.ID)
	}

	qr := &QuestionnaireResponse{
		ResourceType:  "QuestionnaireResponse",
		ID:            rec.ID,
		Questionnaire: questionnaireRef(inst.ID),
		Status:        "completed",
		Authored:      rec.CompletedAt.UTC().Format(time.RFC3339),
		Item:          make([]ItemAnswer, 0, inst.Len()+2),
	}
	if rec.Result.Partial {
		qr.Status = "in-progress"
	}
	if rec.SessionID != "" {
		qr.Identifier = &Identifier{System: "urn:screenwell:session", Value: rec.SessionID}
	}

	for _, q := range inst.Questions {
		item := ItemAnswer{LinkID: q.ID, Text: q.Text}
		if v, ok := rec.Answers[q.ID]; ok {
			item.Answer = []Answer{{ValueCoding: &Coding{
				Code:    strconv.Itoa(v),
				Display: q.OptionLabel(v),
			}}}
		}
		qr.Item = append(qr.Item, item)
	}

	total := rec.Result.TotalScore
	qr.Item = append(qr.Item,
		ItemAnswer{
			LinkID: TotalScoreLinkID,
			Text:   "Total score",
			Answer: []Answer{{ValueInteger: &total}},
		},
		ItemAnswer{
			LinkID: SeverityLinkID,
			Text:   "Severity",
			Answer: []Answer{{ValueString: rec.Result.SeverityBand}},
		},
	)
	return qr, nil
}

// JSON renders the resource as indented JSON.
func (qr *QuestionnaireResponse) JSON() ([]byte, error) {
	return json.MarshalIndent(qr, "", "  ")
}

func questionnaireRef(id string) string {
	if ref, ok := loincPanels[id]; ok {
		return ref
	}
	return "Questionnaire/" + id
}
