// Package explain turns a scored result into short plain-language text.
//
// An LLM provider writes the summary when one is configured. Without a
// provider, when the provider fails, or when the result is partial, the
// static band summary is used instead. Every explanation carries the same
// non-diagnostic disclaimer.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/llm"
	"github.com/abhisek/screenwell/internal/scoring"
)

// Fixed text shown with every explanation.
const (
	Disclaimer = "This screening result is not a diagnosis."

	// CrisisNotice is the PHQ-9 self-harm item's notice.
	CrisisNotice = instrument.SelfHarmNotice

	// FollowUpNotice stands in for alerts whose question sets no notice.
	FollowUpNotice = "One of your answers was flagged for follow-up. " +
		"Please talk to a clinician or someone you trust about it soon."

	PartialNotice = "Not every question was answered, so this score is not clinically valid. " +
		"Answer the remaining questions for a complete result."
)

// Sources of an explanation.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Explanation is the text shown alongside a result.
type Explanation struct {
	Summary    string   `json:"summary"`
	NextSteps  []string `json:"next_steps"`
	Disclaimer string   `json:"disclaimer"`
	Notices    []string `json:"notices,omitempty"`
	Source     string   `json:"source"`
}

// Config tunes the LLM request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the request settings used by New.
func DefaultConfig() Config {
	return Config{MaxTokens: 512, Temperature: 0.2}
}

// Service produces explanations. The zero provider is valid and always
// uses the fallback.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// New creates a Service. provider may be nil.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

// HasProvider reports whether explanations may come from an LLM.
func (s *Service) HasProvider() bool {
	return s.provider != nil
}

// Explain returns an explanation for res. It only fails if ctx is done;
// provider errors are logged and answered with the fallback.
func (s *Service) Explain(ctx context.Context, inst instrument.Instrument, res scoring.Result) (*Explanation, error) {
	if res.Partial || s.provider == nil {
		return Fallback(inst, res), nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	resp, err := s.provider.Generate(ctx, s.request(inst, res))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Warn("explanation request failed, using fallback",
			zap.String("instrument", inst.ID),
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return Fallback(inst, res), nil
	}

	out, err := decode(resp.Content)
	if err != nil {
		s.log.Warn("explanation response rejected, using fallback",
			zap.String("instrument", inst.ID),
			zap.Error(err),
		)
		return Fallback(inst, res), nil
	}

	out.Disclaimer = Disclaimer
	out.Source = SourceLLM
	out.Notices = append(out.Notices, alertNotices(res)...)
	return out, nil
}

var responseSchema = &llm.Schema{
	Name:        "result-explanation",
	Description: "A short, non-diagnostic explanation of a screening questionnaire score",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"next_steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"summary", "next_steps"},
		"additionalProperties": false,
	},
}

const maxNextSteps = 4

const systemPrompt = `You explain scores from validated mental health screening questionnaires to the person who just completed one.
Rules:
- Use plain, calm, second-person language at about an 8th grade reading level.
- Do not diagnose. Say what the score range usually means and that only a clinician can assess it.
- Never change the score or severity band you are given.
- Keep the summary under 80 words and give 2 to 4 short, practical next steps.`

func (s *Service) request(inst instrument.Instrument, res scoring.Result) llm.Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Questionnaire: %s\n", inst.Title)
	fmt.Fprintf(&b, "Score: %d out of %d\n", res.TotalScore, res.MaxScore)
	fmt.Fprintf(&b, "Severity band: %s\n", res.SeverityBand)
	if res.BandSummary != "" {
		fmt.Fprintf(&b, "Published meaning of this band: %s\n", res.BandSummary)
	}
	b.WriteString("Bands:\n")
	for _, band := range inst.Bands {
		fmt.Fprintf(&b, "- %s\n", band)
	}

	return llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: b.String()}},
		Schema:      responseSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
}

func decode(raw json.RawMessage) (*Explanation, error) {
	if err := llm.ValidateResponse(responseSchema, raw); err != nil {
		return nil, err
	}
	var out Explanation
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode explanation: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return nil, errors.New("empty explanation summary")
	}
	if len(out.NextSteps) == 0 {
		return nil, errors.New("explanation has no next steps")
	}
	if len(out.NextSteps) > maxNextSteps {
		out.NextSteps = out.NextSteps[:maxNextSteps]
	}
	return &out, nil
}

// Fallback builds an explanation from the instrument's own band text.
func Fallback(inst instrument.Instrument, res scoring.Result) *Explanation {
	summary := res.BandSummary
	if summary == "" {
		summary = fmt.Sprintf("A score of %d on the %s falls in the %q range.", res.TotalScore, inst.Title, res.SeverityBand)
	}

	out := &Explanation{
		Summary:    summary,
		NextSteps:  nextSteps(inst, res),
		Disclaimer: Disclaimer,
		Source:     SourceFallback,
	}
	if res.Partial {
		out.Notices = append(out.Notices, PartialNotice)
	}
	out.Notices = append(out.Notices, alertNotices(res)...)
	return out
}

// alertNotices returns each distinct notice carried by res.Alerts.
func alertNotices(res scoring.Result) []string {
	var out []string
	for _, a := range res.Alerts {
		n := a.Notice
		if n == "" {
			n = FollowUpNotice
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func nextSteps(inst instrument.Instrument, res scoring.Result) []string {
	if res.Partial {
		return []string{"Finish the remaining questions to get a complete score."}
	}

	idx := -1
	for i, b := range inst.Bands {
		if b.Label == res.SeverityBand {
			idx = i
			break
		}
	}

	steps := []string{"Share this result with a doctor or another health professional you trust."}
	switch {
	case idx == 0:
		steps = append(steps, "Repeat the questionnaire if how you feel changes.")
	case idx > 0 && idx*2 >= len(inst.Bands):
		steps = append(steps,
			"Book an appointment soon to talk about these symptoms.",
			"Let someone close to you know how you have been feeling.")
	default:
		steps = append(steps, "Repeat the questionnaire in two weeks to see how things change.")
	}
	return steps
}
