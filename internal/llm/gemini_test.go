package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	for in, want := range map[string]string{
		"gemini-flash":     "gemini-2.0-flash",
		"gemini-pro":       "gemini-2.0-pro",
		"gemini-2.0-flash": "gemini-2.0-flash",
	} {
		if got := resolveModel(in, geminiModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

// The explanation schema is what explain sends in practice.
func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":    map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number"},
			"tone":       map[string]any{"type": "string", "enum": []any{"neutral", "supportive"}},
			"next_steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"summary", "next_steps"},
	})

	if schema.Type != genai.TypeObject {
		t.Fatalf("type = %s", schema.Type)
	}
	want := map[string]genai.Type{
		"summary":    genai.TypeString,
		"confidence": genai.TypeNumber,
		"tone":       genai.TypeString,
		"next_steps": genai.TypeArray,
	}
	for name, typ := range want {
		prop, ok := schema.Properties[name]
		if !ok {
			t.Errorf("missing property %s", name)
			continue
		}
		if prop.Type != typ {
			t.Errorf("%s type = %s, want %s", name, prop.Type, typ)
		}
	}
	if len(schema.Properties["tone"].Enum) != 2 {
		t.Errorf("enum = %v", schema.Properties["tone"].Enum)
	}
	if schema.Properties["next_steps"].Items.Type != genai.TypeString {
		t.Errorf("items type = %s", schema.Properties["next_steps"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestGeminiStopReason(t *testing.T) {
	truncated := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
	}
	if got := geminiStopReason(truncated); got != StopMaxTokens {
		t.Errorf("got %q, want %q", got, StopMaxTokens)
	}
	if got := geminiStopReason(&genai.GenerateContentResponse{}); got != StopEnd {
		t.Errorf("no candidates: got %q", got)
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	if err := mapGeminiError(&genai.APIError{Code: 429}); !errors.As(err, &rl) {
		t.Errorf("429 mapped to %T", err)
	}
	var rej *ErrRequestRejected
	if err := mapGeminiError(&genai.APIError{Code: 400}); !errors.As(err, &rej) {
		t.Errorf("400 mapped to %T", err)
	}
	var un *ErrProviderUnavailable
	if err := mapGeminiError(errors.New("dial tcp: refused")); !errors.As(err, &un) {
		t.Errorf("transport error mapped to %T", err)
	}
}
