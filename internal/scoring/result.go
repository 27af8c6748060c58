package scoring

import "fmt"

// Result is derived from a session on demand and never stored by the engine.
type Result struct {
	InstrumentID string `json:"instrument_id"`
	TotalScore   int    `json:"total_score"`
	MaxScore     int    `json:"max_score"`
	SeverityBand string `json:"severity_band"`
	BandSummary  string `json:"band_summary,omitempty"`

	// Partial is true when at least one question was unanswered. The band is
	// then informational only and not clinically valid.
	Partial  bool `json:"partial"`
	Answered int  `json:"answered"`
	Total    int  `json:"total"`

	Alerts []Alert `json:"alerts,omitempty"`
}

// Label renders the result for a single status line, e.g. "moderate (12/27)".
func (r Result) Label() string {
	s := fmt.Sprintf("%s (%d/%d)", r.SeverityBand, r.TotalScore, r.MaxScore)
	if r.Partial {
		return fmt.Sprintf("partial: %s, %d of %d answered", s, r.Answered, r.Total)
	}
	return s
}

// HasAlerts reports whether any alert rule fired.
func (r Result) HasAlerts() bool {
	return len(r.Alerts) > 0
}
