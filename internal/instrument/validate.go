package instrument

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidDefinition marks any structural problem in an instrument.
	ErrInvalidDefinition = errors.New("invalid instrument definition")

	// ErrBandCoverage marks severity bands that leave part of the
	// achievable score range unclassified, or classify it twice.
	ErrBandCoverage = errors.New("severity bands do not cover the score range")
)

// ValidationError lists every problem found in one instrument.
type ValidationError struct {
	InstrumentID string
	Problems     []string

	bandCoverage bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("instrument %q validation failed:\n  %s", e.InstrumentID, strings.Join(e.Problems, "\n  "))
}

// Is matches ErrInvalidDefinition always, and ErrBandCoverage when a band
// table problem was among the findings.
func (e *ValidationError) Is(target error) bool {
	if target == ErrInvalidDefinition {
		return true
	}
	return target == ErrBandCoverage && e.bandCoverage
}

// Validate performs all structural checks on an instrument definition.
// Returns a *ValidationError describing all problems found, or nil if valid.
func Validate(in Instrument) error {
	v := &ValidationError{InstrumentID: in.ID}

	if strings.TrimSpace(in.ID) == "" {
		v.Problems = append(v.Problems, "instrument ID is empty")
	}
	if len(in.Questions) == 0 {
		v.Problems = append(v.Problems, "instrument has no questions")
	}

	// Questions and their options
	seen := make(map[string]bool, len(in.Questions))
	for i, q := range in.Questions {
		prefix := fmt.Sprintf("question %d", i+1)
		if q.ID == "" {
			v.Problems = append(v.Problems, prefix+": empty ID")
		} else {
			prefix = fmt.Sprintf("question %q", q.ID)
			if seen[q.ID] {
				v.Problems = append(v.Problems, fmt.Sprintf("duplicate question ID: %q", q.ID))
			}
			seen[q.ID] = true
		}
		if len(q.Options) == 0 {
			v.Problems = append(v.Problems, prefix+": no options")
		}
		if q.Notice != "" && !q.Critical {
			v.Problems = append(v.Problems, prefix+": notice set on a question that is not critical")
		}
		values := make(map[int]bool, len(q.Options))
		for _, o := range q.Options {
			if o.Value < 0 {
				v.Problems = append(v.Problems, fmt.Sprintf("%s: option %q has negative value %d", prefix, o.Label, o.Value))
			}
			if values[o.Value] {
				v.Problems = append(v.Problems, fmt.Sprintf("%s: duplicate option value %d", prefix, o.Value))
			}
			values[o.Value] = true
		}
	}

	// Bands are only checked against a well-formed question set.
	if len(v.Problems) == 0 {
		if problems := checkBands(in.Bands, in.MinScore(), in.MaxScore()); len(problems) > 0 {
			v.Problems = append(v.Problems, problems...)
			v.bandCoverage = true
		}
	}

	if len(v.Problems) > 0 {
		return v
	}
	return nil
}

// checkBands verifies the bands are ascending closed intervals that tile
// [lo, hi] exactly: no gaps, no overlaps, nothing outside the range.
func checkBands(bands []Band, lo, hi int) []string {
	if len(bands) == 0 {
		return []string{"no severity bands defined"}
	}

	var problems []string
	labels := make(map[string]bool, len(bands))
	for i, b := range bands {
		if b.Label == "" {
			problems = append(problems, fmt.Sprintf("band %d: empty label", i+1))
		}
		if labels[b.Label] {
			problems = append(problems, fmt.Sprintf("duplicate band label %q", b.Label))
		}
		labels[b.Label] = true
		if b.Low > b.High {
			problems = append(problems, fmt.Sprintf("band %q: low %d > high %d", b.Label, b.Low, b.High))
		}
	}

	sorted := slices.IsSortedFunc(bands, func(a, b Band) int { return a.Low - b.Low })
	if !sorted {
		problems = append(problems, "bands are not in ascending order")
		return problems
	}

	if bands[0].Low != lo {
		problems = append(problems, fmt.Sprintf("first band %q starts at %d, minimum achievable score is %d", bands[0].Label, bands[0].Low, lo))
	}
	last := bands[len(bands)-1]
	if last.High != hi {
		problems = append(problems, fmt.Sprintf("last band %q ends at %d, maximum achievable score is %d", last.Label, last.High, hi))
	}
	for i := 1; i < len(bands); i++ {
		prev, cur := bands[i-1], bands[i]
		switch {
		case cur.Low > prev.High+1:
			problems = append(problems, fmt.Sprintf("gap between bands %q and %q: scores %d-%d unclassified", prev.Label, cur.Label, prev.High+1, cur.Low-1))
		case cur.Low <= prev.High:
			problems = append(problems, fmt.Sprintf("bands %q and %q overlap at %d", prev.Label, cur.Label, cur.Low))
		}
	}
	return problems
}
