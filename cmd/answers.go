package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
)

// answerInput collects the ways answers can be given on the command line.
// They are applied in order: file, positional list, then pairs, so a later
// source overrides an earlier one for the same question.
type answerInput struct {
	File       string   // YAML or JSON mapping of question ID to value
	Positional string   // "1,0,2,,3"; empty or "-" leaves a question unanswered
	Pairs      []string // "q1=2" or "1=2" (1-based item number)
}

func (a answerInput) empty() bool {
	return a.File == "" && a.Positional == "" && len(a.Pairs) == 0
}

// buildSession answers a new session for inst from in. Any answer the
// session rejects aborts with its *assessment.InvalidAnswerError.
func buildSession(inst instrument.Instrument, in answerInput) (*assessment.Session, error) {
	sess := assessment.New(inst)

	if in.File != "" {
		answers, err := readAnswersFile(in.File)
		if err != nil {
			return nil, err
		}
		for id, v := range answers {
			if err := sess.SetAnswer(id, v); err != nil {
				return nil, err
			}
		}
	}

	if in.Positional != "" {
		values, err := parsePositional(in.Positional, inst.Len())
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			if err := sess.SetAnswer(inst.Questions[i].ID, *v); err != nil {
				return nil, err
			}
		}
	}

	for _, p := range in.Pairs {
		id, v, err := parsePair(inst, p)
		if err != nil {
			return nil, err
		}
		if err := sess.SetAnswer(id, v); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// parsePositional parses a comma-separated answer list. Entries map to
// questions in order; nil marks a skipped question.
func parsePositional(s string, n int) ([]*int, error) {
	parts := strings.Split(s, ",")
	if len(parts) > n {
		return nil, fmt.Errorf("got %d answers, instrument has %d questions", len(parts), n)
	}
	out := make([]*int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "-" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not a number", i+1, p)
		}
		out[i] = &v
	}
	return out, nil
}

// parsePair parses "q3=1" or "3=1" into a question ID and value.
func parsePair(inst instrument.Instrument, s string) (string, int, error) {
	key, val, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("answer %q: want question=value", s)
	}
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)

	v, err := strconv.Atoi(val)
	if err != nil {
		return "", 0, fmt.Errorf("answer %q: %q is not a number", s, val)
	}

	if _, ok := inst.Question(key); ok {
		return key, v, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= inst.Len() {
		return inst.Questions[n-1].ID, v, nil
	}
	return "", 0, fmt.Errorf("answer %q: %s has no question %q", s, inst.ID, key)
}

// readAnswersFile reads a question-ID to value mapping. JSON is valid YAML,
// so both formats are accepted.
func readAnswersFile(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var answers map[string]int
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return answers, nil
}
