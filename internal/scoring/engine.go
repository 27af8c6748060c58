// Package scoring turns an assessment session into a total score and a
// published severity band.
package scoring

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
)

// Engine scores sessions and applies alert rules. The zero value is not
// usable; construct with NewEngine.
type Engine struct {
	rules []AlertRule
	log   *zap.Logger
}

// NewEngine returns an engine with the given rules. A nil logger disables
// logging; nil rules means DefaultRules.
func NewEngine(log *zap.Logger, rules ...AlertRule) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules, log: log}
}

var defaultEngine = NewEngine(nil)

// Score scores sess against inst using the default alert rules.
func Score(sess *assessment.Session, inst instrument.Instrument) (Result, error) {
	return defaultEngine.Score(sess, inst)
}

// Score computes the result for sess. It reads the session and never
// modifies it, so repeated calls on an unchanged session return equal
// results.
//
// Unanswered questions contribute 0 and mark the result Partial; a band is
// still looked up so callers can display it alongside a not-valid notice.
func (e *Engine) Score(sess *assessment.Session, inst instrument.Instrument) (Result, error) {
	if sess.InstrumentID() != inst.ID {
		return Result{}, fmt.Errorf("%w: session is for %q, instrument is %q",
			ErrInstrumentMismatch, sess.InstrumentID(), inst.ID)
	}

	answers := sess.Snapshot()
	total, answered := 0, 0
	for _, q := range inst.Questions {
		if v, ok := answers[q.ID]; ok {
			total += v
			answered++
		}
	}

	band, ok := LookupBand(inst.Bands, total)
	if !ok {
		err := &ConfigurationError{InstrumentID: inst.ID, Score: total}
		e.log.Error("no severity band for score",
			zap.String("instrument", inst.ID),
			zap.Int("score", total),
			zap.Int("bands", len(inst.Bands)),
		)
		return Result{}, err
	}

	res := Result{
		InstrumentID: inst.ID,
		TotalScore:   total,
		MaxScore:     inst.MaxScore(),
		SeverityBand: band.Label,
		BandSummary:  band.Summary,
		Partial:      answered < inst.Len(),
		Answered:     answered,
		Total:        inst.Len(),
		Alerts:       RunRules(e.rules, inst, answers),
	}
	if res.HasAlerts() {
		e.log.Warn("alert raised",
			zap.String("instrument", inst.ID),
			zap.String("session", sess.ID()),
			zap.Int("alerts", len(res.Alerts)),
		)
	}
	e.log.Debug("scored session",
		zap.String("instrument", inst.ID),
		zap.Int("total", total),
		zap.String("band", band.Label),
		zap.Bool("partial", res.Partial),
	)
	return res, nil
}

// LookupBand returns the first band containing score. Bands are expected in
// ascending order.
func LookupBand(bands []instrument.Band, score int) (instrument.Band, bool) {
	for _, b := range bands {
		if b.Contains(score) {
			return b, true
		}
	}
	return instrument.Band{}, false
}
