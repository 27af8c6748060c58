// Package screens holds what every screen is constructed with.
package screens

import (
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/explain"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/scoring"
	"github.com/abhisek/screenwell/internal/store"
	"github.com/abhisek/screenwell/internal/ui/theme"
)

// Deps are the collaborators shared by all screens. The repositories may be
// nil when no database is open; screens then skip persistence.
type Deps struct {
	Theme     theme.Theme
	Registry  *instrument.Registry
	Engine    *scoring.Engine
	Results   store.ResultRepo
	Drafts    store.DraftRepo
	Events    store.EventRepo
	Explainer *explain.Service
	Log       *zap.Logger
}

// WithDefaults fills unset fields with working zero-config values.
func (d Deps) WithDefaults() Deps {
	if d.Theme.Name == "" {
		d.Theme = theme.Default()
	}
	if d.Registry == nil {
		d.Registry = instrument.Default()
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Engine == nil {
		d.Engine = scoring.NewEngine(d.Log)
	}
	if d.Explainer == nil {
		d.Explainer = explain.New(nil, explain.DefaultConfig(), d.Log)
	}
	return d
}
