package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/config"
	"github.com/abhisek/screenwell/internal/explain"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/llm"
	"github.com/abhisek/screenwell/internal/logging"
	"github.com/abhisek/screenwell/internal/scoring"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/store"
	"github.com/abhisek/screenwell/internal/ui/theme"
)

// env holds everything a command needs, built from flags and config.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	deps  screens.Deps
}

// envOptions selects the optional parts of setup.
type envOptions struct {
	store bool // open the database
	llm   bool // build the explanation provider
}

// loadConfig reads the config file named by --config (or the default path)
// and applies --theme.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if t, _ := cmd.Flags().GetString("theme"); t != "" {
		cfg.Theme = t
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// setup loads config, builds the logger and registry, and optionally opens
// the store and the LLM provider. The caller must Close the result.
func setup(cmd *cobra.Command, opts envOptions) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logging.New(cfg.Log, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: logging disabled:", err)
		log = zap.NewNop()
	}

	th, err := theme.Lookup(cfg.Theme)
	if err != nil {
		return nil, err
	}

	reg := instrument.NewRegistry()
	if cfg.InstrumentsDir != "" {
		ids, err := reg.RegisterDir(cfg.InstrumentsDir)
		if err != nil {
			return nil, fmt.Errorf("load instruments from %s: %w", cfg.InstrumentsDir, err)
		}
		log.Info("loaded custom instruments", zap.String("dir", cfg.InstrumentsDir), zap.Strings("ids", ids))
	}

	e := &env{cfg: cfg, log: log}
	e.deps = screens.Deps{
		Theme:    th,
		Registry: reg,
		Engine:   scoring.NewEngine(log),
		Log:      log,
	}

	if opts.store {
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		log.Debug("opened store", zap.String("path", dbPath))
		e.store = st
		e.deps.Results = st.ResultRepo()
		e.deps.Drafts = st.DraftRepo()
		e.deps.Events = st.EventRepo()
	}

	var provider llm.Provider
	if opts.llm {
		provider = e.newProvider(cmd)
	}
	e.deps.Explainer = explain.New(provider, explain.DefaultConfig(), log)
	e.deps = e.deps.WithDefaults()
	return e, nil
}

// newProvider returns nil when no provider is configured or it cannot be
// built; explanations then use the static fallback.
func (e *env) newProvider(cmd *cobra.Command) llm.Provider {
	lc, err := e.cfg.LLMConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: LLM config:", err)
		return nil
	}
	var recorder llm.EventRecorder
	if e.store != nil {
		recorder = e.store.EventRepo()
	}
	p, err := llm.NewProvider(cmd.Context(), lc, recorder, e.log)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		e.log.Debug("llm disabled")
		return nil
	case err != nil:
		e.log.Warn("llm provider unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "warning: LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Explanations will use the standard band descriptions.")
		return nil
	}
	e.log.Info("llm provider ready", zap.String("provider", p.Name()), zap.String("model", p.ModelID()))
	return p
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("close store", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SCREENWELL_DB or the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
