// Package config loads the screenwell configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/screenwell/internal/llm"
	"github.com/abhisek/screenwell/internal/ui/theme"
)

// Config is the on-disk configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty selects the XDG default.
	DBPath string `yaml:"db_path,omitempty"`

	// Theme is one of theme.Names().
	Theme string `yaml:"theme"`

	// InstrumentsDir holds additional instrument definitions (*.yaml).
	InstrumentsDir string `yaml:"instruments_dir,omitempty"`

	Log LogConfig `yaml:"log"`
	LLM LLMConfig `yaml:"llm"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level string `yaml:"level"`          // debug, info, warn, error
	File  string `yaml:"file,omitempty"` // empty = <data dir>/screenwell.log
}

// LLMConfig selects the provider used for plain-language explanations.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // anthropic, openai, gemini, openrouter, mock, none
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"` // Go duration, e.g. "30s"
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Theme: theme.Calm,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/screenwell/config.yaml, falling back
// to ~/.config/screenwell/config.yaml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "screenwell", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "screenwell", "config.yaml"), nil
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies SCREENWELL_* variables. When no LLM provider is
// configured, the standard provider API key variables select one.
func (c *Config) applyEnvOverrides() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.DBPath, "SCREENWELL_DB")
	set(&c.Theme, "SCREENWELL_THEME")
	set(&c.InstrumentsDir, "SCREENWELL_INSTRUMENTS_DIR")
	set(&c.Log.Level, "SCREENWELL_LOG_LEVEL")
	set(&c.Log.File, "SCREENWELL_LOG_FILE")

	if c.LLM.Provider == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			c.LLM.Provider = found.Provider
			c.LLM.APIKey = apiKey(found)
		}
	}
}

func apiKey(cfg llm.Config) string {
	switch cfg.Provider {
	case llm.ProviderAnthropic:
		return cfg.Anthropic.APIKey
	case llm.ProviderOpenAI:
		return cfg.OpenAI.APIKey
	case llm.ProviderGemini:
		return cfg.Gemini.APIKey
	case llm.ProviderOpenRouter:
		return cfg.OpenRouter.APIKey
	}
	return ""
}

// Validate checks the theme, log level and LLM timeout.
func (c *Config) Validate() error {
	if _, err := theme.Lookup(c.Theme); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.LLM.Timeout != "" {
		if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
			return fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
		}
	}
	return nil
}

// LLMConfig converts the file's llm section into an llm.Config.
// SCREENWELL_* LLM variables win over the file.
func (c *Config) LLMConfig() (llm.Config, error) {
	out := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		out.Provider = strings.ToLower(c.LLM.Provider)
	}

	fill := func(key, model *string) {
		if c.LLM.APIKey != "" {
			*key = c.LLM.APIKey
		}
		if c.LLM.Model != "" {
			*model = c.LLM.Model
		}
	}
	switch out.Provider {
	case llm.ProviderAnthropic:
		fill(&out.Anthropic.APIKey, &out.Anthropic.Model)
	case llm.ProviderOpenAI:
		fill(&out.OpenAI.APIKey, &out.OpenAI.Model)
		if c.LLM.BaseURL != "" {
			out.OpenAI.BaseURL = c.LLM.BaseURL
		}
	case llm.ProviderGemini:
		fill(&out.Gemini.APIKey, &out.Gemini.Model)
	case llm.ProviderOpenRouter:
		fill(&out.OpenRouter.APIKey, &out.OpenRouter.Model)
		if c.LLM.BaseURL != "" {
			out.OpenRouter.BaseURL = c.LLM.BaseURL
		}
	}

	if c.LLM.Timeout != "" {
		d, err := time.ParseDuration(c.LLM.Timeout)
		if err != nil {
			return llm.Config{}, fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
		}
		out.Timeout = d
	}

	llm.ApplyEnv(&out)
	return out, nil
}
