package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds the engine knobs recognized by kubediag.
type Config struct {
	// EnableCategories restricts rule evaluation to these categories.
	// Empty means all categories are eligible.
	EnableCategories []string `koanf:"enable_categories"`

	// DisableCategories removes rules in these categories after the
	// enable filter has been applied.
	DisableCategories []string `koanf:"disable_categories"`

	// Verbose includes metadata.rulesEvaluated in the Explanation.
	Verbose bool `koanf:"verbose"`

	// EngineVersion is stamped into metadata.engineVersion.
	EngineVersion string `koanf:"engine_version"`

	// RuleCorpusPath points at an additional YAML file of declarative
	// rules to load alongside the built-in programmatic corpus. Empty
	// means only the built-in corpus is used.
	RuleCorpusPath string `koanf:"rule_corpus_path"`

	// LogLevel is the default logger verbosity (debug|info|warn|error).
	LogLevel string `koanf:"log_level"`
}

// Default returns the zero-configuration defaults.
func Default() *Config {
	return &Config{
		EngineVersion: "v1",
		LogLevel:      "info",
	}
}

// Load merges defaults, an optional YAML file, and a koanf instance
// populated by the caller (typically CLI flag overrides via
// structs.Provider) into a single Config. path may be empty, in which
// case only defaults and the caller-provided layer apply.
func Load(path string, overrides *koanf.Koanf) (*Config, error) {
	k := koanf.New(".")

	def := Default()
	if err := k.Load(structs.Provider(def, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if overrides != nil {
		if err := k.Merge(overrides); err != nil {
			return nil, fmt.Errorf("failed to merge config overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.EngineVersion == "" {
		return NewConfigError("engine_version must not be empty")
	}

	overlap := make(map[string]bool, len(c.EnableCategories))
	for _, cat := range c.EnableCategories {
		overlap[cat] = true
	}
	for _, cat := range c.DisableCategories {
		if overlap[cat] {
			return NewConfigError(fmt.Sprintf("category %q cannot be both enabled and disabled", cat))
		}
	}

	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return e.message
}
