// Package config loads the optional .stylecritic.yml configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/stylecritic/internal/schema"
)

// DefaultFile is the config file looked up when --config is not given.
const DefaultFile = ".stylecritic.yml"

// Config is the top-level stylecritic configuration.
type Config struct {
	Jobs    int                   `yaml:"jobs"`
	Exclude []string              `yaml:"exclude"`
	Options Options               `yaml:"options"`
	Rules   map[string]RuleConfig `yaml:"rules"`
}

// Options holds rule option knobs.
type Options struct {
	MaxLineLength int `yaml:"max_line_length"`
	IndentWidth   int `yaml:"indent_width"`
}

// RuleConfig holds per-rule overrides.
type RuleConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Severity string `yaml:"severity,omitempty"`
}

// Load reads configuration from a YAML file. If path is empty, it tries
// the default file; a missing default file yields defaults, while a
// missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the stock configuration.
func Defaults() *Config {
	return &Config{
		Exclude: []string{},
		Rules:   map[string]RuleConfig{},
	}
}

// Validate rejects malformed values before any file is processed.
// Unknown rule identifiers are caught later, when the registry is built
// and the rule universe is known.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if c.Options.MaxLineLength < 0 {
		return fmt.Errorf("options.max_line_length must be >= 0, got %d", c.Options.MaxLineLength)
	}
	if c.Options.IndentWidth < 0 {
		return fmt.Errorf("options.indent_width must be >= 0, got %d", c.Options.IndentWidth)
	}
	for id, rc := range c.Rules {
		if rc.Severity == "" {
			continue
		}
		if !schema.IsValidSeverity(schema.Severity(rc.Severity)) {
			return fmt.Errorf("rule %q: severity must be warning or error, got %q", id, rc.Severity)
		}
	}
	return nil
}
