// Package config loads and validates the run configuration.
package config

import (
	"os"

	"github.com/go-errors/errors"
	"github.com/hittracker/hittracker/pkg/parser"
	"gopkg.in/yaml.v3"
)

// DefaultDatabase is the fallback DuckDB path when none is specified.
const DefaultDatabase = "hittracker.duckdb"

// Config is the full run configuration. Zero values fall back to defaults.
type Config struct {
	// Format selects the line format; "auto" samples the input first.
	Format string `yaml:"format"`
	// KeyField is the JSON field to count by.
	KeyField string `yaml:"key_field"`
	// KeyIndex is the 1-based key token position for the fields format;
	// 0 means "first token after the timestamp".
	KeyIndex int `yaml:"key_index"`
	// TimeField overrides the JSON time field candidates.
	TimeField string `yaml:"time_field"`
	// FilterFile is a regex drop-list applied before parsing.
	FilterFile string `yaml:"filter_file"`
	// Dedup enables at-most-once counting per (file, line) within a run.
	Dedup bool `yaml:"dedup"`
	// ReportsDir receives the rendered report artifacts.
	ReportsDir string `yaml:"reports_dir"`
	// Database is the DuckDB path for cross-run history.
	Database string `yaml:"database"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:     parser.FormatAuto,
		Dedup:      true,
		ReportsDir: "reports",
		Database:   ResolveDatabase(""),
	}
}

// Load reads and validates a configuration file. An empty path returns the
// defaults; a named but missing file is a configuration error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration before any file is opened.
func (c *Config) Validate() error {
	if c.KeyIndex < 0 {
		return errors.Errorf("key_index must not be negative")
	}
	if c.Format == parser.FormatAuto {
		return nil
	}
	// Building the parser is the authoritative format check.
	if _, err := parser.New(c.ParserOptions()); err != nil {
		return err
	}
	return nil
}

// ParserOptions converts the configuration into parser options.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		Format:    c.Format,
		KeyIndex:  c.KeyIndex,
		KeyField:  c.KeyField,
		TimeField: c.TimeField,
	}
}

// ResolveDatabase returns the database path to use, checking the explicit
// value first, then the HITTRACKER_DB environment variable, and finally the
// default.
func ResolveDatabase(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("HITTRACKER_DB"); env != "" {
		return env
	}
	return DefaultDatabase
}
