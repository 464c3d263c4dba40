// Package config defines service configuration and the fixture documents
// used to seed competitions.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/wodboard/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of submission workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many submission ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// FixturesPath names a YAML file of competitions loaded at startup.
	FixturesPath string `koanf:"fixtures_path"`

	// WatchFixtures reloads FixturesPath whenever it changes.
	WatchFixtures bool `koanf:"watch_fixtures"`

	// DefaultAlgorithm scores competitions that do not name one.
	DefaultAlgorithm string `koanf:"default_algorithm"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       50_000,
		DefaultAlgorithm: string(scoring.AlgorithmTraditional),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WatchFixtures && c.FixturesPath == "":
		return fmt.Errorf("%w: watch_fixtures needs fixtures_path", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if !scoring.Algorithm(c.DefaultAlgorithm).Valid() {
		return fmt.Errorf("%w: unknown default_algorithm %q", ErrInvalidConfig, c.DefaultAlgorithm)
	}
	return nil
}

// ScoringDefaults returns the scoring config applied to competitions
// without an algorithm.
func (c *Config) ScoringDefaults() scoring.Config {
	cfg := scoring.DefaultConfig()
	cfg.Algorithm = scoring.Algorithm(c.DefaultAlgorithm)
	return cfg
}
