// Package loadtest drives a running wodboard server with a synthetic
// competition and checks the served leaderboard against a local
// aggregation of the same scores.
package loadtest

import (
	"time"

	"github.com/okian/wodboard/internal/domain/scoring"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL       string            // Base URL of the service
	CompetitionID string            // Generated when empty
	Algorithm     scoring.Algorithm // Scoring algorithm of the generated competition
	Athletes      int               // Registrations to generate
	Divisions     int               // Divisions the athletes are spread over
	Events        int               // Events to generate
	Duplicates    float64           // Fraction of submissions resent with the same id
	Workers       int               // Concurrent submitters
	Rate          float64           // Submissions per second, 0 for unlimited
	Timeout       time.Duration     // HTTP request timeout
	SettleTimeout time.Duration     // How long to wait for the leaderboard to converge
	Seed          uint64            // Seed for score generation
	Verbose       bool
}

// DefaultConfig returns a small but representative run.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:9080",
		Algorithm:     scoring.AlgorithmTraditional,
		Athletes:      200,
		Divisions:     2,
		Events:        5,
		Duplicates:    defaultDuplicateRatio,
		Workers:       16,
		Timeout:       10 * time.Second,
		SettleTimeout: 30 * time.Second,
		Seed:          1,
	}
}

func (c *Config) normalize() {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Algorithm == "" {
		c.Algorithm = d.Algorithm
	}
	if c.Athletes < 1 {
		c.Athletes = d.Athletes
	}
	if c.Divisions < 1 {
		c.Divisions = 1
	}
	if c.Events < 1 {
		c.Events = d.Events
	}
	if c.Rate < 0 {
		c.Rate = 0
	}
	if c.Duplicates < 0 {
		c.Duplicates = 0
	}
	if c.Workers < 1 {
		c.Workers = d.Workers
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.SettleTimeout <= 0 {
		c.SettleTimeout = d.SettleTimeout
	}
}

// Stats holds run statistics.
type Stats struct {
	Generated   int
	Submitted   int
	Accepted    int
	Duplicate   int
	Throttled   int // 429 responses, each retried
	Failed      int
	Entries     int
	Mismatches  []string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	SettledIn   time.Duration
}

// Verified reports whether the served leaderboard matched.
func (s *Stats) Verified() bool {
	return s.Entries > 0 && len(s.Mismatches) == 0
}
