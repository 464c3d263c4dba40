package loadtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/pkg/logger"
)

// ErrMismatch is returned when the served leaderboard never converged to
// the locally aggregated one.
var ErrMismatch = errors.New("leaderboard mismatch")

// Run executes a complete load test against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg.normalize()
	log := logger.Get().Named("loadtest")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("algorithm", string(cfg.Algorithm)),
		logger.Int("athletes", cfg.Athletes),
		logger.Int("events", cfg.Events),
		logger.Int("workers", cfg.Workers))

	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	plan := Generate(ctx, cfg)
	stats.Generated = len(plan.Submissions)

	if _, err := client.CreateCompetition(ctx, plan.Competition); err != nil {
		return stats, fmt.Errorf("create competition: %w", err)
	}

	submitScores(ctx, cfg, client, plan.Competition.ID, plan.Submissions, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	settleStart := time.Now()
	stats.Mismatches, stats.Entries = settle(ctx, cfg, client, plan.Competition.ID, plan.Expected())
	stats.SettledIn = time.Since(settleStart)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if !stats.Verified() {
		for _, m := range stats.Mismatches {
			log.Warn(ctx, "leaderboard mismatch", logger.String("detail", m))
		}
		return stats, fmt.Errorf("%w: %d differences after %s", ErrMismatch, len(stats.Mismatches), stats.SettledIn)
	}
	log.Info(ctx, "load test completed",
		logger.Duration("duration", stats.Duration),
		logger.Duration("settled_in", stats.SettledIn),
		logger.Int("entries", stats.Entries))
	return stats, nil
}

// settle polls the served leaderboard until it matches want or the settle
// timeout passes. It returns the differences of the last poll.
func settle(ctx context.Context, cfg Config, client *HTTPClient, competitionID string, want []leaderboard.Entry) ([]string, int) {
	ctx, cancel := context.WithTimeout(ctx, cfg.SettleTimeout)
	defer cancel()

	ticker := time.NewTicker(settlePollInterval)
	defer ticker.Stop()

	var diff []string
	entries := 0
	for {
		lb, err := client.Leaderboard(ctx, competitionID)
		switch {
		case err != nil:
			diff = []string{err.Error()}
		default:
			entries = len(lb.Entries)
			diff = Compare(want, lb.Entries)
			if len(diff) == 0 {
				return nil, entries
			}
		}
		select {
		case <-ctx.Done():
			return diff, entries
		case <-ticker.C:
		}
	}
}
