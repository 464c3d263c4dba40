package loadtest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
)

type counters struct {
	submitted atomic.Int64
	accepted  atomic.Int64
	duplicate atomic.Int64
	throttled atomic.Int64
	failed    atomic.Int64
}

// submitScores posts every submission using cfg.Workers concurrent
// workers, at most cfg.Rate per second when set. Throttled submissions are
// retried with a fixed backoff.
func submitScores(ctx context.Context, cfg Config, client *HTTPClient, competitionID string, subs []types.ScoreRequest, stats *Stats) {
	log := logger.Get().Named("loadtest")
	log.Info(ctx, "submitting scores",
		logger.Int("submissions", len(subs)),
		logger.Int("workers", cfg.Workers))

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Workers)
	}

	var c counters
	ch := make(chan types.ScoreRequest, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range ch {
				outcome := submitWithRetry(ctx, client, limiter, competitionID, req, &c)
				c.submitted.Add(1)
				switch outcome {
				case outcomeAccepted:
					c.accepted.Add(1)
				case outcomeDuplicate:
					c.duplicate.Add(1)
				default:
					c.failed.Add(1)
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if cfg.Verbose {
					log.Info(ctx, "progress",
						logger.Int("submitted", int(c.submitted.Load())),
						logger.Int("total", len(subs)),
						logger.Int("throttled", int(c.throttled.Load())),
						logger.Int("failed", int(c.failed.Load())))
				}
			}
		}
	}()

feed:
	for _, req := range subs {
		select {
		case <-ctx.Done():
			break feed
		case ch <- req:
		}
	}
	close(ch)
	wg.Wait()
	close(done)

	stats.Submitted = int(c.submitted.Load())
	stats.Accepted = int(c.accepted.Load())
	stats.Duplicate = int(c.duplicate.Load())
	stats.Throttled = int(c.throttled.Load())
	stats.Failed = int(c.failed.Load())

	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("throttled", stats.Throttled),
		logger.Int("failed", stats.Failed))
}

func submitWithRetry(ctx context.Context, client *HTTPClient, limiter *rate.Limiter, competitionID string, req types.ScoreRequest, c *counters) string {
	for range maxSubmitAttempts {
		if err := limiter.Wait(ctx); err != nil {
			return outcomeFailed
		}
		outcome, err := client.SubmitScore(ctx, competitionID, req)
		if !errors.Is(err, errThrottled) {
			if err != nil {
				logger.Get().Debug(ctx, "submission failed",
					logger.String("submission_id", req.SubmissionID),
					logger.Error(err))
			}
			return outcome
		}
		c.throttled.Add(1)
		select {
		case <-ctx.Done():
			return outcomeFailed
		case <-time.After(throttleBackoff):
		}
	}
	return outcomeFailed
}
