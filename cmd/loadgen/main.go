// Command loadgen drives a running server with a synthetic competition and
// verifies the leaderboard it serves.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/okian/wodboard/internal/domain/scoring"
	"github.com/okian/wodboard/internal/loadtest"
)

const (
	urlFlag        = "url"
	athletesFlag   = "athletes"
	divisionsFlag  = "divisions"
	eventsFlag     = "events"
	algorithmFlag  = "algorithm"
	duplicatesFlag = "duplicates"
	workersFlag    = "workers"
	rateFlag       = "rate"
	timeoutFlag    = "timeout"
	settleFlag     = "settle"
	seedFlag       = "seed"
	logFlag        = "log"
	verboseFlag    = "verbose"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout io.Writer) *cli.App {
	d := loadtest.DefaultConfig()
	return &cli.App{
		Name:    "loadgen",
		Usage:   "Submit a synthetic competition to a running server and verify its leaderboard",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: urlFlag, Usage: "Base URL of the service", Value: d.BaseURL},
			&cli.IntFlag{Name: athletesFlag, Aliases: []string{"n"}, Usage: "Registrations to generate", Value: d.Athletes},
			&cli.IntFlag{Name: divisionsFlag, Usage: "Divisions to spread athletes over", Value: d.Divisions},
			&cli.IntFlag{Name: eventsFlag, Aliases: []string{"e"}, Usage: "Events to generate", Value: d.Events},
			&cli.StringFlag{Name: algorithmFlag, Aliases: []string{"a"}, Usage: "Scoring algorithm", Value: string(d.Algorithm)},
			&cli.Float64Flag{Name: duplicatesFlag, Usage: "Fraction of submissions resent with the same id", Value: d.Duplicates},
			&cli.IntFlag{Name: workersFlag, Aliases: []string{"w"}, Usage: "Concurrent submitters", Value: d.Workers},
			&cli.Float64Flag{Name: rateFlag, Usage: "Submissions per second, 0 for unlimited"},
			&cli.DurationFlag{Name: timeoutFlag, Usage: "HTTP request timeout", Value: d.Timeout},
			&cli.DurationFlag{Name: settleFlag, Usage: "How long to wait for the leaderboard to converge", Value: d.SettleTimeout},
			&cli.Uint64Flag{Name: seedFlag, Usage: "Seed for score generation", Value: d.Seed},
			&cli.StringFlag{Name: logFlag, Usage: "Log file. Empty for a timestamped name, \"-\" for stdout only.", Value: "-"},
			&cli.BoolFlag{Name: verboseFlag, Usage: "Enable verbose logging"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFromContext(c)
			if err != nil {
				return err
			}
			closeLog, err := loadtest.SetupLogging(c.String(logFlag), cfg.Verbose)
			if err != nil {
				return err
			}
			defer closeLog()

			stats, err := loadtest.Run(c.Context, cfg)
			printStats(stdout, stats)
			return err
		},
	}
}

func configFromContext(c *cli.Context) (loadtest.Config, error) {
	alg := scoring.Algorithm(c.String(algorithmFlag))
	if !alg.Valid() {
		return loadtest.Config{}, fmt.Errorf("unknown algorithm %q", alg)
	}
	return loadtest.Config{
		BaseURL:       c.String(urlFlag),
		Algorithm:     alg,
		Athletes:      c.Int(athletesFlag),
		Divisions:     c.Int(divisionsFlag),
		Events:        c.Int(eventsFlag),
		Duplicates:    c.Float64(duplicatesFlag),
		Workers:       c.Int(workersFlag),
		Rate:          c.Float64(rateFlag),
		Timeout:       c.Duration(timeoutFlag),
		SettleTimeout: c.Duration(settleFlag),
		Seed:          c.Uint64(seedFlag),
		Verbose:       c.Bool(verboseFlag),
	}, nil
}

func printStats(w io.Writer, s *loadtest.Stats) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "generated:  %d\n", s.Generated)
	fmt.Fprintf(w, "submitted:  %d (accepted %d, duplicate %d, failed %d, throttled retries %d)\n",
		s.Submitted, s.Accepted, s.Duplicate, s.Failed, s.Throttled)
	fmt.Fprintf(w, "entries:    %d\n", s.Entries)
	fmt.Fprintf(w, "settled in: %s\n", s.SettledIn)
	fmt.Fprintf(w, "duration:   %s\n", s.Duration)
	fmt.Fprintf(w, "verified:   %t\n", s.Verified())
}
