package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
)

// schemes cycles over the generated events.
var schemes = []scoring.Scheme{
	scoring.SchemeTime,
	scoring.SchemeReps,
	scoring.SchemeLoad,
	scoring.SchemeTimeWithCap,
	scoring.SchemeRoundsReps,
	scoring.SchemePoints,
}

// Plan is a generated competition together with the submissions that
// fill it.
type Plan struct {
	Competition model.Competition
	Submissions []types.ScoreRequest
	// Unique is the number of distinct submission ids; the rest of
	// Submissions are resends.
	Unique int
}

// Expected aggregates the plan's scores locally.
func (p *Plan) Expected() []leaderboard.Entry {
	c := p.Competition
	seen := make(map[string]bool, p.Unique)
	for _, s := range p.Submissions {
		if seen[s.SubmissionID] {
			continue
		}
		seen[s.SubmissionID] = true
		c.Scores = append(c.Scores, model.ScoreRecord{
			EventID:   s.EventID,
			AthleteID: s.AthleteID,
			Value:     s.Value,
			Status:    scoring.ParseStatus(s.Status),
		})
	}
	return leaderboard.Aggregate(leaderboard.FromCompetition(c))
}

// Generate builds a competition for cfg. Scores depend only on cfg.Seed;
// submission ids and a missing competition id are random.
func Generate(ctx context.Context, cfg Config) *Plan {
	cfg.normalize()
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5bd1e995))
	faker := gofakeit.New(cfg.Seed)

	id := cfg.CompetitionID
	if id == "" {
		id = "load-" + uuid.NewString()[:8]
	}
	c := model.Competition{
		ID:      id,
		Name:    fmt.Sprintf("Load test %d", cfg.Seed),
		Scoring: scoring.Config{Algorithm: cfg.Algorithm},
	}
	for i := range cfg.Events {
		c.Events = append(c.Events, model.Event{
			ID:     fmt.Sprintf("e%d", i+1),
			Name:   fmt.Sprintf("Event %d", i+1),
			Order:  i + 1,
			Scheme: schemes[i%len(schemes)],
		})
	}
	for i := range cfg.Athletes {
		c.Registrations = append(c.Registrations, model.Registration{
			AthleteID:  fmt.Sprintf("athlete-%04d", i+1),
			Name:       faker.Name(),
			DivisionID: fmt.Sprintf("div-%d", i%cfg.Divisions+1),
		})
	}

	plan := &Plan{Competition: c}
	for _, ev := range c.Events {
		for _, reg := range c.Registrations {
			req, ok := generateScore(r, ev, reg.AthleteID)
			if !ok {
				continue
			}
			plan.Submissions = append(plan.Submissions, req)
		}
	}
	plan.Unique = len(plan.Submissions)

	resends := int(float64(plan.Unique) * cfg.Duplicates)
	for range resends {
		plan.Submissions = append(plan.Submissions, plan.Submissions[r.IntN(plan.Unique)])
	}
	r.Shuffle(len(plan.Submissions), func(i, j int) {
		plan.Submissions[i], plan.Submissions[j] = plan.Submissions[j], plan.Submissions[i]
	})

	logger.Get().Info(ctx, "generated load plan",
		logger.String("competition_id", c.ID),
		logger.Int("events", len(c.Events)),
		logger.Int("athletes", len(c.Registrations)),
		logger.Int("submissions", len(plan.Submissions)),
		logger.Int("resends", resends))
	return plan
}

// generateScore draws one athlete's result in ev. It reports false when the
// athlete has no result at all.
func generateScore(r *rand.Rand, ev model.Event, athleteID string) (types.ScoreRequest, bool) {
	req := types.ScoreRequest{
		SubmissionID: uuid.NewString(),
		EventID:      ev.ID,
		AthleteID:    athleteID,
		Status:       string(scoring.StatusScored),
	}

	roll := r.IntN(100)
	switch {
	case roll < missingPercent:
		return types.ScoreRequest{}, false
	case roll < missingPercent+dnfPercent:
		req.Status = string(scoring.StatusDNF)
		return req, true
	case roll < missingPercent+dnfPercent+dnsPercent:
		req.Status = string(scoring.StatusDNS)
		return req, true
	case roll < missingPercent+dnfPercent+dnsPercent+withdrawnPercent:
		req.Status = string(scoring.StatusWithdrawn)
		return req, true
	}

	// Integer values keep ties common so countback gets exercised.
	switch ev.Scheme {
	case scoring.SchemeTime:
		req.Value = float64(120 + r.IntN(900))
	case scoring.SchemeTimeWithCap:
		if r.IntN(100) < capPercent {
			req.Status = string(scoring.StatusCap)
			req.Value = float64(timeCapSeconds + r.IntN(60))
		} else {
			req.Value = float64(300 + r.IntN(timeCapSeconds-300))
		}
	case scoring.SchemeReps:
		req.Value = float64(20 + r.IntN(180))
	case scoring.SchemeLoad:
		req.Value = float64(5 * (20 + r.IntN(40)))
	case scoring.SchemeRoundsReps:
		req.Value = float64(r.IntN(15)*100 + r.IntN(40))
	default:
		req.Value = float64(r.IntN(100))
	}
	return req, true
}
