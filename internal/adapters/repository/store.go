// Package repository holds competitions, their scores and the last computed
// leaderboard for each.
package repository

import (
	"context"

	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/internal/domain/model"
)

// Store provides read/write access to competition state.
type Store interface {
	// SaveCompetition creates or replaces a competition together with any
	// scores it carries. A stored leaderboard is discarded.
	SaveCompetition(ctx context.Context, c model.Competition) error

	// Competition returns a copy of the competition with all its scores.
	// Returns ErrNotFound if the competition is unknown.
	Competition(ctx context.Context, id string) (model.Competition, error)

	// CompetitionIDs lists stored competitions in id order.
	CompetitionIDs(ctx context.Context) []string

	// UpsertScore stores the score of a registered athlete for a known
	// event. It reports whether the stored record changed.
	UpsertScore(ctx context.Context, competitionID string, rec model.ScoreRecord) (bool, error)

	// SaveLeaderboard stores the computed leaderboard of a competition.
	SaveLeaderboard(ctx context.Context, competitionID string, entries []leaderboard.Entry) error

	// Leaderboard returns the stored leaderboard and whether one exists.
	Leaderboard(ctx context.Context, competitionID string) ([]leaderboard.Entry, bool, error)

	// Count returns the number of stored competitions.
	Count(ctx context.Context) int
}
