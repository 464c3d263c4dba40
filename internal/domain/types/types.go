// Package types contains the JSON shapes exchanged over the HTTP API.
package types

import (
	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/internal/domain/scoring"
)

// ComputeEventRequest scores one event for one division.
type ComputeEventRequest struct {
	Scheme       scoring.Scheme  `json:"scheme"`
	Config       *scoring.Config `json:"config,omitempty"`
	DivisionSize int             `json:"division_size,omitempty"`
	Scores       []ScoreInput    `json:"scores"`
}

// ScoreInput is a score as clients send it. Status accepts any storage
// spelling and is normalized by ParseStatus.
type ScoreInput struct {
	AthleteID string  `json:"athlete_id"`
	Value     float64 `json:"value"`
	Status    string  `json:"status"`
}

// Score converts the input into an engine score.
func (s ScoreInput) Score() scoring.Score {
	return scoring.Score{
		AthleteID: s.AthleteID,
		Value:     s.Value,
		Status:    scoring.ParseStatus(s.Status),
	}
}

// EventResult is one athlete's placing in a computed event.
type EventResult struct {
	Rank   int     `json:"rank"`
	Points float64 `json:"points"`
}

// ComputeEventResponse maps athlete ids to their event result.
type ComputeEventResponse struct {
	Algorithm scoring.Algorithm      `json:"algorithm"`
	Results   map[string]EventResult `json:"results"`
}

// LeaderboardResponse is a ranked leaderboard.
type LeaderboardResponse struct {
	CompetitionID string              `json:"competition_id,omitempty"`
	Division      string              `json:"division,omitempty"`
	Divisions     []string            `json:"divisions"`
	Entries       []leaderboard.Entry `json:"entries"`
}

// EventLeaderboardResponse is the per-event view of a leaderboard.
type EventLeaderboardResponse struct {
	CompetitionID string                 `json:"competition_id"`
	EventID       string                 `json:"event_id"`
	Division      string                 `json:"division,omitempty"`
	Rows          []leaderboard.EventRow `json:"rows"`
}

// AlgorithmInfo describes a scoring algorithm.
type AlgorithmInfo struct {
	Name                  scoring.Algorithm `json:"name"`
	DisplayName           string            `json:"display_name"`
	LowerIsBetter         bool              `json:"lower_is_better"`
	CanHaveNegativeScores bool              `json:"can_have_negative_scores"`
}

// PointsTableRequest previews the points awarded per place.
type PointsTableRequest struct {
	Config       scoring.Config `json:"config"`
	Places       int            `json:"places,omitempty"`
	DivisionSize int            `json:"division_size,omitempty"`
}

// PointsTableResponse lists points per place.
type PointsTableResponse struct {
	Algorithm scoring.Algorithm     `json:"algorithm"`
	Places    []scoring.PointsEntry `json:"places"`
}

// CompetitionResponse acknowledges a stored competition.
type CompetitionResponse struct {
	ID            string `json:"id"`
	Events        int    `json:"events"`
	Registrations int    `json:"registrations"`
}

// ScoreRequest submits one score for asynchronous processing.
type ScoreRequest struct {
	SubmissionID string  `json:"submission_id,omitempty"`
	EventID      string  `json:"event_id"`
	AthleteID    string  `json:"athlete_id"`
	Value        float64 `json:"value"`
	Status       string  `json:"status,omitempty"`
}

// ScoreResponse acknowledges a submission.
type ScoreResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

// Submission acknowledgement statuses.
const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
