// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"time"

	"github.com/okian/wodboard/internal/domain/scoring"
)

// DefaultDivision is used for registrations without a division.
const DefaultDivision = "open"

// Competition is a scored track of events with its registrations.
type Competition struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Scoring       scoring.Config `json:"scoring" yaml:"scoring"`
	Events        []Event        `json:"events" yaml:"events"`
	Registrations []Registration `json:"registrations" yaml:"registrations"`
	Scores        []ScoreRecord  `json:"scores,omitempty" yaml:"scores,omitempty"`
}

// Event returns the event with the given id.
func (c *Competition) Event(id string) (Event, bool) {
	for _, e := range c.Events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// Registration returns the registration of athleteID.
func (c *Competition) Registration(athleteID string) (Registration, bool) {
	for _, r := range c.Registrations {
		if r.AthleteID == athleteID {
			return r, true
		}
	}
	return Registration{}, false
}

// Event is one workout in a competition track.
type Event struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Order  int            `json:"order" yaml:"order"`
	Scheme scoring.Scheme `json:"scheme" yaml:"scheme"`
	// PointsMultiplier scales awarded points in percent. Zero means 100.
	PointsMultiplier int `json:"points_multiplier,omitempty" yaml:"points_multiplier,omitempty"`
	// PublishedDivisions limits visible results to the listed divisions.
	// A nil slice publishes every division.
	PublishedDivisions []string `json:"published_divisions,omitempty" yaml:"published_divisions,omitempty"`
}

// Multiplier returns the points multiplier in percent.
func (e Event) Multiplier() int {
	if e.PointsMultiplier <= 0 {
		return 100
	}
	return e.PointsMultiplier
}

// Published reports whether results for division are visible.
func (e Event) Published(division string) bool {
	return e.PublishedDivisions == nil || slices.Contains(e.PublishedDivisions, division)
}

// Registration binds an athlete to a division.
type Registration struct {
	AthleteID  string `json:"athlete_id" yaml:"athlete_id"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	DivisionID string `json:"division_id,omitempty" yaml:"division_id,omitempty"`
}

// Division returns the registration's division, defaulting to open.
func (r Registration) Division() string {
	if r.DivisionID == "" {
		return DefaultDivision
	}
	return r.DivisionID
}

// ScoreRecord is the stored score of one athlete in one event.
type ScoreRecord struct {
	EventID   string         `json:"event_id" yaml:"event_id"`
	AthleteID string         `json:"athlete_id" yaml:"athlete_id"`
	Value     float64        `json:"value" yaml:"value"`
	Status    scoring.Status `json:"status" yaml:"status"`
	UpdatedAt time.Time      `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Submission is a score submitted by clients for asynchronous processing.
type Submission struct {
	SubmissionID  string // unique id for idempotency
	CompetitionID string
	EventID       string
	AthleteID     string
	Value         float64
	Status        scoring.Status
	TS            time.Time
}

// Record converts the submission into a stored score.
func (s Submission) Record() ScoreRecord {
	return ScoreRecord{
		EventID:   s.EventID,
		AthleteID: s.AthleteID,
		Value:     s.Value,
		Status:    s.Status,
		UpdatedAt: s.TS,
	}
}
