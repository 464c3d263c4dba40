package leaderboard

import (
	"sort"
	"strings"
)

// EventRow is one athlete's placing in a single event view.
type EventRow struct {
	AthleteID      string   `json:"athlete_id"`
	Name           string   `json:"name,omitempty"`
	DivisionID     string   `json:"division_id"`
	Rank           int      `json:"rank"`
	Points         float64  `json:"points"`
	RawValue       *float64 `json:"raw_value"`
	FormattedScore string   `json:"formatted_score"`
	TimeCapped     bool     `json:"time_capped"`
}

// EventLeaderboard extracts ranked results for eventID from an aggregated
// leaderboard. Placeholders are dropped and rows are ordered by rank.
func EventLeaderboard(entries []Entry, eventID string) []EventRow {
	var rows []EventRow
	for _, e := range entries {
		for _, r := range e.EventResults {
			if r.EventID != eventID || r.Rank <= 0 {
				continue
			}
			rows = append(rows, EventRow{
				AthleteID:      e.AthleteID,
				Name:           e.Name,
				DivisionID:     e.DivisionID,
				Rank:           r.Rank,
				Points:         r.Points,
				RawValue:       r.RawValue,
				FormattedScore: r.FormattedScore,
				TimeCapped:     strings.Contains(r.FormattedScore, "cap"),
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	return rows
}
