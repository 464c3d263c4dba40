package loadtest

import (
	"fmt"
	"math"

	"github.com/okian/wodboard/internal/domain/leaderboard"
)

// Compare lists every difference between the expected and the served
// standings. Entries are matched by position: both sides are ordered by
// division then rank, and ties are broken by registration order.
func Compare(want, got []leaderboard.Entry) []string {
	var out []string
	if len(want) != len(got) {
		out = append(out, fmt.Sprintf("entry count: want %d, got %d", len(want), len(got)))
	}
	for i := range min(len(want), len(got)) {
		w, g := want[i], got[i]
		if w.AthleteID != g.AthleteID || w.DivisionID != g.DivisionID {
			out = append(out, fmt.Sprintf("position %d: want %s/%s, got %s/%s",
				i, w.DivisionID, w.AthleteID, g.DivisionID, g.AthleteID))
			continue
		}
		if w.OverallRank != g.OverallRank {
			out = append(out, fmt.Sprintf("%s: rank want %d, got %d", w.AthleteID, w.OverallRank, g.OverallRank))
		}
		if !closeEnough(w.TotalPoints, g.TotalPoints) {
			out = append(out, fmt.Sprintf("%s: total want %v, got %v", w.AthleteID, w.TotalPoints, g.TotalPoints))
		}
		out = append(out, compareEvents(w, g)...)
	}
	return out
}

func compareEvents(w, g leaderboard.Entry) []string {
	if len(w.EventResults) != len(g.EventResults) {
		return []string{fmt.Sprintf("%s: event results want %d, got %d",
			w.AthleteID, len(w.EventResults), len(g.EventResults))}
	}
	var out []string
	for j, we := range w.EventResults {
		ge := g.EventResults[j]
		if we.EventID != ge.EventID || we.Rank != ge.Rank || !closeEnough(we.Points, ge.Points) {
			out = append(out, fmt.Sprintf("%s/%s: want rank %d points %v, got %s rank %d points %v",
				w.AthleteID, we.EventID, we.Rank, we.Points, ge.EventID, ge.Rank, ge.Points))
		}
	}
	return out
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= pointsTolerance
}
