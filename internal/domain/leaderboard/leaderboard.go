// Package leaderboard folds per-event results into ranked per-division
// standings.
package leaderboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
)

// Placeholder is the formatted score of an event without a result.
const Placeholder = "N/A"

// Input is everything needed to build a leaderboard.
type Input struct {
	Config        scoring.Config
	Events        []model.Event
	Registrations []model.Registration
	Scores        []model.ScoreRecord
}

// FromCompetition builds an Input from a competition and its scores.
func FromCompetition(c model.Competition) Input {
	return Input{
		Config:        c.Scoring,
		Events:        c.Events,
		Registrations: c.Registrations,
		Scores:        c.Scores,
	}
}

// EventResult is an athlete's placing in one event. RawValue is nil for
// placeholders.
type EventResult struct {
	EventID        string   `json:"event_id"`
	EventName      string   `json:"event_name,omitempty"`
	Order          int      `json:"order"`
	Rank           int      `json:"rank"`
	Points         float64  `json:"points"`
	RawValue       *float64 `json:"raw_value"`
	FormattedScore string   `json:"formatted_score"`
}

// Entry is one registration's standing within its division.
type Entry struct {
	AthleteID    string        `json:"athlete_id"`
	Name         string        `json:"name,omitempty"`
	DivisionID   string        `json:"division_id"`
	TotalPoints  float64       `json:"total_points"`
	OverallRank  int           `json:"overall_rank"`
	EventResults []EventResult `json:"event_results"`
}

func (e *Entry) placements(rank int) int {
	n := 0
	for _, r := range e.EventResults {
		if r.Rank == rank {
			n++
		}
	}
	return n
}

type tally struct {
	entry *Entry
	total decimal.Decimal
}

// Aggregate computes every event separately per division, sums points per
// registration and ranks each division by total with countback on firsts
// then seconds. Entries come back ordered by division then overall rank and
// carry exactly one result per event in track order.
//
// Under the online algorithm lower totals win, so an athlete with no results
// totals 0 and ranks first in the division.
//
// Aggregate panics when in.Config names an unknown algorithm.
func Aggregate(in Input, opts ...Option) []Entry {
	o := options{formatter: DefaultFormatter}
	for _, opt := range opts {
		opt(&o)
	}

	events := make([]model.Event, len(in.Events))
	copy(events, in.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Order < events[j].Order })

	tallies := make([]*tally, 0, len(in.Registrations))
	byAthlete := make(map[string]*tally, len(in.Registrations))
	divisionSize := make(map[string]int)
	for _, reg := range in.Registrations {
		div := reg.Division()
		if o.division != "" && div != o.division {
			continue
		}
		if _, dup := byAthlete[reg.AthleteID]; dup {
			continue
		}
		t := &tally{entry: &Entry{
			AthleteID:    reg.AthleteID,
			Name:         reg.Name,
			DivisionID:   div,
			EventResults: make([]EventResult, 0, len(events)),
		}}
		tallies = append(tallies, t)
		byAthlete[reg.AthleteID] = t
		divisionSize[div]++
	}

	// event -> division -> records, last write wins per athlete.
	records := make(map[string]map[string]map[string]model.ScoreRecord)
	for _, rec := range in.Scores {
		t, ok := byAthlete[rec.AthleteID]
		if !ok {
			continue
		}
		byDiv, ok := records[rec.EventID]
		if !ok {
			byDiv = make(map[string]map[string]model.ScoreRecord)
			records[rec.EventID] = byDiv
		}
		div := t.entry.DivisionID
		if byDiv[div] == nil {
			byDiv[div] = make(map[string]model.ScoreRecord)
		}
		byDiv[div][rec.AthleteID] = rec
	}

	for _, ev := range events {
		seen := make(map[string]bool, len(tallies))
		for div, recs := range records[ev.ID] {
			if !ev.Published(div) {
				continue
			}
			scores := make([]scoring.Score, 0, len(recs))
			for _, rec := range sortedRecords(recs) {
				scores = append(scores, scoring.Score{AthleteID: rec.AthleteID, Value: rec.Value, Status: rec.Status})
			}
			results := scoring.CalculateEventPoints(scores, ev.Scheme, in.Config, divisionSize[div])
			for athleteID, rec := range recs {
				res, ok := results[athleteID]
				if !ok {
					continue
				}
				points := scale(res.Points, ev.Multiplier(), in.Config.Algorithm)
				value := rec.Value
				t := byAthlete[athleteID]
				t.total = t.total.Add(points)
				t.entry.EventResults = append(t.entry.EventResults, EventResult{
					EventID:        ev.ID,
					EventName:      ev.Name,
					Order:          ev.Order,
					Rank:           res.Rank,
					Points:         points.InexactFloat64(),
					RawValue:       &value,
					FormattedScore: o.formatter(ev, rec),
				})
				seen[athleteID] = true
			}
		}
		for _, t := range tallies {
			if seen[t.entry.AthleteID] {
				continue
			}
			t.entry.EventResults = append(t.entry.EventResults, EventResult{
				EventID:        ev.ID,
				EventName:      ev.Name,
				Order:          ev.Order,
				FormattedScore: Placeholder,
			})
		}
	}

	return rank(tallies, in.Config.Algorithm.LowerIsBetter())
}

// scale applies a percent multiplier. Positional points stay whole; P-Score
// keeps two decimals.
func scale(points float64, percent int, alg scoring.Algorithm) decimal.Decimal {
	d := decimal.NewFromFloat(points)
	if percent == 100 {
		return d
	}
	d = d.Mul(decimal.NewFromInt(int64(percent))).Div(decimal.NewFromInt(100))
	if alg == scoring.AlgorithmPScore {
		return d.Round(2)
	}
	return d.Round(0)
}

func sortedRecords(recs map[string]model.ScoreRecord) []model.ScoreRecord {
	out := make([]model.ScoreRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AthleteID < out[j].AthleteID })
	return out
}

// rank orders each division and assigns sequential overall ranks. Ties
// that survive countback keep registration order and still get distinct
// ranks.
func rank(tallies []*tally, lowerIsBetter bool) []Entry {
	divisions := make(map[string][]*tally)
	for _, t := range tallies {
		t.entry.TotalPoints = t.total.InexactFloat64()
		divisions[t.entry.DivisionID] = append(divisions[t.entry.DivisionID], t)
	}

	names := make([]string, 0, len(divisions))
	for d := range divisions {
		names = append(names, d)
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(tallies))
	for _, d := range names {
		group := divisions[d]
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if c := a.total.Cmp(b.total); c != 0 {
				if lowerIsBetter {
					return c < 0
				}
				return c > 0
			}
			if fa, fb := a.entry.placements(1), b.entry.placements(1); fa != fb {
				return fa > fb
			}
			return a.entry.placements(2) > b.entry.placements(2)
		})
		for i, t := range group {
			t.entry.OverallRank = i + 1
			out = append(out, *t.entry)
		}
	}
	return out
}

// Divisions lists the distinct divisions of entries in order of appearance.
func Divisions(entries []Entry) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.DivisionID] {
			seen[e.DivisionID] = true
			out = append(out, e.DivisionID)
		}
	}
	return out
}
