package leaderboard_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(event, athlete string, value float64, status scoring.Status) model.ScoreRecord {
	return model.ScoreRecord{EventID: event, AthleteID: athlete, Value: value, Status: status}
}

func byAthlete(entries []leaderboard.Entry) map[string]leaderboard.Entry {
	out := make(map[string]leaderboard.Entry, len(entries))
	for _, e := range entries {
		out[e.AthleteID] = e
	}
	return out
}

func countbackInput() leaderboard.Input {
	return leaderboard.Input{
		Config: scoring.Config{
			Algorithm:   scoring.AlgorithmCustom,
			Traditional: &scoring.TraditionalConfig{FirstPlacePoints: 100, Step: 10},
			CustomTable: &scoring.CustomTable{
				BaseTemplate: scoring.AlgorithmTraditional,
				Overrides:    map[string]float64{"1": 100, "2": 100},
			},
		},
		Events: []model.Event{
			{ID: "e3", Order: 3, Scheme: scoring.SchemeTime},
			{ID: "e1", Order: 1, Scheme: scoring.SchemeTime},
			{ID: "e2", Order: 2, Scheme: scoring.SchemeTime},
		},
		Registrations: []model.Registration{
			{AthleteID: "B", DivisionID: "rx"},
			{AthleteID: "A", DivisionID: "rx"},
			{AthleteID: "C", DivisionID: "rx"},
			{AthleteID: "D", DivisionID: "rx"},
		},
		Scores: []model.ScoreRecord{
			rec("e1", "A", 10, scoring.StatusScored),
			rec("e1", "B", 10, scoring.StatusScored),
			rec("e1", "C", 20, scoring.StatusScored),
			rec("e2", "A", 10, scoring.StatusScored),
			rec("e2", "B", 20, scoring.StatusScored),
			rec("e2", "C", 30, scoring.StatusScored),
			rec("e3", "C", 10, scoring.StatusScored),
			rec("e3", "A", 20, scoring.StatusScored),
			rec("e3", "B", 20, scoring.StatusScored),
			rec("e3", "D", 0, scoring.StatusWithdrawn),
			rec("e1", "ghost", 1, scoring.StatusScored),
		},
	}
}

func TestAggregate(t *testing.T) {
	Convey("Given athletes level on points and on first places", t, func() {
		in := leaderboard.Input{
			Config: scoring.Config{
				Algorithm: scoring.AlgorithmCustom,
				CustomTable: &scoring.CustomTable{
					BaseTemplate: scoring.AlgorithmTraditional,
					Overrides:    map[string]float64{"1": 100, "2": 50, "3": 50},
				},
			},
			Events: []model.Event{
				{ID: "e1", Order: 1, Scheme: scoring.SchemeTime},
				{ID: "e2", Order: 2, Scheme: scoring.SchemeTime},
			},
			Registrations: []model.Registration{
				{AthleteID: "Y", DivisionID: "rx"},
				{AthleteID: "Z", DivisionID: "rx"},
				{AthleteID: "X", DivisionID: "rx"},
			},
			Scores: []model.ScoreRecord{
				rec("e1", "X", 10, scoring.StatusScored),
				rec("e1", "Y", 10, scoring.StatusScored),
				rec("e1", "Z", 20, scoring.StatusScored),
				rec("e2", "Z", 10, scoring.StatusScored),
				rec("e2", "X", 20, scoring.StatusScored),
				rec("e2", "Y", 30, scoring.StatusScored),
			},
		}
		got := byAthlete(leaderboard.Aggregate(in))

		Convey("Then more second places wins the countback", func() {
			So(got["X"].TotalPoints, ShouldEqual, 150)
			So(got["Y"].TotalPoints, ShouldEqual, 150)
			So(got["Z"].TotalPoints, ShouldEqual, 150)
			So(got["X"].OverallRank, ShouldEqual, 1)
		})

		Convey("Then the remaining tie keeps registration order", func() {
			So(got["Y"].OverallRank, ShouldEqual, 2)
			So(got["Z"].OverallRank, ShouldEqual, 3)
		})
	})

	Convey("Given two athletes level on points", t, func() {
		entries := leaderboard.Aggregate(countbackInput())
		got := byAthlete(entries)

		Convey("Then totals are equal", func() {
			So(got["A"].TotalPoints, ShouldEqual, 300)
			So(got["B"].TotalPoints, ShouldEqual, 300)
		})

		Convey("Then more first places wins the countback", func() {
			So(got["A"].OverallRank, ShouldEqual, 1)
			So(got["B"].OverallRank, ShouldEqual, 2)
			So(got["C"].OverallRank, ShouldEqual, 3)
		})

		Convey("Then entries come back in rank order", func() {
			ids := make([]string, 0, len(entries))
			for _, e := range entries {
				ids = append(ids, e.AthleteID)
			}
			So(ids, ShouldResemble, []string{"A", "B", "C", "D"})
		})

		Convey("Then results follow track order", func() {
			a := got["A"]
			So(a.EventResults, ShouldHaveLength, 3)
			So(a.EventResults[0].EventID, ShouldEqual, "e1")
			So(a.EventResults[2].EventID, ShouldEqual, "e3")
			So(*a.EventResults[2].RawValue, ShouldEqual, 20)
		})

		Convey("Then athletes without a result get placeholders", func() {
			d := got["D"]
			So(d.TotalPoints, ShouldEqual, 0)
			So(d.EventResults, ShouldHaveLength, 3)
			for _, r := range d.EventResults {
				So(r.Rank, ShouldEqual, 0)
				So(r.Points, ShouldEqual, 0)
				So(r.RawValue, ShouldBeNil)
				So(r.FormattedScore, ShouldEqual, leaderboard.Placeholder)
			}
		})

		Convey("Then unregistered athletes are ignored", func() {
			So(got, ShouldNotContainKey, "ghost")
		})

		Convey("Then the total is the sum of event points", func() {
			for _, e := range entries {
				sum := 0.0
				for _, r := range e.EventResults {
					sum += r.Points
				}
				So(e.TotalPoints, ShouldEqual, sum)
			}
		})
	})

	Convey("Given the same input twice", t, func() {
		first := leaderboard.Aggregate(countbackInput())
		second := leaderboard.Aggregate(countbackInput())

		Convey("Then the leaderboards are identical", func() {
			So(cmp.Diff(first, second), ShouldBeEmpty)
		})
	})

	Convey("Given athletes that stay tied after countback", t, func() {
		in := leaderboard.Input{
			Config:        scoring.DefaultConfig(),
			Events:        []model.Event{{ID: "e1", Scheme: scoring.SchemeReps}},
			Registrations: []model.Registration{{AthleteID: "x"}, {AthleteID: "y"}},
			Scores: []model.ScoreRecord{
				rec("e1", "x", 50, scoring.StatusScored),
				rec("e1", "y", 50, scoring.StatusScored),
			},
		}
		entries := leaderboard.Aggregate(in)

		Convey("Then they still receive distinct sequential ranks", func() {
			So(entries[0].AthleteID, ShouldEqual, "x")
			So(entries[0].OverallRank, ShouldEqual, 1)
			So(entries[1].OverallRank, ShouldEqual, 2)
		})

		Convey("Then missing divisions become open", func() {
			So(entries[0].DivisionID, ShouldEqual, model.DefaultDivision)
		})
	})

	Convey("Given two divisions", t, func() {
		in := leaderboard.Input{
			Config: scoring.DefaultConfig(),
			Events: []model.Event{{ID: "e1", Scheme: scoring.SchemeLoad}},
			Registrations: []model.Registration{
				{AthleteID: "s1", DivisionID: "scaled"},
				{AthleteID: "r1", DivisionID: "rx"},
				{AthleteID: "r2", DivisionID: "rx"},
			},
			Scores: []model.ScoreRecord{
				rec("e1", "s1", 60, scoring.StatusScored),
				rec("e1", "r1", 100, scoring.StatusScored),
				rec("e1", "r2", 120, scoring.StatusScored),
			},
		}

		Convey("When aggregated", func() {
			entries := leaderboard.Aggregate(in)
			got := byAthlete(entries)

			Convey("Then each division ranks independently", func() {
				So(got["s1"].EventResults[0].Rank, ShouldEqual, 1)
				So(got["s1"].OverallRank, ShouldEqual, 1)
				So(got["r2"].OverallRank, ShouldEqual, 1)
				So(got["r1"].EventResults[0].Points, ShouldEqual, 95)
			})

			Convey("Then divisions are ordered by name", func() {
				So(leaderboard.Divisions(entries), ShouldResemble, []string{"rx", "scaled"})
			})
		})

		Convey("When filtered to one division", func() {
			entries := leaderboard.Aggregate(in, leaderboard.WithDivision("scaled"))

			Convey("Then only that division is returned", func() {
				So(entries, ShouldHaveLength, 1)
				So(entries[0].AthleteID, ShouldEqual, "s1")
			})
		})

		Convey("When an event publishes only one division", func() {
			in.Events[0].PublishedDivisions = []string{"rx"}
			got := byAthlete(leaderboard.Aggregate(in))

			Convey("Then the hidden division sees placeholders", func() {
				So(got["s1"].EventResults[0].FormattedScore, ShouldEqual, leaderboard.Placeholder)
				So(got["r2"].EventResults[0].Rank, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a points multiplier", t, func() {
		in := leaderboard.Input{
			Config:        scoring.DefaultConfig(),
			Events:        []model.Event{{ID: "final", Scheme: scoring.SchemeTime, PointsMultiplier: 150}},
			Registrations: []model.Registration{{AthleteID: "a"}, {AthleteID: "b"}},
			Scores: []model.ScoreRecord{
				rec("final", "a", 100, scoring.StatusScored),
				rec("final", "b", 101, scoring.StatusScored),
			},
		}

		Convey("Then positional points scale and stay whole", func() {
			got := byAthlete(leaderboard.Aggregate(in))
			So(got["a"].TotalPoints, ShouldEqual, 150)
			// 95 * 1.5 = 142.5
			So(got["b"].TotalPoints, ShouldEqual, 143)
		})
	})

	Convey("Given online scoring", t, func() {
		in := leaderboard.Input{
			Config: scoring.Config{Algorithm: scoring.AlgorithmOnline},
			Events: []model.Event{
				{ID: "e1", Order: 1, Scheme: scoring.SchemeTime},
				{ID: "e2", Order: 2, Scheme: scoring.SchemeTime},
			},
			Registrations: []model.Registration{{AthleteID: "slow"}, {AthleteID: "fast"}},
			Scores: []model.ScoreRecord{
				rec("e1", "fast", 100, scoring.StatusScored),
				rec("e1", "slow", 200, scoring.StatusScored),
				rec("e2", "fast", 100, scoring.StatusScored),
				rec("e2", "slow", 200, scoring.StatusScored),
			},
		}

		Convey("Then the lowest total wins", func() {
			entries := leaderboard.Aggregate(in)
			So(entries[0].AthleteID, ShouldEqual, "fast")
			So(entries[0].TotalPoints, ShouldEqual, 2)
			So(entries[1].TotalPoints, ShouldEqual, 4)
		})

		Convey("Then an athlete without results totals zero and ranks first", func() {
			in.Registrations = append(in.Registrations, model.Registration{AthleteID: "absent"})
			entries := leaderboard.Aggregate(in)
			So(entries[0].AthleteID, ShouldEqual, "absent")
			So(entries[0].TotalPoints, ShouldEqual, 0)
			So(entries[0].EventResults[0].FormattedScore, ShouldEqual, leaderboard.Placeholder)
		})
	})

	Convey("Given a custom formatter", t, func() {
		in := countbackInput()
		entries := leaderboard.Aggregate(in, leaderboard.WithFormatter(func(_ model.Event, r model.ScoreRecord) string {
			return "fmt"
		}))

		Convey("Then scored results use it and placeholders do not", func() {
			got := byAthlete(entries)
			So(got["A"].EventResults[0].FormattedScore, ShouldEqual, "fmt")
			So(got["D"].EventResults[0].FormattedScore, ShouldEqual, leaderboard.Placeholder)
		})
	})
}

func TestEventLeaderboard(t *testing.T) {
	Convey("Given an aggregated leaderboard", t, func() {
		entries := leaderboard.Aggregate(countbackInput())

		Convey("When viewing a single event", func() {
			rows := leaderboard.EventLeaderboard(entries, "e3")

			Convey("Then placeholders are dropped and rows follow rank", func() {
				So(rows, ShouldHaveLength, 3)
				So(rows[0].AthleteID, ShouldEqual, "C")
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[2].Rank, ShouldEqual, 2)
			})
		})

		Convey("When the event is unknown", func() {
			So(leaderboard.EventLeaderboard(entries, "nope"), ShouldBeEmpty)
		})
	})

	Convey("Given a capped score", t, func() {
		in := leaderboard.Input{
			Config:        scoring.DefaultConfig(),
			Events:        []model.Event{{ID: "e1", Scheme: scoring.SchemeTimeWithCap}},
			Registrations: []model.Registration{{AthleteID: "a"}, {AthleteID: "b"}},
			Scores: []model.ScoreRecord{
				rec("e1", "a", 500, scoring.StatusScored),
				rec("e1", "b", 600, scoring.StatusCap),
			},
		}
		rows := leaderboard.EventLeaderboard(leaderboard.Aggregate(in), "e1")

		Convey("Then it is flagged as time capped", func() {
			So(rows[1].AthleteID, ShouldEqual, "b")
			So(rows[1].TimeCapped, ShouldBeTrue)
			So(rows[0].TimeCapped, ShouldBeFalse)
		})
	})
}
