package model_test

import (
	"testing"
	"time"

	model "github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestCompetition(t *testing.T) {
	convey.Convey("Given a competition", t, func() {
		comp := model.Competition{
			ID: "c1",
			Events: []model.Event{
				{ID: "e1", Scheme: scoring.SchemeTime},
				{ID: "e2", Scheme: scoring.SchemeReps, PointsMultiplier: 200, PublishedDivisions: []string{"rx"}},
			},
			Registrations: []model.Registration{
				{AthleteID: "a", DivisionID: "rx"},
				{AthleteID: "b"},
			},
		}

		convey.Convey("When looking up events", func() {
			e, ok := comp.Event("e2")

			convey.Convey("Then known events are found", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(e.Multiplier(), convey.ShouldEqual, 200)
			})

			convey.Convey("Then unknown events are not", func() {
				_, ok := comp.Event("nope")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When reading event defaults", func() {
			e, _ := comp.Event("e1")

			convey.Convey("Then the multiplier defaults to 100 percent", func() {
				convey.So(e.Multiplier(), convey.ShouldEqual, 100)
			})

			convey.Convey("Then every division is published", func() {
				convey.So(e.Published("anything"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an event publishes selected divisions", func() {
			e, _ := comp.Event("e2")
			convey.So(e.Published("rx"), convey.ShouldBeTrue)
			convey.So(e.Published("scaled"), convey.ShouldBeFalse)
		})

		convey.Convey("When a registration has no division", func() {
			r, ok := comp.Registration("b")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(r.Division(), convey.ShouldEqual, model.DefaultDivision)
		})
	})
}

func TestSubmission(t *testing.T) {
	convey.Convey("Given a submission", t, func() {
		ts := time.Now()
		sub := model.Submission{
			SubmissionID: "s1", CompetitionID: "c1", EventID: "e1",
			AthleteID: "a", Value: 42, Status: scoring.StatusCap, TS: ts,
		}

		convey.Convey("Then it converts into a score record", func() {
			convey.So(sub.Record(), convey.ShouldResemble, model.ScoreRecord{
				EventID: "e1", AthleteID: "a", Value: 42, Status: scoring.StatusCap, UpdatedAt: ts,
			})
		})
	})
}
