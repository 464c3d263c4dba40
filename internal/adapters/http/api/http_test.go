package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/wodboard/internal/adapters/http/api"
	service "github.com/okian/wodboard/internal/app"
	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const competitionJSON = `{
  "id": "throwdown",
  "name": "Summer Throwdown",
  "scoring": {"algorithm": "traditional", "traditional": {"first_place_points": 100, "step": 10}},
  "events": [
    {"id": "e1", "name": "Fran", "order": 1, "scheme": "time"},
    {"id": "e2", "name": "Deadlift", "order": 2, "scheme": "load"}
  ],
  "registrations": [
    {"athlete_id": "a", "name": "Ann", "division_id": "rx"},
    {"athlete_id": "b", "name": "Ben", "division_id": "rx"}
  ],
  "scores": [
    {"event_id": "e1", "athlete_id": "a", "value": 200, "status": "scored"},
    {"event_id": "e1", "athlete_id": "b", "value": 190, "status": "scored"}
  ]
}`

func newRouter(deps api.Dependencies) http.Handler {
	r := chi.NewRouter()
	api.NewServer(deps).Register(context.Background(), r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v)
}

func TestCompetitionRoutes(t *testing.T) {
	Convey("Given a router backed by a running service", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()), service.WithWorkerCount(2))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := newRouter(svc)

		rec := do(h, http.MethodPost, "/competitions", competitionJSON)
		So(rec.Code, ShouldEqual, http.StatusCreated)

		Convey("POST /competitions acknowledges the document", func() {
			var ack types.CompetitionResponse
			So(decodeBody(rec, &ack), ShouldBeNil)
			So(ack, ShouldResemble, types.CompetitionResponse{ID: "throwdown", Events: 2, Registrations: 2})
		})

		Convey("GET leaderboard returns ranked entries", func() {
			rec := do(h, http.MethodGet, "/competitions/throwdown/leaderboard?division=rx", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var lb types.LeaderboardResponse
			So(decodeBody(rec, &lb), ShouldBeNil)
			So(lb.Entries, ShouldHaveLength, 2)
			So(lb.Entries[0].AthleteID, ShouldEqual, "b")
			So(lb.Entries[0].TotalPoints, ShouldEqual, 100.0)
			So(lb.Entries[1].TotalPoints, ShouldEqual, 90.0)
			So(lb.Entries[1].EventResults[1].FormattedScore, ShouldEqual, "N/A")
		})

		Convey("GET event leaderboard returns rows by rank", func() {
			rec := do(h, http.MethodGet, "/competitions/throwdown/events/e1/leaderboard", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var ev types.EventLeaderboardResponse
			So(decodeBody(rec, &ev), ShouldBeNil)
			So(ev.Rows, ShouldHaveLength, 2)
			So(ev.Rows[0].AthleteID, ShouldEqual, "b")
		})

		Convey("Unknown resources answer 404", func() {
			So(do(h, http.MethodGet, "/competitions/nope/leaderboard", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodGet, "/competitions/throwdown/events/e9/leaderboard", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("POST scores is accepted then reported as duplicate", func() {
			body := `{"submission_id":"s1","event_id":"e2","athlete_id":"a","value":140,"status":"scored"}`
			first := do(h, http.MethodPost, "/competitions/throwdown/scores", body)
			So(first.Code, ShouldEqual, http.StatusAccepted)

			second := do(h, http.MethodPost, "/competitions/throwdown/scores", body)
			So(second.Code, ShouldEqual, http.StatusOK)
			var ack types.ScoreResponse
			So(decodeBody(second, &ack), ShouldBeNil)
			So(ack.Status, ShouldEqual, types.StatusDuplicate)

			Convey("And the leaderboard eventually reflects it", func() {
				deadline := time.Now().Add(5 * time.Second)
				var total float64
				for time.Now().Before(deadline) {
					var lb types.LeaderboardResponse
					_ = decodeBody(do(h, http.MethodGet, "/competitions/throwdown/leaderboard", ""), &lb)
					for _, e := range lb.Entries {
						if e.AthleteID == "a" {
							total = e.TotalPoints
						}
					}
					if total == 190 {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(total, ShouldEqual, 190.0)
			})
		})

		Convey("Malformed bodies answer 400", func() {
			So(do(h, http.MethodPost, "/competitions/throwdown/scores", `{"event_id":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/competitions/throwdown/scores", `{"event_id":"e1"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/competitions", `{"id":"x","unknown":1}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestComputeRoutes(t *testing.T) {
	Convey("Given a router backed by an idle service", t, func() {
		h := newRouter(service.New(service.WithLogger(logger.Nop())))

		Convey("POST /compute/event scores one event", func() {
			rec := do(h, http.MethodPost, "/compute/event", `{
				"scheme": "reps",
				"config": {"algorithm": "winner_takes_more"},
				"scores": [
					{"athlete_id": "a", "value": 30, "status": "scored"},
					{"athlete_id": "b", "value": 20, "status": "scored"},
					{"athlete_id": "c", "value": 0, "status": "dnf"}
				]
			}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var res types.ComputeEventResponse
			So(decodeBody(rec, &res), ShouldBeNil)
			So(res.Results["a"], ShouldResemble, types.EventResult{Rank: 1, Points: 100})
			So(res.Results["b"], ShouldResemble, types.EventResult{Rank: 2, Points: 85})
			So(res.Results["c"], ShouldResemble, types.EventResult{Rank: 3, Points: 75})
		})

		Convey("POST /compute/event rejects unknown algorithms", func() {
			rec := do(h, http.MethodPost, "/compute/event", `{"scheme":"time","config":{"algorithm":"elo"},"scores":[]}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /compute/leaderboard aggregates a document", func() {
			rec := do(h, http.MethodPost, "/compute/leaderboard", competitionJSON)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var lb types.LeaderboardResponse
			So(decodeBody(rec, &lb), ShouldBeNil)
			So(lb.Entries, ShouldHaveLength, 2)
			So(lb.Divisions, ShouldResemble, []string{"rx"})
		})

		Convey("POST /compute/points-table previews places", func() {
			rec := do(h, http.MethodPost, "/compute/points-table", `{"config":{"algorithm":"traditional"},"places":3}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var res types.PointsTableResponse
			So(decodeBody(rec, &res), ShouldBeNil)
			So(res.Places, ShouldHaveLength, 3)
			So(res.Places[2].Points, ShouldEqual, 90.0)
		})

		Convey("GET /algorithms lists the algorithms", func() {
			rec := do(h, http.MethodGet, "/algorithms", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var algs []types.AlgorithmInfo
			So(decodeBody(rec, &algs), ShouldBeNil)
			So(algs, ShouldHaveLength, 5)
		})

		Convey("Score submissions are refused until the service starts", func() {
			So(do(h, http.MethodPost, "/competitions", competitionJSON).Code, ShouldEqual, http.StatusCreated)
			rec := do(h, http.MethodPost, "/competitions/throwdown/scores", `{"event_id":"e1","athlete_id":"a","value":1}`)
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("GET /stats and /healthz respond", func() {
			So(do(h, http.MethodGet, "/stats", "").Code, ShouldEqual, http.StatusOK)

			rec := do(h, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "wodboard_")
		})
	})
}
