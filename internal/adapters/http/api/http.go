// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/wodboard/internal/app"
	"github.com/okian/wodboard/internal/adapters/repository"
	"github.com/okian/wodboard/pkg/logger"
)

// maxBodyBytes bounds request bodies; a full competition document fits
// comfortably.
const maxBodyBytes = 8 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CompetitionDependencies
	ScoreDependencies
	LeaderboardDependencies
	ComputeDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	competitionHandler *CompetitionHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	computeHandler     *ComputeHandler
	logger             logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		competitionHandler: NewCompetitionHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		computeHandler:     NewComputeHandler(deps),
		logger:             logger.Get().Named("http"),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Get("/algorithms", MetricsMiddleware(s.computeHandler.HandleListAlgorithms, "algorithms"))
	r.Route("/compute", func(r chi.Router) {
		r.Post("/event", MetricsMiddleware(s.computeHandler.HandleComputeEvent, "compute_event"))
		r.Post("/leaderboard", MetricsMiddleware(s.computeHandler.HandleComputeLeaderboard, "compute_leaderboard"))
		r.Post("/points-table", MetricsMiddleware(s.computeHandler.HandlePointsTable, "points_table"))
	})

	r.Route("/competitions", func(r chi.Router) {
		r.Post("/", MetricsMiddleware(s.competitionHandler.HandleSaveCompetition, "competitions"))
		r.Route("/{competitionID}", func(r chi.Router) {
			r.Post("/scores", MetricsMiddleware(s.scoresHandler.HandlePostScore, "scores"))
			r.Get("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
			r.Get("/events/{eventID}/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetEventLeaderboard, "event_leaderboard"))
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors into status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, repository.ErrNotRegistered):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrUnknownEvent):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decode reads a JSON body, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
