package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/wodboard/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, competitionID, division string) (types.LeaderboardResponse, error)
	EventLeaderboard(ctx context.Context, competitionID, eventID, division string) (types.EventLeaderboardResponse, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /competitions/{competitionID}/leaderboard?division=
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.deps.Leaderboard(r.Context(), chi.URLParam(r, "competitionID"), r.URL.Query().Get("division"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// HandleGetEventLeaderboard handles
// GET /competitions/{competitionID}/events/{eventID}/leaderboard?division=
func (h *LeaderboardHandler) HandleGetEventLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.deps.EventLeaderboard(r.Context(),
		chi.URLParam(r, "competitionID"),
		chi.URLParam(r, "eventID"),
		r.URL.Query().Get("division"),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}
