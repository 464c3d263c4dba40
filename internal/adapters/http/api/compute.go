package api

import (
	"context"
	"net/http"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/types"
)

// ComputeDependencies runs the engine on request bodies without storing
// anything.
type ComputeDependencies interface {
	ComputeEvent(ctx context.Context, req types.ComputeEventRequest) (types.ComputeEventResponse, error)
	ComputeLeaderboard(ctx context.Context, c model.Competition, division string) (types.LeaderboardResponse, error)
	PointsTable(ctx context.Context, req types.PointsTableRequest) (types.PointsTableResponse, error)
	Algorithms() []types.AlgorithmInfo
}

// ComputeHandler handles the stateless compute endpoints.
type ComputeHandler struct {
	deps ComputeDependencies
}

// NewComputeHandler creates a new compute handler.
func NewComputeHandler(deps ComputeDependencies) *ComputeHandler {
	return &ComputeHandler{deps: deps}
}

// HandleComputeEvent handles POST /compute/event.
func (h *ComputeHandler) HandleComputeEvent(w http.ResponseWriter, r *http.Request) {
	var req types.ComputeEventRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.deps.ComputeEvent(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleComputeLeaderboard handles POST /compute/leaderboard?division=.
func (h *ComputeHandler) HandleComputeLeaderboard(w http.ResponseWriter, r *http.Request) {
	var c model.Competition
	if err := decode(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.deps.ComputeLeaderboard(r.Context(), c, r.URL.Query().Get("division"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandlePointsTable handles POST /compute/points-table.
func (h *ComputeHandler) HandlePointsTable(w http.ResponseWriter, r *http.Request) {
	var req types.PointsTableRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.deps.PointsTable(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleListAlgorithms handles GET /algorithms.
func (h *ComputeHandler) HandleListAlgorithms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Algorithms())
}
