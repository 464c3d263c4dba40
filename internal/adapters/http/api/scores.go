package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/wodboard/internal/domain/types"
)

// ScoreDependencies accepts score submissions.
type ScoreDependencies interface {
	// Submit queues a score. Duplicates are acknowledged without queueing.
	Submit(ctx context.Context, competitionID string, req types.ScoreRequest) (types.ScoreResponse, error)
}

// ScoresHandler handles score submissions.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandlePostScore handles POST /competitions/{competitionID}/scores.
// Accepted submissions answer 202, duplicates 200.
func (h *ScoresHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ack, err := h.deps.Submit(r.Context(), chi.URLParam(r, "competitionID"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if ack.Status == types.StatusDuplicate {
		writeJSON(w, http.StatusOK, ack)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}
