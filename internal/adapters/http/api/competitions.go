package api

import (
	"context"
	"net/http"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/types"
)

// CompetitionDependencies stores competitions.
type CompetitionDependencies interface {
	SaveCompetition(ctx context.Context, c model.Competition) (model.Competition, error)
}

// CompetitionHandler handles competition requests.
type CompetitionHandler struct {
	deps CompetitionDependencies
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(deps CompetitionDependencies) *CompetitionHandler {
	return &CompetitionHandler{deps: deps}
}

// HandleSaveCompetition handles POST /competitions. The body is a complete
// competition document; an existing id is replaced.
func (h *CompetitionHandler) HandleSaveCompetition(w http.ResponseWriter, r *http.Request) {
	var c model.Competition
	if err := decode(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	saved, err := h.deps.SaveCompetition(r.Context(), c)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.CompetitionResponse{
		ID:            saved.ID,
		Events:        len(saved.Events),
		Registrations: len(saved.Registrations),
	})
}
