// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/types"
)

// AggregatesDependencies defines the interface for aggregate table reads.
type AggregatesDependencies interface {
	Aggregates(ctx context.Context, level aggregate.Level) ([]types.MedalRow, error)
}

// AggregatesHandler handles aggregate table requests.
type AggregatesHandler struct {
	deps AggregatesDependencies
}

// NewAggregatesHandler creates a new aggregates handler.
func NewAggregatesHandler(deps AggregatesDependencies) *AggregatesHandler {
	return &AggregatesHandler{deps: deps}
}

// HandleGetAggregates handles GET /api/aggregates?level=country|season|year.
func (h *AggregatesHandler) HandleGetAggregates(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_aggregates"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	level, err := aggregate.ParseLevel(r.URL.Query().Get("level"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rows, err := h.deps.Aggregates(r.Context(), level)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
