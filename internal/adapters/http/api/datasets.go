package api

import (
	"context"
	"net/http"

	"github.com/okian/podium/internal/domain/figure"
	"github.com/okian/podium/internal/domain/filter"
)

// DatasetsDependencies runs the per-interaction filter.
type DatasetsDependencies interface {
	Datasets(ctx context.Context, st filter.State) (filter.Result, error)
	Figures(ctx context.Context, st filter.State) (figure.Set, error)
}

// DatasetsHandler serves the filtered datasets and the figures built on them.
type DatasetsHandler struct {
	deps DatasetsDependencies
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps DatasetsDependencies) *DatasetsHandler {
	return &DatasetsHandler{deps: deps}
}

// HandleGetDatasets handles GET /api/datasets.
func (h *DatasetsHandler) HandleGetDatasets(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_datasets"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st, err := parseState(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Datasets(r.Context(), st)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetFigures handles GET /api/figures.
func (h *DatasetsHandler) HandleGetFigures(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_figures"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st, err := parseState(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	set, err := h.deps.Figures(r.Context(), st)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, set)
}
