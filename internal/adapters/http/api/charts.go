package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/domain/figure"
)

const defaultChartLimit = 20

// ChartsHandler serves static PNG versions of the dashboard charts.
type ChartsHandler struct {
	deps     DatasetsDependencies
	maxLimit int
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps DatasetsDependencies, maxLimit int) *ChartsHandler {
	if maxLimit < 1 {
		maxLimit = defaultChartLimit
	}
	return &ChartsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleAges handles GET /charts/ages.png.
func (h *ChartsHandler) HandleAges(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart_ages"
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

	var buf bytes.Buffer
	if err := render.AgeHistogramPNG(&buf, res.Ages, figure.AgeTitle(st)); err != nil {
		writeFailure(w, WrapKind(op, ErrInternal, err))
		return
	}
	writePNG(w, buf.Bytes())
}

// HandleMedals handles GET /charts/medals.png?limit=N.
func (h *ChartsHandler) HandleMedals(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart_medals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st, err := parseState(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	limit := min(defaultChartLimit, h.maxLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	res, err := h.deps.Datasets(r.Context(), st)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	var buf bytes.Buffer
	if err := render.TopCountriesPNG(&buf, res.Map, limit, figure.MedalTitle(st)); err != nil {
		writeFailure(w, WrapKind(op, ErrInternal, err))
		return
	}
	writePNG(w, buf.Bytes())
}

func writePNG(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
