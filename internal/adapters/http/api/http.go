// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/figure"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Ready reports whether the aggregates are loaded.
	Ready() bool

	// Per-interaction reads.
	Datasets(ctx context.Context, st filter.State) (filter.Result, error)
	Figures(ctx context.Context, st filter.State) (figure.Set, error)

	// Static reads.
	Aggregates(ctx context.Context, level aggregate.Level) ([]types.MedalRow, error)
	Options(ctx context.Context) (types.Options, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	optionsHandler    *OptionsHandler
	datasetsHandler   *DatasetsHandler
	aggregatesHandler *AggregatesHandler
	chartsHandler     *ChartsHandler
}

// NewServer creates a new API server with all handlers. maxLimit bounds the
// number of countries drawn by the medals chart.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		optionsHandler:    NewOptionsHandler(deps),
		datasetsHandler:   NewDatasetsHandler(deps),
		aggregatesHandler: NewAggregatesHandler(deps),
		chartsHandler:     NewChartsHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.optionsHandler.HandleGetOptions, "options"))
	mux.HandleFunc("/api/datasets", MetricsMiddleware(s.datasetsHandler.HandleGetDatasets, "datasets"))
	mux.HandleFunc("/api/figures", MetricsMiddleware(s.datasetsHandler.HandleGetFigures, "figures"))
	mux.HandleFunc("/api/aggregates", MetricsMiddleware(s.aggregatesHandler.HandleGetAggregates, "aggregates"))
	mux.HandleFunc("/charts/ages.png", MetricsMiddleware(s.chartsHandler.HandleAges, "charts_ages"))
	mux.HandleFunc("/charts/medals.png", MetricsMiddleware(s.chartsHandler.HandleMedals, "charts_medals"))
}

// parseState reads the five control values from the query string. medal may
// repeat or hold a comma separated list.
func parseState(r *http.Request) (filter.State, error) {
	q := r.URL.Query()
	return filter.Parse(q.Get("season"), q.Get("gender"), q.Get("year"), q.Get("threshold"), q["medal"])
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// writeFailure picks the status from the error kind.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}
