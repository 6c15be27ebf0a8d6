package api

import (
	"context"
	"net/http"

	"github.com/okian/podium/internal/domain/types"
)

// OptionsDependencies lists the control choices.
type OptionsDependencies interface {
	Options(ctx context.Context) (types.Options, error)
}

// OptionsHandler handles control option requests.
type OptionsHandler struct {
	deps OptionsDependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsDependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleGetOptions handles GET /api/options.
func (h *OptionsHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_options"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
