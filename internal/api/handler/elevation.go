package handler

import (
	"net/http"

	"github.com/breatheroute/valhalla/internal/api/response"
	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
)

// ElevationHandler handles height requests.
type ElevationHandler struct {
	engine Engine
}

// NewElevationHandler creates a new ElevationHandler.
func NewElevationHandler(engine Engine) *ElevationHandler {
	return &ElevationHandler{engine: engine}
}

// Compute handles POST /v1/elevation.
func (h *ElevationHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var m elevation.Manifest
	if !decodeBody(w, r, &m) {
		return
	}
	if err := elevation.Validate(m); err != nil {
		response.Invalid(w, r, err)
		return
	}

	resp, err := h.engine.Elevation(r.Context(), m)
	if err != nil {
		response.EngineError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, resp)
}
