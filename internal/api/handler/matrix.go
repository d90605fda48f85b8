package handler

import (
	"net/http"

	"github.com/breatheroute/valhalla/internal/api/response"
	"github.com/breatheroute/valhalla/pkg/valhalla/matrix"
)

// MatrixHandler handles time-distance matrix requests.
type MatrixHandler struct {
	engine Engine
}

// NewMatrixHandler creates a new MatrixHandler.
func NewMatrixHandler(engine Engine) *MatrixHandler {
	return &MatrixHandler{engine: engine}
}

// Compute handles POST /v1/matrix.
func (h *MatrixHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var m matrix.Manifest
	if !decodeBody(w, r, &m) {
		return
	}
	if err := matrix.Validate(m); err != nil {
		response.Invalid(w, r, err)
		return
	}

	resp, err := h.engine.Matrix(r.Context(), m)
	if err != nil {
		response.EngineError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, resp)
}
