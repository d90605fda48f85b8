package handler

import (
	"net/http"
	"strconv"

	"github.com/breatheroute/valhalla/internal/api/models"
	"github.com/breatheroute/valhalla/internal/api/response"
	"github.com/breatheroute/valhalla/pkg/valhalla/status"
)

// StatusHandler reports the engine's version and capabilities.
type StatusHandler struct {
	engine Engine
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(engine Engine) *StatusHandler {
	return &StatusHandler{engine: engine}
}

// Get handles GET /v1/status. verbose=true asks the engine for the verbose report.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	b := status.NewBuilder()
	if raw := r.URL.Query().Get("verbose"); raw != "" {
		verbose, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, r, "invalid verbose flag", []models.FieldError{
				{Field: "verbose", Message: "must be a boolean", Code: "INVALID"},
			})
			return
		}
		b.Verbose(verbose)
	}
	m, _ := b.Build()

	resp, err := h.engine.Status(r.Context(), m)
	if err != nil {
		response.EngineError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, resp)
}
