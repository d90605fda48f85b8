package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/breatheroute/valhalla/internal/api/models"
	"github.com/breatheroute/valhalla/internal/api/response"
	"github.com/breatheroute/valhalla/internal/provider/resilience"
	"github.com/breatheroute/valhalla/pkg/valhalla/status"
)

// readinessTimeout bounds the engine status probe made by the readiness check.
const readinessTimeout = 2 * time.Second

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	engine    Engine
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. engine and registry may be nil, in
// which case readiness does not probe the engine and no providers are listed.
func NewOpsHandler(version, buildTime string, engine Engine, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		engine:    engine,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. The gateway is ready when the
// engine answers a status request.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	if h.engine == nil {
		response.JSON(w, r, http.StatusOK, health)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp, err := h.engine.Status(ctx, status.Manifest{})
	if err != nil {
		health.Status = models.HealthStatusFail
		health.Details = map[string]any{"engine": err.Error()}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	health.Details = map[string]any{"engineVersion": resp.Version}
	response.JSON(w, r, http.StatusOK, health)
}

// Providers handles GET /v1/ops/providers - circuit breaker state per upstream.
func (h *OpsHandler) Providers(w http.ResponseWriter, r *http.Request) {
	out := models.ProvidersResponse{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: []models.ProviderStatus{},
	}
	if h.registry == nil {
		response.JSON(w, r, http.StatusOK, out)
		return
	}

	for _, health := range h.registry.All() {
		ps := providerStatus(health)
		out.Providers = append(out.Providers, ps)
		out.Status = worst(out.Status, ps.Status)
	}
	response.JSON(w, r, http.StatusOK, out)
}

func providerStatus(h *resilience.Health) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:     h.Name,
		CircuitState: h.CircuitState.String(),
		Requests:     h.Counts.Requests,
		Failures:     h.Counts.TotalFailures,
	}
	switch h.Status() {
	case resilience.StatusHealthy:
		ps.Status = models.HealthStatusOK
	case resilience.StatusDegraded:
		ps.Status = models.HealthStatusDegraded
	default:
		ps.Status = models.HealthStatusFail
	}
	if h.LastSuccessAt != nil {
		ts := models.Timestamp(*h.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if h.LastFailureAt != nil {
		ts := models.Timestamp(*h.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	if h.LastError != "" && h.CircuitState != gobreaker.StateClosed {
		msg := h.LastError
		ps.Message = &msg
	}
	return ps
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	rank := map[models.HealthStatus]int{
		models.HealthStatusOK:       0,
		models.HealthStatusDegraded: 1,
		models.HealthStatusFail:     2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
