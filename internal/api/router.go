// Package api provides the HTTP gateway in front of the routing engine.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/breatheroute/valhalla/internal/api/handler"
	"github.com/breatheroute/valhalla/internal/api/middleware"
	"github.com/breatheroute/valhalla/internal/auth"
	"github.com/breatheroute/valhalla/internal/provider/resilience"
)

// Scopes a gateway token may be restricted to.
const (
	ScopeRoute     = "route"
	ScopeMatrix    = "matrix"
	ScopeElevation = "elevation"
	ScopeStatus    = "status"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Engine serves the routing endpoints. Usually a *client.Client.
	Engine handler.Engine

	// Registry exposes upstream circuit breaker health on /v1/ops/providers.
	Registry *resilience.Registry

	// JWT enables bearer authentication of the engine endpoints when set.
	JWT *auth.JWTService

	RequireTLS bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "valhalla-gateway"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement behind a load balancer

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Engine, cfg.Registry)
	routeHandler := handler.NewRouteHandler(cfg.Engine)
	matrixHandler := handler.NewMatrixHandler(cfg.Engine)
	elevationHandler := handler.NewElevationHandler(cfg.Engine)
	statusHandler := handler.NewStatusHandler(cfg.Engine)

	authMiddleware := middleware.Auth(cfg.JWT)
	engineRateLimit := middleware.RateLimit(middleware.EngineRateLimit)     // 30 req/min
	standardRateLimit := middleware.RateLimit(middleware.StandardRateLimit) // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(authMiddleware).Get("/providers", opsHandler.Providers)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.With(standardRateLimit, middleware.RequireScope(ScopeStatus)).Get("/status", statusHandler.Get)

			// Engine computations - strict rate limiting, JSON bodies only
			r.Group(func(r chi.Router) {
				r.Use(engineRateLimit)
				r.Use(middleware.RequireJSON)

				r.Route("/route", func(r chi.Router) {
					r.Use(middleware.RequireScope(ScopeRoute))
					r.Post("/", routeHandler.Compute)
					r.Post("/gpx", routeHandler.GPX)
					r.Post("/geojson", routeHandler.GeoJSON)
					r.With(middleware.RequireScope(ScopeElevation)).Post("/profile", routeHandler.Profile)
				})
				r.With(middleware.RequireScope(ScopeMatrix)).Post("/matrix", matrixHandler.Compute)
				r.With(middleware.RequireScope(ScopeElevation)).Post("/elevation", elevationHandler.Compute)
			})
		})
	})

	return r
}
