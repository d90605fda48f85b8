// Package main provides the entrypoint for the Valhalla routing gateway.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/breatheroute/valhalla/internal/api"
	"github.com/breatheroute/valhalla/internal/api/middleware"
	"github.com/breatheroute/valhalla/internal/auth"
	"github.com/breatheroute/valhalla/internal/config"
	"github.com/breatheroute/valhalla/internal/provider/resilience"
	"github.com/breatheroute/valhalla/internal/telemetry"
	"github.com/breatheroute/valhalla/pkg/valhalla/client"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "valhalla-gateway"

	cfg := config.FromEnv()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		Level(cfg.LogLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Environment).
		Msg("starting routing gateway")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		Logger:         log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Float64("sample_ratio", cfg.Telemetry.SampleRatio).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetricsWithMeter(tp.Meter)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Engine client
	registry := resilience.NewRegistry()
	transportCfg := client.DefaultHTTPTransportConfig()
	transportCfg.BaseURL = cfg.Engine.BaseURL
	transportCfg.Timeout = cfg.Engine.Timeout
	transportCfg.MaxRetries = cfg.Engine.MaxRetries
	transportCfg.UserAgent = cfg.Engine.UserAgent
	transportCfg.Registry = registry
	transportCfg.Logger = log

	engine := client.New(client.NewHTTPTransport(transportCfg),
		client.WithLogger(log),
		client.WithTracer(tp.Tracer),
		client.WithMeter(tp.Meter),
	)
	log.Info().
		Str("base_url", cfg.Engine.BaseURL).
		Dur("timeout", cfg.Engine.Timeout).
		Uint64("max_retries", cfg.Engine.MaxRetries).
		Msg("engine client initialized")

	var jwtService *auth.JWTService
	if cfg.AuthEnabled() {
		jwtService = auth.NewJWTService(cfg.JWT)
		log.Info().Str("issuer", cfg.JWT.Issuer).Msg("bearer authentication enabled")
	} else {
		if cfg.IsProduction() {
			log.Fatal().Msg("JWT_SIGNING_KEY is required in production")
		}
		log.Warn().Msg("JWT_SIGNING_KEY not set - gateway runs without authentication")
	}

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Engine:      engine,
		Registry:    registry,
		JWT:         jwtService,
		RequireTLS:  cfg.RequireTLS,
	})

	// The write timeout leaves room for a full engine call plus the elevation
	// follow-up made by the profile endpoint.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2*cfg.Engine.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
