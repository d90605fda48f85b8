// Package config reads the gateway configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/breatheroute/valhalla/internal/auth"
	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// Config holds the gateway process configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    zerolog.Level
	RequireTLS  bool

	Engine    EngineConfig
	Telemetry TelemetryConfig

	// JWT is used only when JWT.SigningKey is set; otherwise the gateway
	// serves every surface without authentication.
	JWT auth.JWTConfig
}

// EngineConfig describes the routing engine the gateway talks to.
type EngineConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	UserAgent  string
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRatio  float64
}

// AuthEnabled reports whether bearer tokens are required.
func (c Config) AuthEnabled() bool {
	return c.JWT.SigningKey != ""
}

// IsProduction reports whether the gateway runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// FromEnv creates a Config from environment variables. Unparseable values
// fall back to their defaults.
func FromEnv() Config {
	timeout, err := time.ParseDuration(getEnvOrDefault("VALHALLA_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries, _ := strconv.ParseUint(getEnvOrDefault("VALHALLA_MAX_RETRIES", "0"), 10, 64)
	ratio, err := strconv.ParseFloat(getEnvOrDefault("OTEL_SAMPLE_RATIO", "1"), 64)
	if err != nil {
		ratio = 1
	}
	level, err := zerolog.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return Config{
		Port:        getEnvOrDefault("APP_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		LogLevel:    level,
		RequireTLS:  getBool("REQUIRE_TLS", false),
		Engine: EngineConfig{
			BaseURL:    getEnvOrDefault("VALHALLA_BASE_URL", valhalla.DefaultBaseURL),
			Timeout:    timeout,
			MaxRetries: retries,
			UserAgent:  getEnvOrDefault("VALHALLA_USER_AGENT", "valhalla-gateway"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio:  ratio,
		},
		JWT: auth.JWTConfig{
			SigningKey: os.Getenv("JWT_SIGNING_KEY"),
			Issuer:     getEnvOrDefault("JWT_ISSUER", "valhalla-gateway"),
			Audience:   getEnvOrDefault("JWT_AUDIENCE", "valhalla-gateway"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnvOrDefault(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}
