package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/breatheroute/valhalla/internal/provider/resilience"
	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// ProviderName identifies the engine transport in the health registry.
const ProviderName = "valhalla"

// ErrCircuitOpen is returned, wrapped in a TransportError, when the engine circuit
// breaker rejects a call without sending it.
var ErrCircuitOpen = resilience.ErrCircuitOpen

var errUnexpectedStatus = errors.New("unexpected status")

// HTTPTransportConfig holds configuration for the HTTP transport.
type HTTPTransportConfig struct {
	// BaseURL is the engine base URL (defaults to valhalla.DefaultBaseURL).
	BaseURL string

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// MaxRetries is the number of retries after a 5xx or network failure.
	// Default: 0, a single attempt
	MaxRetries uint64

	// UserAgent is sent with every request when set.
	UserAgent string

	// Registry, when set, tracks the transport's circuit breaker health.
	Registry *resilience.Registry

	// Logger receives per-request debug lines and breaker transitions.
	Logger zerolog.Logger

	// RoundTripper overrides the underlying HTTP transport.
	RoundTripper http.RoundTripper
}

// DefaultHTTPTransportConfig returns the configuration for the public engine.
func DefaultHTTPTransportConfig() HTTPTransportConfig {
	return HTTPTransportConfig{
		BaseURL: valhalla.DefaultBaseURL,
		Timeout: 30 * time.Second,
		Logger:  zerolog.Nop(),
	}
}

// HTTPTransport sends manifests to the engine as JSON POST requests.
type HTTPTransport struct {
	baseURL   string
	userAgent string
	client    *resilience.Client
	logger    zerolog.Logger
}

var _ valhalla.Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates an HTTP transport backed by a circuit breaker.
func NewHTTPTransport(cfg HTTPTransportConfig) *HTTPTransport {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = valhalla.DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cb := resilience.DefaultCircuitBreakerConfig(ProviderName)
	cb.OnStateChange = resilience.LogStateChanges(cfg.Logger)

	return &HTTPTransport{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
		client: resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			CircuitBreaker:  &cb,
			Registry:        cfg.Registry,
			Transport:       cfg.RoundTripper,
		}),
	}
}

// Send posts body to the engine endpoint at path and returns the response body.
// Non-2xx statuses are returned as *valhalla.RemoteError when the engine sent its
// structured error body, and as *valhalla.TransportError otherwise.
func (t *HTTPTransport) Send(ctx context.Context, path string, body []byte) ([]byte, error) {
	surface := surfaceForPath(path)
	requestID := uuid.NewString()

	url := fmt.Sprintf("%s/%s", t.baseURL, strings.TrimPrefix(path, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &valhalla.TransportError{Surface: surface, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.client.Do(ctx, req)
	if err != nil {
		t.logger.Debug().
			Err(err).
			Str("surface", string(surface)).
			Str("request_id", requestID).
			Msg("valhalla request failed")
		return nil, &valhalla.TransportError{Surface: surface, Err: err}
	}

	t.logger.Debug().
		Str("surface", string(surface)).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("bytes", len(resp.Body)).
		Dur("duration", time.Since(start)).
		Msg("valhalla request completed")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		if remote := parseRemoteError(surface, resp); remote != nil {
			return nil, remote
		}
	}
	return nil, &valhalla.TransportError{
		Surface:    surface,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("%w: %s", errUnexpectedStatus, snippet(resp.Body)),
	}
}

func parseRemoteError(surface valhalla.Surface, resp *resilience.Response) *valhalla.RemoteError {
	var remote valhalla.RemoteError
	if err := json.Unmarshal(resp.Body, &remote); err != nil {
		return nil
	}
	if remote.ErrorCode == 0 && remote.Message == "" {
		return nil
	}
	remote.Surface = surface
	if remote.StatusCode == 0 {
		remote.StatusCode = resp.StatusCode
	}
	if remote.Status == "" {
		remote.Status = http.StatusText(resp.StatusCode)
	}
	return &remote
}

func surfaceForPath(path string) valhalla.Surface {
	path = strings.Trim(path, "/")
	for _, s := range []valhalla.Surface{
		valhalla.SurfaceRoute,
		valhalla.SurfaceMatrix,
		valhalla.SurfaceElevation,
		valhalla.SurfaceStatus,
	} {
		if s.Path() == path {
			return s
		}
	}
	return valhalla.Surface(path)
}

func snippet(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "empty body"
	}
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
