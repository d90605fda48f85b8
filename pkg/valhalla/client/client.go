// Package client runs validated manifests against a Valhalla routing engine and
// decodes the replies into typed responses.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
	"github.com/breatheroute/valhalla/pkg/valhalla/matrix"
	"github.com/breatheroute/valhalla/pkg/valhalla/route"
	"github.com/breatheroute/valhalla/pkg/valhalla/status"
)

const instrumentationName = "github.com/breatheroute/valhalla/pkg/valhalla/client"

// Call outcomes recorded on the request counter.
const (
	outcomeOK        = "ok"
	outcomeInvalid   = "invalid"
	outcomeTransport = "transport"
	outcomeRemote    = "remote"
	outcomeDecode    = "decode"
)

// Client runs requests against the engine through a Transport.
// It is safe for concurrent use.
type Client struct {
	transport valhalla.Transport
	logger    zerolog.Logger
	tracer    trace.Tracer
	meter     metric.Meter

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets the tracer used for per-call spans. The default is the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithMeter sets the meter used for call metrics. The default is the global meter.
func WithMeter(meter metric.Meter) Option {
	return func(c *Client) {
		c.meter = meter
	}
}

// New creates a Client that sends every request through transport.
func New(transport valhalla.Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		logger:    zerolog.Nop(),
		tracer:    otel.Tracer(instrumentationName),
		meter:     otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}

	requests, err := c.meter.Int64Counter(
		"valhalla.client.requests",
		metric.WithDescription("Number of routing engine calls by surface and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		c.logger.Warn().Err(err).Msg("creating request counter")
	}
	duration, err := c.meter.Float64Histogram(
		"valhalla.client.duration",
		metric.WithDescription("Duration of routing engine calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		c.logger.Warn().Err(err).Msg("creating duration histogram")
	}
	c.requests = requests
	c.duration = duration

	return c
}

// Route computes a trip for m. Manifests that fail validation are rejected before
// anything is sent.
func (c *Client) Route(ctx context.Context, m route.Manifest) (*route.Response, error) {
	resp, err := do(ctx, c, valhalla.SurfaceRoute, func() ([]byte, error) {
		if err := route.Validate(m); err != nil {
			return nil, err
		}
		return route.Encode(m)
	}, route.DecodeResponse)
	if err != nil {
		return nil, err
	}

	if n := resp.UnknownManeuvers(); n > 0 {
		c.logger.Debug().
			Int("count", n).
			Str("id", resp.ID).
			Msg("route contains maneuver types this client does not know")
	}
	return resp, nil
}

// Matrix computes the time-distance matrix for m. The response is checked against
// the manifest's source and target counts.
func (c *Client) Matrix(ctx context.Context, m matrix.Manifest) (*matrix.Response, error) {
	dims := m.Dimensions()
	return do(ctx, c, valhalla.SurfaceMatrix, func() ([]byte, error) {
		if err := matrix.Validate(m); err != nil {
			return nil, err
		}
		return matrix.Encode(m)
	}, func(body []byte) (*matrix.Response, error) {
		return matrix.DecodeResponse(body, dims)
	})
}

// Elevation samples terrain heights along the shape or polyline in m.
func (c *Client) Elevation(ctx context.Context, m elevation.Manifest) (*elevation.Response, error) {
	return do(ctx, c, valhalla.SurfaceElevation, func() ([]byte, error) {
		if err := elevation.Validate(m); err != nil {
			return nil, err
		}
		return elevation.Encode(m)
	}, elevation.DecodeResponse)
}

// Status reports the engine version, tileset age and available actions.
func (c *Client) Status(ctx context.Context, m status.Manifest) (*status.Response, error) {
	return do(ctx, c, valhalla.SurfaceStatus, func() ([]byte, error) {
		return status.Encode(m)
	}, status.DecodeResponse)
}

// do runs one encode, send and decode cycle inside a span.
func do[T any](
	ctx context.Context,
	c *Client,
	surface valhalla.Surface,
	encode func() ([]byte, error),
	decode func([]byte) (*T, error),
) (*T, error) {
	ctx, span := c.tracer.Start(ctx, "valhalla."+string(surface),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("valhalla.surface", string(surface))),
	)
	defer span.End()
	start := time.Now()

	result, err := func() (*T, error) {
		body, err := encode()
		if err != nil {
			return nil, fmt.Errorf("valhalla %s: %w", surface, err)
		}
		span.SetAttributes(attribute.Int("valhalla.request.size", len(body)))

		raw, err := c.transport.Send(ctx, surface.Path(), body)
		if err != nil {
			return nil, wrapTransportError(surface, err)
		}
		span.SetAttributes(attribute.Int("valhalla.response.size", len(raw)))

		resp, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("valhalla %s: %w", surface, err)
		}
		return resp, nil
	}()

	outcome := classify(err)
	c.record(ctx, surface, outcome, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		c.logger.Debug().
			Err(err).
			Str("surface", string(surface)).
			Str("outcome", outcome).
			Msg("valhalla call failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (c *Client) record(ctx context.Context, surface valhalla.Surface, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("surface", string(surface)),
		attribute.String("outcome", outcome),
	)
	if c.requests != nil {
		c.requests.Add(ctx, 1, attrs)
	}
	if c.duration != nil {
		c.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// wrapTransportError attaches the surface to errors from transports that did not
// already produce a typed engine error.
func wrapTransportError(surface valhalla.Surface, err error) error {
	var transportErr *valhalla.TransportError
	var remoteErr *valhalla.RemoteError
	if errors.As(err, &transportErr) || errors.As(err, &remoteErr) {
		return err
	}
	return &valhalla.TransportError{Surface: surface, Err: err}
}

func classify(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, valhalla.ErrInvalidManifest):
		return outcomeInvalid
	case errors.Is(err, valhalla.ErrRemote):
		return outcomeRemote
	case errors.Is(err, valhalla.ErrDecode):
		return outcomeDecode
	default:
		return outcomeTransport
	}
}
