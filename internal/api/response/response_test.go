package response_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/internal/api/middleware"
	"github.com/breatheroute/valhalla/internal/api/models"
	"github.com/breatheroute/valhalla/internal/api/response"
	"github.com/breatheroute/valhalla/internal/provider/resilience"
	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// requestWithID returns a request whose context went through the RequestID middleware.
func requestWithID(t *testing.T, method, path string) *http.Request {
	t.Helper()
	var processed *http.Request
	middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		processed = r
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, http.NoBody))
	require.NotNil(t, processed)
	return processed
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestJSON_IncludesRequestID(t *testing.T) {
	req := requestWithID(t, http.MethodGet, "/v1/status")
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, map[string]string{"version": "3.5.1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, middleware.GetRequestID(req.Context()), rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"version":"3.5.1"}`, rec.Body.String())
}

func TestJSON_WithoutRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody), http.StatusOK, nil)

	assert.Empty(t, rec.Header().Get("X-Request-Id"))
	assert.Empty(t, rec.Body.String())
}

func TestRaw(t *testing.T) {
	req := requestWithID(t, http.MethodPost, "/v1/route/gpx")
	rec := httptest.NewRecorder()

	response.Raw(rec, req, http.StatusOK, "application/gpx+xml", []byte("<gpx/>"))

	assert.Equal(t, "application/gpx+xml", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "<gpx/>", rec.Body.String())
}

func TestInvalid_ListsEveryViolation(t *testing.T) {
	req := requestWithID(t, http.MethodPost, "/v1/route")
	rec := httptest.NewRecorder()

	err := errors.Join(
		&valhalla.ValidationError{Field: "locations", Message: "at least 2 locations are required"},
		&valhalla.ValidationError{Field: "alternates", Message: "must be at least 0, got -1"},
	)
	response.Invalid(rec, req, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, "/v1/route", p.Instance)
	assert.Equal(t, middleware.GetRequestID(req.Context()), p.TraceID)
	require.Len(t, p.Errors, 2)
	assert.Equal(t, "locations", p.Errors[0].Field)
	assert.Equal(t, "alternates", p.Errors[1].Field)
}

func TestEngineError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{
			name:   "invalid manifest",
			err:    fmt.Errorf("valhalla route: %w", &valhalla.ValidationError{Field: "locations", Message: "m"}),
			status: http.StatusBadRequest,
			typ:    models.ProblemTypeValidation,
		},
		{
			name:   "engine rejected",
			err:    &valhalla.RemoteError{Surface: valhalla.SurfaceRoute, ErrorCode: 442, Message: "No path could be found for input", StatusCode: 400},
			status: http.StatusUnprocessableEntity,
			typ:    models.ProblemTypeEngineRejected,
		},
		{
			name:   "circuit open",
			err:    &valhalla.TransportError{Surface: valhalla.SurfaceRoute, Err: resilience.ErrCircuitOpen},
			status: http.StatusServiceUnavailable,
			typ:    models.ProblemTypeUnavailable,
		},
		{
			name:   "deadline",
			err:    &valhalla.TransportError{Surface: valhalla.SurfaceMatrix, Err: context.DeadlineExceeded},
			status: http.StatusGatewayTimeout,
			typ:    models.ProblemTypeGatewayTimeout,
		},
		{
			name:   "upstream status",
			err:    &valhalla.TransportError{Surface: valhalla.SurfaceMatrix, StatusCode: 502, Err: errors.New("bad")},
			status: http.StatusBadGateway,
			typ:    models.ProblemTypeBadGateway,
		},
		{
			name:   "decode",
			err:    fmt.Errorf("valhalla route: %w", valhalla.MissingField("trip")),
			status: http.StatusBadGateway,
			typ:    models.ProblemTypeBadGateway,
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			typ:    models.ProblemTypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithID(t, http.MethodPost, "/v1/route")
			rec := httptest.NewRecorder()

			response.EngineError(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, tt.status, p.Status)
		})
	}
}

func TestEngineError_CarriesEngineCode(t *testing.T) {
	req := requestWithID(t, http.MethodPost, "/v1/route")
	rec := httptest.NewRecorder()

	response.EngineError(rec, req, &valhalla.RemoteError{ErrorCode: 171, Message: "No suitable edges near location"})

	p := decodeProblem(t, rec)
	assert.Equal(t, 171, p.EngineErrorCode)
	assert.Equal(t, "No suitable edges near location", p.Detail)
}
