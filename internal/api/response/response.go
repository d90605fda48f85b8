// Package response writes gateway responses and maps routing errors onto RFC7807 problems.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/breatheroute/valhalla/internal/api/middleware"
	"github.com/breatheroute/valhalla/internal/api/models"
	"github.com/breatheroute/valhalla/internal/provider/resilience"
	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// JSON writes a JSON response with the given status code.
// Includes X-Request-Id header for correlation.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Raw writes an already encoded body, such as a GPX document, with contentType.
func Raw(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func setRequestID(w http.ResponseWriter, r *http.Request) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
}

// Error writes a Problem+JSON error response.
func Error(w http.ResponseWriter, r *http.Request, problem *models.Problem) {
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string, errors []models.FieldError) {
	Error(w, r, models.NewBadRequest(middleware.GetRequestID(r.Context()), detail, errors))
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewNotFound(middleware.GetRequestID(r.Context()), detail))
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewInternalError(middleware.GetRequestID(r.Context()), detail))
}

// ServiceUnavailable writes a 503 Service Unavailable error response.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewServiceUnavailable(middleware.GetRequestID(r.Context()), detail))
}

// Invalid writes a 400 problem listing every violation in a manifest validation error.
func Invalid(w http.ResponseWriter, r *http.Request, err error) {
	BadRequest(w, r, "the request does not describe a valid routing request", FieldErrors(err))
}

// FieldErrors converts joined validation errors into problem field errors.
func FieldErrors(err error) []models.FieldError {
	violations := valhalla.ValidationErrors(err)
	out := make([]models.FieldError, 0, len(violations))
	for _, v := range violations {
		out = append(out, models.FieldError{Field: v.Field, Message: v.Message, Code: "INVALID"})
	}
	return out
}

// EngineError maps an error returned by the routing client to a problem:
//
//	invalid manifest           400
//	engine rejected request    422
//	circuit open               503
//	deadline exceeded          504
//	transport or decode error  502
func EngineError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := middleware.GetRequestID(r.Context())

	var remote *valhalla.RemoteError
	switch {
	case errors.Is(err, valhalla.ErrInvalidManifest):
		Invalid(w, r, err)
	case errors.As(err, &remote):
		Error(w, r, models.NewEngineRejected(traceID, remote.Message, remote.ErrorCode))
	case errors.Is(err, resilience.ErrCircuitOpen):
		Error(w, r, models.NewServiceUnavailable(traceID, "the routing engine is temporarily unavailable"))
	case errors.Is(err, context.DeadlineExceeded):
		Error(w, r, models.NewGatewayTimeout(traceID, "the routing engine did not answer in time"))
	case errors.Is(err, context.Canceled):
		// The caller went away; nobody reads this.
		Error(w, r, models.NewServiceUnavailable(traceID, "request canceled"))
	case errors.Is(err, valhalla.ErrTransport):
		Error(w, r, models.NewBadGateway(traceID, "the routing engine could not be reached"))
	case errors.Is(err, valhalla.ErrDecode):
		Error(w, r, models.NewBadGateway(traceID, "the routing engine returned an unreadable response"))
	default:
		InternalError(w, r, "an unexpected error occurred")
	}
}
