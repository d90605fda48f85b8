package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/internal/api/models"
)

func TestProblem_Builders(t *testing.T) {
	p := models.NewProblem(models.ProblemTypeValidation, "Validation error", http.StatusBadRequest, "req_test123").
		WithDetail("locations[0].lat must be at most 90").
		WithInstance("/v1/route").
		WithErrors([]models.FieldError{{Field: "locations[0].lat", Message: "must be at most 90"}})

	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, "req_test123", p.TraceID)
	assert.Equal(t, "locations[0].lat must be at most 90", p.Detail)
	assert.Equal(t, "/v1/route", p.Instance)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "locations[0].lat", p.Errors[0].Field)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "invalid manifest", []models.FieldError{
		{Field: "costing", Message: "unknown costing model"},
	})
	p.Instance = "/v1/matrix"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "invalid manifest", result.Detail)
	assert.Equal(t, "/v1/matrix", result.Instance)
	require.Len(t, result.Errors, 1)
	assert.Zero(t, result.EngineErrorCode)
	assert.NotContains(t, w.Body.String(), "engineErrorCode")
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *models.Problem
		typ     string
		status  int
	}{
		{"unauthorized", models.NewUnauthorized("req_1", "d"), models.ProblemTypeUnauthorized, http.StatusUnauthorized},
		{"forbidden", models.NewForbidden("req_1", "d"), models.ProblemTypeForbidden, http.StatusForbidden},
		{"not found", models.NewNotFound("req_1", "d"), models.ProblemTypeNotFound, http.StatusNotFound},
		{"unsupported media", models.NewUnsupportedMediaType("req_1", "d"), models.ProblemTypeUnsupportedMedia, http.StatusUnsupportedMediaType},
		{"engine rejected", models.NewEngineRejected("req_1", "d", 171), models.ProblemTypeEngineRejected, http.StatusUnprocessableEntity},
		{"too many requests", models.NewTooManyRequests("req_1", "d"), models.ProblemTypeTooManyRequests, http.StatusTooManyRequests},
		{"internal", models.NewInternalError("req_1", "d"), models.ProblemTypeInternal, http.StatusInternalServerError},
		{"bad gateway", models.NewBadGateway("req_1", "d"), models.ProblemTypeBadGateway, http.StatusBadGateway},
		{"unavailable", models.NewServiceUnavailable("req_1", "d"), models.ProblemTypeUnavailable, http.StatusServiceUnavailable},
		{"gateway timeout", models.NewGatewayTimeout("req_1", "d"), models.ProblemTypeGatewayTimeout, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.problem.Type)
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, "d", tt.problem.Detail)
			assert.Equal(t, "req_1", tt.problem.TraceID)
			assert.NotEmpty(t, tt.problem.Title)
		})
	}
}

func TestNewEngineRejected_CarriesEngineCode(t *testing.T) {
	p := models.NewEngineRejected("req_1", "No suitable edges near location", 171)

	w := httptest.NewRecorder()
	p.Write(w)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 171, body["engineErrorCode"])
}

func TestTimestamp_JSON(t *testing.T) {
	ts := models.Timestamp(time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600)))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-01T08:30:00Z"`, string(data))

	var back models.Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Time().Equal(ts.Time()))

	assert.Error(t, json.Unmarshal([]byte(`12`), &back))
}
