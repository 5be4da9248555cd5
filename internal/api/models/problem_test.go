package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotracker/ecotracker/internal/api/models"
)

func TestProblem_Builders(t *testing.T) {
	p := models.NewProblem(
		models.ProblemTypeValidation,
		"Validation error",
		http.StatusBadRequest,
		"req_test123",
	).
		WithDetail("transport.carKm must be between 0 and 500").
		WithInstance("/v1/footprints:compute").
		WithErrors([]models.FieldError{
			{Field: "transport.carKm", Message: "must be between 0 and 500", Code: "OUT_OF_RANGE"},
		})

	assert.Equal(t, "req_test123", p.TraceID)
	assert.Equal(t, "transport.carKm must be between 0 and 500", p.Detail)
	assert.Equal(t, "/v1/footprints:compute", p.Instance)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "OUT_OF_RANGE", p.Errors[0].Code)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "invalid input", []models.FieldError{
		{Field: "rating", Message: "must be between 1 and 5"},
	})
	p.Instance = "/v1/me/feedback"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "/v1/me/feedback", result.Instance)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "rating", result.Errors[0].Field)
}

func TestProblemConstructors(t *testing.T) {
	tests := []struct {
		name      string
		problem   *models.Problem
		wantType  string
		wantTitle string
		wantCode  int
	}{
		{"bad request", models.NewBadRequest("req_1", "d", nil), models.ProblemTypeValidation, "Validation error", http.StatusBadRequest},
		{"unauthorized", models.NewUnauthorized("req_1", "d"), models.ProblemTypeUnauthorized, "Unauthorized", http.StatusUnauthorized},
		{"tls required", models.NewTLSRequired("req_1", "d"), models.ProblemTypeTLSRequired, "HTTPS required", http.StatusForbidden},
		{"not found", models.NewNotFound("req_1", "d"), models.ProblemTypeNotFound, "Not found", http.StatusNotFound},
		{"method not allowed", models.NewMethodNotAllowed("req_1", "d"), models.ProblemTypeMethodNotAllowed, "Method not allowed", http.StatusMethodNotAllowed},
		{"unsupported media", models.NewUnsupportedMediaType("req_1", "d"), models.ProblemTypeUnsupportedMediaType, "Unsupported media type", http.StatusUnsupportedMediaType},
		{"too many", models.NewTooManyRequests("req_1", "d"), models.ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests},
		{"internal", models.NewInternalError("req_1", "d"), models.ProblemTypeInternal, "Internal server error", http.StatusInternalServerError},
		{"unavailable", models.NewServiceUnavailable("req_1", "d"), models.ProblemTypeUnavailable, "Service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.problem.Type)
			assert.Equal(t, tt.wantTitle, tt.problem.Title)
			assert.Equal(t, tt.wantCode, tt.problem.Status)
			assert.Equal(t, "d", tt.problem.Detail)
			assert.Equal(t, "req_1", tt.problem.TraceID)
		})
	}
}

func TestTimestamp_JSON(t *testing.T) {
	ts := models.Timestamp(time.Date(2024, 5, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600)))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T12:30:00Z"`, string(data))

	var parsed models.Timestamp
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, parsed.Time().Equal(ts.Time()))

	require.NoError(t, json.Unmarshal([]byte("null"), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &parsed))
}

func TestFootprintRecord_OmitsUnsavedFields(t *testing.T) {
	data, err := json.Marshal(models.FootprintRecord{
		TotalFootprint:  96,
		Band:            "GOOD",
		Recommendations: []string{},
	})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotContains(t, out, "id")
	assert.NotContains(t, out, "createdAt")
	assert.Equal(t, float64(96), out["totalFootprint"])
}
