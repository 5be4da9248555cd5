package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/ecotracker/ecotracker/internal/api/middleware"
	"github.com/ecotracker/ecotracker/internal/auth"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("response body"))
}

func decodeJSON(t *testing.T, b []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.True(t, strings.HasPrefix(seen, "req_"))
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-Id", "client-supplied")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied", seen)
}

func TestRequestID_RejectsOversizedHeader(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-Id", strings.Repeat("x", 500))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, strings.HasPrefix(seen, "req_"))
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Empty(t, middleware.GetRequestID(context.Background()))
}

func TestLogger_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/v1/community/stats", http.NoBody)
	req.Header.Set("User-Agent", "test-agent")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeJSON(t, buf.Bytes())
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/v1/community/stats", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(13), entry["bytes"])
	assert.Equal(t, "test-agent", entry["user_agent"])
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusCreated, "info"},
		{http.StatusBadRequest, "warn"},
		{http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", http.NoBody))

		assert.Equal(t, tt.level, decodeJSON(t, buf.Bytes())["level"], "status %d", tt.status)
	}
}

func TestLogger_IncludesRoutePattern(t *testing.T) {
	var buf bytes.Buffer

	r := chi.NewRouter()
	r.Use(middleware.Logger(zerolog.New(&buf)))
	r.Get("/v1/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/items/42", http.NoBody))

	entry := decodeJSON(t, buf.Bytes())
	assert.Equal(t, "/v1/items/{id}", entry["route"])
	assert.Equal(t, "/v1/items/42", entry["path"])
}

func TestRecovery_ReturnsProblem(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.RequestID(middleware.Recovery(zerolog.New(&buf))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	problem := decodeJSON(t, rec.Body.Bytes())
	assert.Equal(t, "/v1/boom", problem["instance"])

	entry := decodeJSON(t, buf.Bytes())
	assert.Equal(t, "panic recovered", entry["message"])
	assert.Equal(t, "boom", entry["panic"])
}

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr
}

func TestTracing_CreatesSpanNamedByRoute(t *testing.T) {
	sr := setupTestTracer(t)

	r := chi.NewRouter()
	r.Use(middleware.Tracing("test-service"))
	r.Get("/v1/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, trace.SpanFromContext(r.Context()).SpanContext().IsValid())
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/items/42", http.NoBody))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /v1/items/{id}", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
}

func TestTracing_PropagatesContext(t *testing.T) {
	sr := setupTestTracer(t)
	handler := middleware.Tracing("test-service")(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", spans[0].SpanContext().TraceID().String())
}

func TestTracing_MarksServerErrors(t *testing.T) {
	sr := setupTestTracer(t)
	handler := middleware.Tracing("test-service")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestMetrics_Middleware(t *testing.T) {
	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)

	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError} {
		handler := metrics.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/test", http.NoBody))
		assert.Equal(t, status, rec.Code)
	}
}

func TestRateLimitByIP_BlocksOverLimit(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 3, WindowLength: time.Minute}
	handler := middleware.RateLimitByIP(cfg)(http.HandlerFunc(okHandler))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:12345").Code, "request %d should be allowed", i+1)
	}

	rec := send("10.0.0.1:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2:12345").Code, "other IPs have their own budget")
}

func TestRateLimitByUser_KeysOnUser(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 1, WindowLength: time.Minute}
	handler := middleware.RateLimitByUser(cfg)(http.HandlerFunc(okHandler))

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.RemoteAddr = "10.1.1.1:1234"
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("usr_a"))
	assert.Equal(t, http.StatusTooManyRequests, send("usr_a"))
	assert.Equal(t, http.StatusOK, send("usr_b"), "same IP, different user")
}

func newTestAuthService(t *testing.T) (*auth.Service, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key",
		Issuer:     "https://api.ecotracker.app",
		Audience:   "ecotracker-api",
	})
	return auth.NewService(auth.ServiceConfig{JWTService: jwtService}), jwtService
}

func TestAuth_ValidToken(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	token, _, err := jwtService.GenerateAccessToken("usr_test")
	require.NoError(t, err)

	var seen string
	handler := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me/footprints", http.NoBody)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_test", seen)
}

func TestAuth_Rejections(t *testing.T) {
	svc, _ := newTestAuthService(t)
	handler := middleware.Auth(svc)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"missing header", "", "missing authorization header"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "invalid authorization header format"},
		{"no token", "Bearer ", "missing bearer token"},
		{"garbage token", "Bearer not-a-jwt", "invalid access token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/me/footprints", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			assert.Equal(t, tt.detail, decodeJSON(t, rec.Body.Bytes())["detail"])
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.SecurityHeaders(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRequireTLS(t *testing.T) {
	send := func(enabled bool, proto string) int {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		if proto != "" {
			req.Header.Set("X-Forwarded-Proto", proto)
		}
		rec := httptest.NewRecorder()
		middleware.RequireTLS(enabled)(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(false, "http"))
	assert.Equal(t, http.StatusForbidden, send(true, "http"))
	assert.Equal(t, http.StatusOK, send(true, "https"))
	assert.Equal(t, http.StatusOK, send(true, ""))
}

func TestRequireJSON(t *testing.T) {
	handler := middleware.RequireJSON(http.HandlerFunc(okHandler))

	send := func(method, contentType string) int {
		req := httptest.NewRequest(method, "/", strings.NewReader("{}"))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "application/json; charset=utf-8"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, ""))
	assert.Equal(t, http.StatusUnsupportedMediaType, send(http.MethodPost, "text/plain"))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "text/plain"))
}

func TestContentTypeJSON_DefaultsHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.ContentTypeJSON(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
