// Package api provides the HTTP API for EcoTracker.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ecotracker/ecotracker/internal/api/handler"
	"github.com/ecotracker/ecotracker/internal/api/middleware"
	"github.com/ecotracker/ecotracker/internal/api/models"
	"github.com/ecotracker/ecotracker/internal/api/response"
	"github.com/ecotracker/ecotracker/internal/auth"
	"github.com/ecotracker/ecotracker/internal/feedback"
	"github.com/ecotracker/ecotracker/internal/footprint"
	"github.com/ecotracker/ecotracker/internal/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// RequireTLS rejects plain HTTP requests that did not come through a
	// TLS-terminating proxy.
	RequireTLS bool

	// DevAuth exposes POST /v1/auth/dev-token. Never enable in production.
	DevAuth bool

	AuthService      *auth.Service
	FootprintService *footprint.Service
	FeedbackService  *feedback.Service
	Registry         *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "ecotracker-api"
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
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no such resource")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, models.NewMethodNotAllowed(
			middleware.GetRequestID(r.Context()),
			r.Method+" is not supported for this resource",
		))
	})

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Store:     cfg.FootprintService,
		Registry:  cfg.Registry,
		Logger:    cfg.Logger,
	})
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	footprintHandler := handler.NewFootprintHandler(cfg.FootprintService, cfg.Logger)
	feedbackHandler := handler.NewFeedbackHandler(cfg.FeedbackService, cfg.Logger)
	metadataHandler := handler.NewMetadataHandler(cfg.FootprintService.FactorTable())

	authMiddleware := middleware.Auth(cfg.AuthService)

	// Rate limits per endpoint category
	computeRateLimit := middleware.RateLimitByIP(middleware.ComputeRateLimit)   // 60 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min
	submitRateLimit := middleware.RateLimitByUser(middleware.SubmitRateLimit)   // 20 req/min per user

	r.Route("/v1", func(r chi.Router) {
		if cfg.DevAuth {
			r.With(middleware.RateLimitByIP(middleware.DevTokenRateLimit)).
				Post("/auth/dev-token", authHandler.DevToken)
		}

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Anonymous computation, nothing is stored
		r.With(computeRateLimit, middleware.RequireJSON).
			Post("/footprints:compute", footprintHandler.Compute)

		r.With(standardRateLimit).Get("/community/stats", footprintHandler.CommunityStats)
		r.With(standardRateLimit).Get("/metadata/factors", metadataHandler.GetFactors)

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user

			r.Route("/footprints", func(r chi.Router) {
				r.Get("/", footprintHandler.History)
				r.With(submitRateLimit, middleware.RequireJSON).Post("/", footprintHandler.Submit)
				r.Get("/stats", footprintHandler.PersonalStats)
				r.Get("/{recordId}", footprintHandler.Get)
			})

			r.Get("/analytics", footprintHandler.Analytics)

			r.Route("/feedback", func(r chi.Router) {
				r.Get("/", feedbackHandler.List)
				r.With(submitRateLimit, middleware.RequireJSON).Post("/", feedbackHandler.Submit)
			})
		})
	})

	return r
}
