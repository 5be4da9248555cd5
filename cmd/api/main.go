// Package main provides the entrypoint for the EcoTracker API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ecotracker/ecotracker/internal/api"
	"github.com/ecotracker/ecotracker/internal/api/middleware"
	"github.com/ecotracker/ecotracker/internal/auth"
	"github.com/ecotracker/ecotracker/internal/database"
	"github.com/ecotracker/ecotracker/internal/feedback"
	"github.com/ecotracker/ecotracker/internal/footprint"
	"github.com/ecotracker/ecotracker/internal/resilience"
	"github.com/ecotracker/ecotracker/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "ecotracker-api"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(log zerolog.Logger) error {
	log.Info().
		Str("build_time", BuildTime).
		Msg("starting EcoTracker API")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DevSigningKey {
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		return err
	}
	footprintMetrics, err := footprint.NewMetrics()
	if err != nil {
		return err
	}

	factors := footprint.DefaultFactorTable()
	if cfg.FactorTablePath != "" {
		factors, err = footprint.LoadFactorTable(cfg.FactorTablePath)
		if err != nil {
			return err
		}
		log.Info().Str("path", cfg.FactorTablePath).Msg("factor table loaded")
	}

	stores, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	// Every store call goes through a guard so outages trip a breaker and
	// show up on /v1/ops/status.
	registry := resilience.NewRegistry()
	footprintRepo := footprint.NewResilientRepository(stores.footprints, newGuard("footprint-store", registry))
	feedbackStore := feedback.NewResilientStore(stores.feedback, newGuard("feedback-store", registry))

	footprintService := footprint.NewService(footprint.ServiceConfig{
		Repository: footprintRepo,
		Logger:     log,
		Calculator: footprint.NewCalculator(factors),
		Metrics:    footprintMetrics,
	})
	feedbackService := feedback.NewService(feedback.ServiceConfig{
		Store:  feedbackStore,
		Logger: log,
	})

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: cfg.JWTSigningKey,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
	})
	authService := auth.NewService(auth.ServiceConfig{JWTService: jwtService})

	if cfg.isDevelopment() {
		log.Warn().Msg("development token endpoint enabled")
	}

	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          httpMetrics,
		RequireTLS:       cfg.RequireTLS,
		DevAuth:          cfg.isDevelopment(),
		AuthService:      authService,
		FootprintService: footprintService,
		FeedbackService:  feedbackService,
		Registry:         registry,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("store_backend", cfg.StoreBackend).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

// backingStores are the unguarded stores for the configured backend.
type backingStores struct {
	footprints footprint.Repository
	feedback   feedback.Store
}

// openStores connects the configured backend. The returned func releases it.
func openStores(ctx context.Context, cfg config, log zerolog.Logger) (backingStores, func(), error) {
	if cfg.StoreBackend == storeBackendMemory {
		log.Warn().Msg("using in-memory stores - data is lost on restart")
		return backingStores{
			footprints: footprint.NewInMemoryRepository(),
			feedback:   feedback.NewInMemoryStore(),
		}, func() {}, nil
	}

	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		return backingStores{}, nil, err
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return backingStores{}, nil, err
	}

	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	return postgresStores(pool), pool.Close, nil
}

func postgresStores(pool *pgxpool.Pool) backingStores {
	return backingStores{
		footprints: footprint.NewPostgresRepository(pool),
		feedback:   feedback.NewPostgresStore(pool),
	}
}

func newGuard(name string, registry *resilience.Registry) *resilience.Guard {
	cfg := resilience.DefaultGuardConfig(name)
	cfg.Registry = registry
	return resilience.NewGuard(cfg)
}
