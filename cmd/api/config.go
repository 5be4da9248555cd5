package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends.
const (
	storeBackendPostgres = "postgres"
	storeBackendMemory   = "memory"
)

const defaultJWTSigningKey = "local-dev-signing-key-change-in-production"

// config is the process configuration read from the environment.
type config struct {
	Port            string
	Env             string
	OTelEnabled     bool
	OTLPEndpoint    string
	OTelSampleRatio float64
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	StoreBackend    string
	FactorTablePath string
	RequireTLS      bool
	DevSigningKey   bool
}

func loadConfig() (config, error) {
	cfg := config{
		Port:            getEnv("APP_PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		OTelEnabled:     os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		JWTSigningKey:   os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:       getEnv("JWT_ISSUER", "https://api.ecotracker.app"),
		JWTAudience:     getEnv("JWT_AUDIENCE", "ecotracker-api"),
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", storeBackendPostgres)),
		FactorTablePath: os.Getenv("FACTOR_TABLE_PATH"),
		RequireTLS:      os.Getenv("REQUIRE_TLS") == "true",
	}

	if raw := os.Getenv("OTEL_SAMPLE_RATIO"); raw != "" {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			return config{}, fmt.Errorf("OTEL_SAMPLE_RATIO must be a number between 0 and 1, got %q", raw)
		}
		cfg.OTelSampleRatio = ratio
	}

	switch cfg.StoreBackend {
	case storeBackendPostgres, storeBackendMemory:
	default:
		return config{}, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q",
			storeBackendPostgres, storeBackendMemory, cfg.StoreBackend)
	}

	if cfg.JWTSigningKey == "" {
		if !cfg.isDevelopment() {
			return config{}, errors.New("JWT_SIGNING_KEY is required outside development")
		}
		cfg.JWTSigningKey = defaultJWTSigningKey
		cfg.DevSigningKey = true
	}

	return cfg, nil
}

func (c config) isDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
