// Package database provides PostgreSQL connection management.
package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds database connection configuration.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConfigFromEnv creates a Config from environment variables. Unparseable
// numbers and durations fall back to their defaults.
func ConfigFromEnv() Config {
	return Config{
		Host:            getEnvOrDefault("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnvOrDefault("DB_USER", "ecotracker"),
		Password:        getEnvOrDefault("DB_PASSWORD", "localdev"),
		Database:        getEnvOrDefault("DB_NAME", "ecotracker"),
		SSLMode:         getEnvOrDefault("DB_SSL_MODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Validate reports configuration that pgxpool would reject or silently
// misinterpret.
func (c Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxOpenConns <= 0 || c.MaxOpenConns > 1000 {
		errs = append(errs, fmt.Errorf("max open conns %d out of range", c.MaxOpenConns))
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		errs = append(errs, fmt.Errorf("max idle conns %d must be between 0 and max open conns", c.MaxIdleConns))
	}
	return errors.Join(errs...)
}

// ConnectionString returns the PostgreSQL connection string. Credentials are
// escaped so passwords may contain URL metacharacters.
func (c Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Connect creates a new database connection pool.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns) //nolint:gosec // bounded by Validate
	poolConfig.MinConns = int32(cfg.MaxIdleConns) //nolint:gosec // bounded by Validate
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// schema creates the tables the footprint and feedback stores use. Every
// statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS footprint_records (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		total_footprint DOUBLE PRECISION NOT NULL,
		transport       DOUBLE PRECISION NOT NULL,
		energy          DOUBLE PRECISION NOT NULL,
		food            DOUBLE PRECISION NOT NULL,
		consumption     DOUBLE PRECISION NOT NULL,
		recommendations TEXT[] NOT NULL DEFAULT '{}',
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS footprint_records_user_created_idx
		ON footprint_records (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		rating     SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS feedback_user_created_idx
		ON feedback (user_id, created_at DESC)`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
