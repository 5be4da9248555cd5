package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Predefined errors for guarded operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// GuardConfig holds configuration for a Guard.
type GuardConfig struct {
	// Name identifies this guard for circuit breaker naming and health reporting.
	Name string

	// MaxRetries is the maximum number of retry attempts for Retry.
	// Default: 2
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval.
	// Default: 50ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval.
	// Default: 1 second
	MaxInterval time.Duration

	// CircuitBreaker is the circuit breaker configuration.
	// If nil, uses DefaultCircuitBreakerConfig.
	CircuitBreaker *CircuitBreakerConfig

	// Registry receives success and failure reports. Optional.
	Registry *Registry
}

// DefaultGuardConfig returns sensible defaults for a store guard.
func DefaultGuardConfig(name string) GuardConfig {
	cbConfig := DefaultCircuitBreakerConfig(name)
	return GuardConfig{
		Name:            name,
		MaxRetries:      2,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		CircuitBreaker:  &cbConfig,
	}
}

// Guard protects calls to a single backing store.
type Guard struct {
	circuitBreaker *gobreaker.CircuitBreaker[any]
	config         GuardConfig
}

// NewGuard creates a new guard and registers it with the configured registry.
func NewGuard(cfg GuardConfig) *Guard {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 50 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = time.Second
	}

	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}

	g := &Guard{
		circuitBreaker: NewCircuitBreaker[any](cbConfig),
		config:         cfg,
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, g)
	}

	return g
}

// Name returns the guard name.
func (g *Guard) Name() string {
	return g.config.Name
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (g *Guard) CircuitBreakerState() gobreaker.State {
	return g.circuitBreaker.State()
}

// CircuitBreakerCounts returns the current counts of the circuit breaker.
func (g *Guard) CircuitBreakerCounts() gobreaker.Counts {
	return g.circuitBreaker.Counts()
}

// Execute runs op once through the circuit breaker. Use it for writes that
// must not be repeated. Errors from op are returned unchanged.
func Execute[T any](ctx context.Context, g *Guard, op func(context.Context) (T, error)) (T, error) {
	var zero T

	res, err := g.circuitBreaker.Execute(func() (any, error) {
		return op(ctx)
	})
	g.report(err)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, ErrCircuitOpen
		}
		return zero, err
	}

	v, _ := res.(T)
	return v, nil
}

// Retry runs op through the circuit breaker and retries transient failures
// with exponential backoff. Use it for idempotent reads only. An open
// circuit and context cancellation stop retrying immediately.
func Retry[T any](ctx context.Context, g *Guard, op func(context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.config.InitialInterval
	bo.MaxInterval = g.config.MaxInterval
	bo.MaxElapsedTime = 0 // Unlimited, we control retries via WithMaxRetries

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, g.config.MaxRetries), ctx)

	return backoff.RetryWithData(func() (T, error) {
		v, err := Execute(ctx, g, op)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, ErrCircuitOpen) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, policy)
}

func (g *Guard) report(err error) {
	if g.config.Registry == nil {
		return
	}
	if err != nil {
		g.config.Registry.RecordFailure(g.config.Name, err)
		return
	}
	g.config.Registry.RecordSuccess(g.config.Name)
}
