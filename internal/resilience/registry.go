package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// StoreHealth represents the health status of a guarded store.
type StoreHealth struct {
	// Name is the guard identifier.
	Name string

	// CircuitState is the current circuit breaker state.
	CircuitState gobreaker.State

	// Counts contains circuit breaker statistics.
	Counts gobreaker.Counts

	// LastSuccessAt is the timestamp of the last successful call.
	LastSuccessAt *time.Time

	// LastFailureAt is the timestamp of the last failed call.
	LastFailureAt *time.Time

	// LastError is the most recent error message, if any.
	LastError string
}

// IsHealthy returns true if the store is considered healthy.
func (h *StoreHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded returns true if the store is in a degraded state (half-open).
func (h *StoreHealth) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy returns true if the store is unhealthy (circuit open).
func (h *StoreHealth) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Registry tracks guards and the outcome of their most recent calls.
type Registry struct {
	mu     sync.RWMutex
	guards map[string]*registeredGuard
}

type registeredGuard struct {
	guard         *Guard
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates a new guard registry.
func NewRegistry() *Registry {
	return &Registry{
		guards: make(map[string]*registeredGuard),
	}
}

// Register adds a guard to the registry.
func (r *Registry) Register(name string, guard *Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = &registeredGuard{guard: guard}
}

// RecordSuccess records a successful call through a guard.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guards[name]; ok {
		now := time.Now()
		g.lastSuccessAt = &now
	}
}

// RecordFailure records a failed call through a guard.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guards[name]; ok {
		now := time.Now()
		g.lastFailureAt = &now
		if err != nil {
			g.lastError = err.Error()
		}
	}
}

// GetHealth returns the health of a single guard, or nil if unknown.
func (r *Registry) GetHealth(name string) *StoreHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.guards[name]
	if !ok {
		return nil
	}
	return g.health(name)
}

// GetAllHealth returns the health of every registered guard sorted by name.
func (r *Registry) GetAllHealth() []*StoreHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*StoreHealth, 0, len(r.guards))
	for name, g := range r.guards {
		health = append(health, g.health(name))
	}
	sort.Slice(health, func(i, j int) bool { return health[i].Name < health[j].Name })
	return health
}

// Count returns the number of registered guards.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.guards)
}

func (g *registeredGuard) health(name string) *StoreHealth {
	return &StoreHealth{
		Name:          name,
		CircuitState:  g.guard.CircuitBreakerState(),
		Counts:        g.guard.CircuitBreakerCounts(),
		LastSuccessAt: g.lastSuccessAt,
		LastFailureAt: g.lastFailureAt,
		LastError:     g.lastError,
	}
}
