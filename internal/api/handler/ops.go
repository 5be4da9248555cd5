package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/ecotracker/ecotracker/internal/api/models"
	"github.com/ecotracker/ecotracker/internal/api/response"
	"github.com/ecotracker/ecotracker/internal/resilience"
)

// readinessTimeout bounds the store ping of a readiness check.
const readinessTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     Pinger
	registry  *resilience.Registry
	log       zerolog.Logger
}

// OpsHandlerConfig holds the dependencies of an OpsHandler.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string
	Store     Pinger
	Registry  *resilience.Registry
	Logger    zerolog.Logger
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	registry := cfg.Registry
	if registry == nil {
		registry = resilience.NewRegistry()
	}
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		store:     cfg.Store,
		registry:  registry,
		log:       cfg.Logger,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready - the footprint store must answer
// a ping.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("readiness check failed")
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"store": "unreachable"}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - circuit state of each guarded
// store.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	all := h.registry.GetAllHealth()
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Stores: make([]models.StoreStatus, len(all)),
	}

	for i, sh := range all {
		store := models.StoreStatus{
			Name:                sh.Name,
			Status:              storeHealthStatus(sh),
			ConsecutiveFailures: sh.Counts.ConsecutiveFailures,
			LastSuccessAt:       timestampPtr(sh.LastSuccessAt),
			LastFailureAt:       timestampPtr(sh.LastFailureAt),
		}
		if sh.LastError != "" && sh.CircuitState != gobreaker.StateClosed {
			msg := sh.LastError
			store.Message = &msg
		}
		status.Stores[i] = store
		status.Status = worse(status.Status, store.Status)
	}

	response.JSON(w, r, http.StatusOK, status)
}

func storeHealthStatus(sh *resilience.StoreHealth) models.HealthStatus {
	switch {
	case sh.IsUnhealthy():
		return models.HealthStatusFail
	case sh.IsDegraded():
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

func worse(a, b models.HealthStatus) models.HealthStatus {
	rank := map[models.HealthStatus]int{
		models.HealthStatusOK:       0,
		models.HealthStatusDegraded: 1,
		models.HealthStatusFail:     2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func timestampPtr(t *time.Time) *models.Timestamp {
	if t == nil {
		return nil
	}
	ts := models.Timestamp(*t)
	return &ts
}
