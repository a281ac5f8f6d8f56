// Package handler provides HTTP handlers for the departwise API.
package handler

import (
	"net/http"
	"time"

	"github.com/departwise/departwise/internal/api/models"
	"github.com/departwise/departwise/internal/api/response"
	"github.com/departwise/departwise/internal/provider/resilience"
)

// ProviderHealthSource reports the health of upstream providers.
type ProviderHealthSource interface {
	Snapshot() []*resilience.ProviderHealth
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers ProviderHealthSource
	now       func() time.Time
}

// NewOpsHandler creates a new OpsHandler. providers may be nil, in which case
// readiness and status report no providers.
func NewOpsHandler(version, buildTime string, providers ProviderHealthSource) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		providers: providers,
		now:       time.Now,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]any{
			"version":    h.version,
			"build_time": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. The service is not ready while
// any provider circuit is open.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
	}

	var open []string
	for _, p := range h.snapshot() {
		if p.Status() == resilience.StatusUnhealthy {
			open = append(open, p.Name)
		}
	}
	if len(open) > 0 {
		health.Status = models.HealthStatusFail
		health.Details = map[string]any{"unavailable_providers": open}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider circuit status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := h.snapshot()
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(h.now()),
		Providers: make([]models.ProviderStatus, 0, len(snapshot)),
	}

	for _, p := range snapshot {
		ps := toProviderStatus(p)
		status.Providers = append(status.Providers, ps)
		switch {
		case ps.Status == models.HealthStatusFail:
			status.Status = models.HealthStatusFail
		case ps.Status == models.HealthStatusDegraded && status.Status == models.HealthStatusOK:
			status.Status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) snapshot() []*resilience.ProviderHealth {
	if h.providers == nil {
		return nil
	}
	return h.providers.Snapshot()
}

func toProviderStatus(p *resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:            p.Name,
		CircuitState:        p.CircuitState.String(),
		ConsecutiveFailures: int(p.Counts.ConsecutiveFailures),
	}

	switch p.Status() {
	case resilience.StatusUnhealthy:
		ps.Status = models.HealthStatusFail
	case resilience.StatusDegraded:
		ps.Status = models.HealthStatusDegraded
	default:
		ps.Status = models.HealthStatusOK
	}

	if p.LastSuccessAt != nil {
		ts := models.Timestamp(*p.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if p.LastFailureAt != nil {
		ts := models.Timestamp(*p.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	if p.LastError != "" {
		msg := p.LastError
		ps.Message = &msg
	}
	return ps
}
