// Package handler provides HTTP handlers for the RoamCast API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/roamcast/roamcast/internal/api/models"
	"github.com/roamcast/roamcast/internal/api/response"
	"github.com/roamcast/roamcast/internal/monitor"
)

// ReadyCheck verifies one dependency for the readiness endpoint.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version     string
	buildTime   string
	registry    *monitor.Registry
	readyChecks []ReadyCheck
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *monitor.Registry, checks []ReadyCheck) *OpsHandler {
	return &OpsHandler{
		version:     version,
		buildTime:   buildTime,
		registry:    registry,
		readyChecks: checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Any failing
// dependency turns the response into a 503.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	details := make(map[string]interface{})
	for _, check := range h.readyChecks {
		if err := check.Check(r.Context()); err != nil {
			health.Status = models.HealthStatusFail
			details[check.Name] = err.Error()
			continue
		}
		details[check.Name] = "ok"
	}
	if len(details) > 0 {
		health.Details = details
	}

	status := http.StatusOK
	if health.Status != models.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, r, status, health)
}

// SystemStatus handles GET /v1/ops/status - monitoring overview.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	if h.registry != nil {
		status.MonitoredTrips = len(h.registry.TripIDs())
	}
	for _, check := range h.readyChecks {
		sub := models.SubsystemStatus{Name: check.Name, Status: models.HealthStatusOK}
		if err := check.Check(r.Context()); err != nil {
			detail := err.Error()
			sub.Status = models.HealthStatusFail
			sub.Detail = &detail
			status.Status = models.HealthStatusDegraded
		}
		status.Subsystems = append(status.Subsystems, sub)
	}
	response.JSON(w, r, http.StatusOK, status)
}
