package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roamcast/roamcast/internal/api/models"
	"github.com/roamcast/roamcast/internal/api/response"
	"github.com/roamcast/roamcast/internal/monitor"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/trip"
	"github.com/roamcast/roamcast/internal/weather"
)

// TripHandler handles trip registration and monitoring endpoints.
type TripHandler struct {
	registry *monitor.Registry
	trips    trip.Repository
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(registry *monitor.Registry, trips trip.Repository) *TripHandler {
	return &TripHandler{
		registry: registry,
		trips:    trips,
	}
}

// CreateTrip handles POST /v1/trips - register a trip and initialize its
// monitor.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrs := validateCreateTrip(input); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid trip", fieldErrs)
		return
	}

	tripID := "trp_" + uuid.New().String()[:22]
	m, err := h.registry.GetOrCreate(tripID)
	if err != nil {
		response.InternalError(w, r, err.Error())
		return
	}

	if err := m.Initialize(r.Context(), tripID, input.City, input.Country); err != nil {
		h.registry.Remove(tripID)
		switch {
		case errors.Is(err, weather.ErrLocationNotFound):
			response.BadRequest(w, r, fmt.Sprintf("unknown city %q", input.City), nil)
		case errors.Is(err, weather.ErrInvalidCoordinates):
			response.BadRequest(w, r, err.Error(), nil)
		default:
			response.ServiceUnavailable(w, r, "weather provider unavailable")
		}
		return
	}

	state, err := m.State()
	if err != nil {
		response.InternalError(w, r, err.Error())
		return
	}

	now := time.Now()
	stored := &trip.Trip{
		ID:         tripID,
		City:       state.Location.City,
		Country:    state.Location.Country,
		Lat:        state.Location.Lat,
		Lon:        state.Location.Lon,
		StartDate:  input.StartDate.Time(),
		EndDate:    input.EndDate.Time(),
		Monitoring: input.StartMonitoring,
		Activities: models.ToSchedule(input.Activities),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.trips.Create(r.Context(), stored); err != nil {
		h.registry.Remove(tripID)
		response.InternalError(w, r, "failed to store trip")
		return
	}

	if input.StartMonitoring {
		if err := m.Start(r.Context()); err != nil {
			response.InternalError(w, r, err.Error())
			return
		}
	}

	location := fmt.Sprintf("/v1/trips/%s", tripID)
	response.Created(w, r, location, models.NewTrip(stored))
}

// ListTrips handles GET /v1/trips - list registered trip IDs.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.TripList{TripIDs: h.registry.TripIDs()})
}

// GetState handles GET /v1/trips/{tripId} - current monitoring state.
func (h *TripHandler) GetState(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	state, err := m.State()
	if err != nil {
		response.Conflict(w, r, "trip monitor is not initialized")
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewMonitorState(state))
}

// DeleteTrip handles DELETE /v1/trips/{tripId} - stop and discard a trip.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if _, ok := h.registry.Get(tripID); !ok {
		response.NotFound(w, r, "trip not found")
		return
	}

	h.registry.Remove(tripID)
	if err := h.trips.Delete(r.Context(), tripID); err != nil {
		response.InternalError(w, r, "failed to delete trip")
		return
	}
	response.NoContent(w, r)
}

// StartMonitoring handles POST /v1/trips/{tripId}/start.
func (h *TripHandler) StartMonitoring(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	if err := m.Start(r.Context()); err != nil {
		response.Conflict(w, r, "trip monitor is not initialized")
		return
	}
	// Best effort: the monitor runs either way.
	_ = h.trips.SetMonitoring(r.Context(), chi.URLParam(r, "tripId"), true)
	response.NoContent(w, r)
}

// StopMonitoring handles POST /v1/trips/{tripId}/stop.
func (h *TripHandler) StopMonitoring(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	m.Stop()
	_ = h.trips.SetMonitoring(r.Context(), chi.URLParam(r, "tripId"), false)
	response.NoContent(w, r)
}

// Check handles POST /v1/trips/{tripId}/check - run one poll immediately.
func (h *TripHandler) Check(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	changes := m.Check(r.Context())
	response.JSON(w, r, http.StatusOK, models.CheckResult{
		CheckedAt: models.Timestamp(time.Now()),
		Changes:   models.NewChanges(changes),
	})
}

// UpdateConfig handles PATCH /v1/trips/{tripId}/config.
func (h *TripHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	var patch models.ConfigPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := m.UpdateConfig(r.Context(), patch.ToPatch()); err != nil {
		if errors.Is(err, monitor.ErrInvalidConfig) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, err.Error())
		return
	}
	response.NoContent(w, r)
}

// GetViability handles GET /v1/trips/{tripId}/viability?date=2026-08-29.
// Without a date the verdict reflects the current snapshot.
func (h *TripHandler) GetViability(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("date")
	if raw == "" {
		response.JSON(w, r, http.StatusOK, models.NewViability(m.CurrentViability()))
		return
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.BadRequest(w, r, "date must be formatted YYYY-MM-DD", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewViability(m.ViabilityForDate(date)))
}

// Sweep handles GET /v1/trips/{tripId}/sweep?date=2026-08-29 - the morning
// sweep report. Defaults to today.
func (h *TripHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, r, "date must be formatted YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}

	var activities []schedule.Activity
	if stored, err := h.trips.Get(r.Context(), tripID); err == nil {
		activities = stored.ActivitiesOn(day)
	}

	result, err := m.PerformMorningSweep(r.Context(), day, activities)
	if err != nil {
		response.Conflict(w, r, "trip monitor is not initialized")
		return
	}
	if result == nil {
		response.NotFound(w, r, "no forecast available for the requested day")
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewSweepReport(result))
}

// GetMetrics handles GET /v1/trips/{tripId}/metrics.
func (h *TripHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewMonitorMetrics(m.Metrics()))
}

// DismissAlert handles DELETE /v1/trips/{tripId}/alerts/{alertId}.
func (h *TripHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monitorFor(w, r)
	if !ok {
		return
	}

	alertID := chi.URLParam(r, "alertId")
	if err := m.DismissAlert(alertID); err != nil {
		if errors.Is(err, monitor.ErrAlertNotFound) {
			response.NotFound(w, r, "alert not found")
			return
		}
		response.Conflict(w, r, "trip monitor is not initialized")
		return
	}
	response.NoContent(w, r)
}

// monitorFor resolves the tripId route parameter to a monitor, writing a 404
// when no monitor exists.
func (h *TripHandler) monitorFor(w http.ResponseWriter, r *http.Request) (*monitor.Monitor, bool) {
	tripID := chi.URLParam(r, "tripId")
	m, ok := h.registry.Get(tripID)
	if !ok {
		response.NotFound(w, r, "trip not found")
		return nil, false
	}
	return m, true
}

func validateCreateTrip(input models.TripCreateRequest) []models.FieldError {
	var errs []models.FieldError
	if input.City == "" {
		errs = append(errs, models.FieldError{Field: "city", Message: "city is required"})
	}
	if input.StartDate.Time().IsZero() {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "startDate is required"})
	}
	if input.EndDate.Time().IsZero() {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "endDate is required"})
	}
	if !input.StartDate.Time().IsZero() && !input.EndDate.Time().IsZero() &&
		input.EndDate.Time().Before(input.StartDate.Time()) {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "endDate must not precede startDate"})
	}
	for i, a := range input.Activities {
		if a.SlotID == "" {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("activities[%d].slotId", i),
				Message: "slotId is required",
			})
		}
	}
	return errs
}
