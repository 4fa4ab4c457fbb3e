// Package monitor owns the stateful weather-watching lifecycle for one trip:
// a single periodic poll, change detection, alert generation, and dispatch
// of trigger events to the downstream reshuffling engine.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/change"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/trigger"
	"github.com/roamcast/roamcast/internal/viability"
	"github.com/roamcast/roamcast/internal/weather"
)

// Monitor errors.
var (
	ErrNotInitialized = errors.New("monitor not initialized")
	ErrAlertNotFound  = errors.New("alert not found")
)

// ActivitySource lets the itinerary layer expose the day's schedule so
// trigger events can name the affected slots. The monitor never mutates
// what it is given.
type ActivitySource interface {
	ActivitiesOn(ctx context.Context, day time.Time) []schedule.Activity
}

// Options configures a Monitor.
type Options struct {
	// Provider supplies weather data (required).
	Provider weather.Provider

	// Logger for monitor operations.
	Logger zerolog.Logger

	// Clock is the time source. Nil uses the real clock; tests inject a
	// fake for deterministic timers.
	Clock clockwork.Clock

	// Activities is the optional itinerary projection used to compute
	// affected slots on trigger events.
	Activities ActivitySource

	// Config holds thresholds and cadence. Zero value uses DefaultConfig.
	Config Config
}

// Monitor watches the weather for a single trip. One Monitor owns at most
// one polling timer; Start and UpdateConfig preserve that invariant.
type Monitor struct {
	provider   weather.Provider
	logger     zerolog.Logger
	clock      clockwork.Clock
	activities ActivitySource

	mu                  sync.Mutex
	cfg                 Config
	state               *State
	stop                chan struct{}
	ticker              clockwork.Ticker
	lastForecastRefresh time.Time
	changeListeners     []ChangeListener
	alertListeners      []AlertListener
	metrics             Metrics
}

// New creates a Monitor. The config is validated eagerly.
func New(opts Options) (*Monitor, error) {
	if opts.Provider == nil {
		return nil, errors.New("monitor requires a weather provider")
	}

	cfg := opts.Config
	if cfg.CheckInterval == 0 {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Monitor{
		provider:   opts.Provider,
		logger:     opts.Logger,
		clock:      clock,
		activities: opts.Activities,
		cfg:        cfg,
	}, nil
}

// Initialize geocodes the trip location and fetches the initial snapshot and
// forecast. On any provider failure the monitor stays uninitialized and the
// error is returned to the caller.
func (m *Monitor) Initialize(ctx context.Context, tripID, city, country string) error {
	loc, err := m.provider.GeocodeCity(ctx, city, country)
	if err != nil {
		return fmt.Errorf("geocoding %q: %w", city, err)
	}

	snap, err := m.provider.CurrentWeather(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return fmt.Errorf("fetching current weather: %w", err)
	}

	forecast, err := m.provider.Forecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return fmt.Errorf("fetching forecast: %w", err)
	}

	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &State{
		TripID:         tripID,
		Location:       *loc,
		LastCheck:      now,
		CurrentWeather: snap,
		DailyForecast:  forecast,
	}
	m.lastForecastRefresh = now

	m.logger.Info().
		Str("trip_id", tripID).
		Str("city", loc.City).
		Str("condition", snap.Condition).
		Int("forecast_days", len(forecast)).
		Msg("monitor initialized")
	return nil
}

// Start begins periodic checking. If a timer is already running it is
// cleared first, so calling Start twice never leaves two timers behind. One
// check runs immediately; subsequent checks follow the configured interval.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state == nil {
		m.mu.Unlock()
		return ErrNotInitialized
	}
	if m.stop != nil {
		close(m.stop)
	}
	if m.ticker != nil {
		m.ticker.Stop()
	}
	stopCh := make(chan struct{})
	m.stop = stopCh
	ticker := m.clock.NewTicker(m.cfg.CheckInterval)
	m.ticker = ticker
	m.state.IsMonitoring = true
	interval := m.cfg.CheckInterval
	tripID := m.state.TripID
	m.mu.Unlock()

	m.logger.Info().Str("trip_id", tripID).Dur("interval", interval).Msg("monitoring started")

	m.Check(ctx)

	go m.run(ctx, stopCh, ticker)
	return nil
}

func (m *Monitor) run(ctx context.Context, stopCh <-chan struct{}, ticker clockwork.Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			m.Stop()
			return
		case <-ticker.Chan():
			// A tick raced with Stop; prefer the stop signal.
			select {
			case <-stopCh:
				return
			default:
			}
			m.Check(ctx)
		}
	}
}

// Stop clears the polling timer. Idempotent; state and data are retained so
// Start can resume without re-initializing. A check already in flight may
// still apply its result once (last-write-wins).
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
	if m.state != nil && m.state.IsMonitoring {
		m.state.IsMonitoring = false
		m.logger.Info().Str("trip_id", m.state.TripID).Msg("monitoring stopped")
	}
}

// UpdateConfig merges and validates a partial config. If the check interval
// changed while monitoring, the timer is stopped and restarted so exactly
// one timer runs at the new cadence.
func (m *Monitor) UpdateConfig(ctx context.Context, patch ConfigPatch) error {
	m.mu.Lock()
	merged := m.cfg.Apply(patch)
	if err := merged.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	intervalChanged := merged.CheckInterval != m.cfg.CheckInterval
	m.cfg = merged
	monitoring := m.state != nil && m.state.IsMonitoring
	m.mu.Unlock()

	if intervalChanged && monitoring {
		m.Stop()
		return m.Start(ctx)
	}
	return nil
}

// Check runs one poll: fetch the current snapshot, detect changes against
// the previous one, raise alerts, and opportunistically refresh the
// forecast. Provider failures are absorbed here; on failure the cached
// state keeps its last-known-good values and the returned change list is
// empty.
func (m *Monitor) Check(ctx context.Context) []change.Change {
	started := m.clock.Now()

	m.mu.Lock()
	if m.state == nil {
		m.mu.Unlock()
		return nil
	}
	loc := m.state.Location
	tripID := m.state.TripID
	prev := m.state.CurrentWeather
	cfg := m.cfg
	m.mu.Unlock()

	snap, err := m.provider.CurrentWeather(ctx, loc.Lat, loc.Lon)
	if err != nil {
		m.logger.Warn().Err(err).Str("trip_id", tripID).Msg("weather check failed, keeping last-known-good state")
		m.mu.Lock()
		if m.state != nil && m.state.CurrentWeather != nil {
			m.state.CurrentWeather.Stale = true
		}
		m.metrics.ChecksTotal++
		m.metrics.CheckFailures++
		m.metrics.LastCheckAt = started
		m.metrics.LastCheckDuration = m.clock.Since(started)
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.state.CurrentWeather = snap
	m.state.LastCheck = m.clock.Now()
	m.mu.Unlock()

	var changes []change.Change

	if ch := change.Detect(prev, snap, cfg.changeConfig()); ch != nil {
		changes = append(changes, *ch)

		m.mu.Lock()
		m.state.DetectedChanges = append(m.state.DetectedChanges, *ch)
		forecast := append([]weather.DailyForecast(nil), m.state.DailyForecast...)
		m.metrics.ChangesDetected++
		m.mu.Unlock()

		m.logger.Info().
			Str("trip_id", tripID).
			Str("kind", string(ch.Kind)).
			Str("severity", string(ch.Severity)).
			Str("from", ch.PreviousCondition).
			Str("to", ch.NewCondition).
			Msg("weather change detected")

		var acts []schedule.Activity
		if m.activities != nil {
			acts = m.activities.ActivitiesOn(ctx, snap.Time)
		}
		ev := trigger.Build(ch, snap, forecast, acts)
		ev.TripID = tripID

		if cfg.EnableAutoReshuffle {
			m.dispatchChange(ctx, ev)
		}
	}

	for _, alert := range alerting.Generate(snap, loc.City) {
		if !m.recordAlert(alert) {
			continue
		}
		m.logger.Info().
			Str("trip_id", tripID).
			Str("kind", string(alert.Kind)).
			Str("severity", string(alert.Severity)).
			Msg("weather alert raised")
		if cfg.alertAllowed(alert.Kind) {
			m.dispatchAlert(ctx, alert)
		}
	}

	m.refreshForecastIfDue(ctx, loc, cfg)

	m.mu.Lock()
	m.metrics.ChecksTotal++
	m.metrics.LastCheckAt = started
	m.metrics.LastCheckDuration = m.clock.Since(started)
	m.mu.Unlock()

	return changes
}

// recordAlert appends an alert to state unless an alert of the same kind is
// still in its window, suppressing per-tick duplicates. Reports whether the
// alert was recorded.
func (m *Monitor) recordAlert(alert alerting.Alert) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.state.Alerts {
		if existing.Kind == alert.Kind && existing.WindowEnd.After(alert.WindowStart) {
			return false
		}
	}
	m.state.Alerts = append(m.state.Alerts, alert)
	m.metrics.AlertsRaised++
	return true
}

// refreshForecastIfDue re-fetches the multi-day forecast at most once per
// ForecastRefreshInterval, regardless of poll cadence. A failed refresh
// keeps the previous forecast (stale-but-valid).
func (m *Monitor) refreshForecastIfDue(ctx context.Context, loc weather.Location, cfg Config) {
	m.mu.Lock()
	due := m.clock.Now().Sub(m.lastForecastRefresh) >= cfg.ForecastRefreshInterval
	m.mu.Unlock()
	if !due {
		return
	}

	forecast, err := m.provider.Forecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		m.logger.Warn().Err(err).Msg("forecast refresh failed, keeping previous forecast")
		return
	}

	m.mu.Lock()
	m.state.DailyForecast = forecast
	m.lastForecastRefresh = m.clock.Now()
	m.metrics.ForecastRefreshes++
	m.mu.Unlock()
}

// State returns a copy of the monitoring state.
func (m *Monitor) State() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return State{}, ErrNotInitialized
	}
	return m.state.clone(), nil
}

// Metrics returns a copy of the monitor metrics.
func (m *Monitor) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// CurrentViability classifies the most recent snapshot. Before any weather
// has been observed the verdict is unknown rather than optimistic, so
// consumers can tell "never observed" from "observed good".
func (m *Monitor) CurrentViability() viability.Verdict {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil || m.state.CurrentWeather == nil {
		return viability.Unknown("no weather observed yet")
	}
	return viability.Analyze(viability.FromSnapshot(m.state.CurrentWeather), m.cfg.viabilityConfig())
}

// ViabilityForDate classifies the forecast entry for the given calendar
// day, or returns an unknown verdict when no forecast covers it.
func (m *Monitor) ViabilityForDate(date time.Time) viability.Verdict {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return viability.Unknown("monitor not initialized")
	}
	for _, day := range m.state.DailyForecast {
		if sameDay(day.Date, date) {
			return viability.Analyze(viability.FromForecast(day), m.cfg.viabilityConfig())
		}
	}
	return viability.Unknown("no forecast available for date")
}

// DismissAlert removes an alert from state. Alerts are only ever removed
// this way; poll ticks never drop them.
func (m *Monitor) DismissAlert(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return ErrNotInitialized
	}
	for i, alert := range m.state.Alerts {
		if alert.ID == id {
			m.state.Alerts = append(m.state.Alerts[:i], m.state.Alerts[i+1:]...)
			return nil
		}
	}
	return ErrAlertNotFound
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
