package monitor

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/roamcast/roamcast/internal/weather"
)

// RegistryConfig holds the shared dependencies every monitor is built with.
type RegistryConfig struct {
	Provider weather.Provider
	Logger   zerolog.Logger
	Clock    clockwork.Clock

	// ActivitySourceFor builds the per-trip itinerary lookup. Nil means
	// monitors run without schedule awareness.
	ActivitySourceFor func(tripID string) ActivitySource

	// Defaults is the config new monitors start from. Zero value uses
	// DefaultConfig.
	Defaults Config

	// ChangeListeners and AlertListeners are attached to every monitor the
	// registry creates.
	ChangeListeners []ChangeListener
	AlertListeners  []AlertListener
}

// Registry owns one monitor per trip. It is the explicit replacement for a
// process-wide singleton: the host application constructs and injects it.
type Registry struct {
	cfg RegistryConfig

	mu       sync.Mutex
	monitors map[string]*Monitor
}

// NewRegistry creates an empty monitor registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Defaults.CheckInterval == 0 {
		cfg.Defaults = DefaultConfig()
	}
	return &Registry{
		cfg:      cfg,
		monitors: make(map[string]*Monitor),
	}
}

// Get returns the monitor for a trip, if one exists.
func (r *Registry) Get(tripID string) (*Monitor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.monitors[tripID]
	return m, ok
}

// GetOrCreate returns the trip's monitor, creating one on first use.
func (r *Registry) GetOrCreate(tripID string) (*Monitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.monitors[tripID]; ok {
		return m, nil
	}

	var activities ActivitySource
	if r.cfg.ActivitySourceFor != nil {
		activities = r.cfg.ActivitySourceFor(tripID)
	}

	m, err := New(Options{
		Provider:   r.cfg.Provider,
		Logger:     r.cfg.Logger.With().Str("trip_id", tripID).Logger(),
		Clock:      r.cfg.Clock,
		Activities: activities,
		Config:     r.cfg.Defaults,
	})
	if err != nil {
		return nil, err
	}
	for _, l := range r.cfg.ChangeListeners {
		m.OnWeatherChange(l)
	}
	for _, l := range r.cfg.AlertListeners {
		m.OnWeatherAlert(l)
	}

	r.monitors[tripID] = m
	return m, nil
}

// Remove stops and discards the trip's monitor. The monitor state is gone
// once the trip session ends; there is no separate destructor.
func (r *Registry) Remove(tripID string) {
	r.mu.Lock()
	m, ok := r.monitors[tripID]
	delete(r.monitors, tripID)
	r.mu.Unlock()

	if ok {
		m.Stop()
	}
}

// TripIDs lists the trips currently monitored.
func (r *Registry) TripIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.monitors))
	for id := range r.monitors {
		ids = append(ids, id)
	}
	return ids
}

// StopAll stops every monitor's timer, for graceful shutdown. Monitors stay
// registered and can be restarted.
func (r *Registry) StopAll() {
	r.mu.Lock()
	monitors := make([]*Monitor, 0, len(r.monitors))
	for _, m := range r.monitors {
		monitors = append(monitors, m)
	}
	r.mu.Unlock()

	for _, m := range monitors {
		m.Stop()
	}
}
