package monitor

import (
	"time"

	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/change"
	"github.com/roamcast/roamcast/internal/weather"
)

// State is the aggregate monitoring state for one trip. It is mutated only
// through the monitor's own methods; reads get a copy.
type State struct {
	TripID          string
	Location        weather.Location
	LastCheck       time.Time
	CurrentWeather  *weather.Snapshot
	DailyForecast   []weather.DailyForecast
	DetectedChanges []change.Change
	Alerts          []alerting.Alert
	IsMonitoring    bool
}

// clone deep-copies the state so callers cannot mutate monitor internals.
func (s *State) clone() State {
	out := State{
		TripID:       s.TripID,
		Location:     s.Location,
		LastCheck:    s.LastCheck,
		IsMonitoring: s.IsMonitoring,
	}
	if s.CurrentWeather != nil {
		snap := *s.CurrentWeather
		out.CurrentWeather = &snap
	}
	out.DailyForecast = append([]weather.DailyForecast(nil), s.DailyForecast...)
	out.DetectedChanges = append([]change.Change(nil), s.DetectedChanges...)
	out.Alerts = append([]alerting.Alert(nil), s.Alerts...)
	return out
}

// Metrics tracks monitor statistics, mirroring what the poll loop has done.
type Metrics struct {
	ChecksTotal       int64
	CheckFailures     int64
	ChangesDetected   int64
	AlertsRaised      int64
	ForecastRefreshes int64
	LastCheckAt       time.Time
	LastCheckDuration time.Duration
}
