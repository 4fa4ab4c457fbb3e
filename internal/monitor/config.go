package monitor

import (
	"errors"
	"fmt"
	"time"

	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/change"
	"github.com/roamcast/roamcast/internal/viability"
)

// ErrInvalidConfig is returned when a config fails validation. Invalid
// values are rejected eagerly: a zero or negative interval would silently
// break the single-timer guarantee.
var ErrInvalidConfig = errors.New("invalid monitor config")

// Config holds the per-trip monitoring configuration. It is treated as an
// immutable snapshot: UpdateConfig replaces it wholesale.
type Config struct {
	// CheckInterval is the polling cadence.
	CheckInterval time.Duration

	// RainProbabilityThreshold above which rain degrades viability (0-1).
	RainProbabilityThreshold float64

	// TemperatureChangeThreshold in °C for change detection.
	TemperatureChangeThreshold float64

	// WindSpeedThreshold in km/h above which wind degrades viability.
	WindSpeedThreshold float64

	// SevereAlertKinds restricts which alert kinds are dispatched to
	// listeners. Empty means all kinds. Alerts are recorded in state either
	// way.
	SevereAlertKinds []alerting.Kind

	// EnableAutoReshuffle gates trigger dispatch to change listeners.
	// Detected changes are always recorded in state.
	EnableAutoReshuffle bool

	// PeakTemperatureHour is the hour (0-23) the synthetic hourly breakdown
	// peaks at.
	PeakTemperatureHour int

	// ForecastRefreshInterval debounces multi-day forecast refreshes,
	// independent of the poll cadence.
	ForecastRefreshInterval time.Duration
}

// DefaultConfig returns the default monitoring configuration.
func DefaultConfig() Config {
	return Config{
		CheckInterval:              30 * time.Minute,
		RainProbabilityThreshold:   0.6,
		TemperatureChangeThreshold: 8,
		WindSpeedThreshold:         25,
		EnableAutoReshuffle:        true,
		PeakTemperatureHour:        14,
		ForecastRefreshInterval:    3 * time.Hour,
	}
}

// Validate checks the configuration. All failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if c.CheckInterval <= 0 {
		return fmt.Errorf("%w: check interval must be positive, got %s", ErrInvalidConfig, c.CheckInterval)
	}
	if c.RainProbabilityThreshold < 0 || c.RainProbabilityThreshold > 1 {
		return fmt.Errorf("%w: rain probability threshold must be in [0,1], got %v", ErrInvalidConfig, c.RainProbabilityThreshold)
	}
	if c.TemperatureChangeThreshold <= 0 {
		return fmt.Errorf("%w: temperature change threshold must be positive, got %v", ErrInvalidConfig, c.TemperatureChangeThreshold)
	}
	if c.WindSpeedThreshold <= 0 {
		return fmt.Errorf("%w: wind speed threshold must be positive, got %v", ErrInvalidConfig, c.WindSpeedThreshold)
	}
	if c.PeakTemperatureHour < 0 || c.PeakTemperatureHour > 23 {
		return fmt.Errorf("%w: peak temperature hour must be in [0,23], got %d", ErrInvalidConfig, c.PeakTemperatureHour)
	}
	if c.ForecastRefreshInterval <= 0 {
		return fmt.Errorf("%w: forecast refresh interval must be positive, got %s", ErrInvalidConfig, c.ForecastRefreshInterval)
	}
	return nil
}

// ConfigPatch is a partial config update. Nil fields keep the current value.
type ConfigPatch struct {
	CheckInterval              *time.Duration
	RainProbabilityThreshold   *float64
	TemperatureChangeThreshold *float64
	WindSpeedThreshold         *float64
	SevereAlertKinds           *[]alerting.Kind
	EnableAutoReshuffle        *bool
	PeakTemperatureHour        *int
	ForecastRefreshInterval    *time.Duration
}

// Apply merges a patch into the config, returning the merged copy.
func (c Config) Apply(p ConfigPatch) Config {
	if p.CheckInterval != nil {
		c.CheckInterval = *p.CheckInterval
	}
	if p.RainProbabilityThreshold != nil {
		c.RainProbabilityThreshold = *p.RainProbabilityThreshold
	}
	if p.TemperatureChangeThreshold != nil {
		c.TemperatureChangeThreshold = *p.TemperatureChangeThreshold
	}
	if p.WindSpeedThreshold != nil {
		c.WindSpeedThreshold = *p.WindSpeedThreshold
	}
	if p.SevereAlertKinds != nil {
		c.SevereAlertKinds = append([]alerting.Kind(nil), (*p.SevereAlertKinds)...)
	}
	if p.EnableAutoReshuffle != nil {
		c.EnableAutoReshuffle = *p.EnableAutoReshuffle
	}
	if p.PeakTemperatureHour != nil {
		c.PeakTemperatureHour = *p.PeakTemperatureHour
	}
	if p.ForecastRefreshInterval != nil {
		c.ForecastRefreshInterval = *p.ForecastRefreshInterval
	}
	return c
}

func (c Config) viabilityConfig() viability.Config {
	return viability.Config{
		RainProbability: c.RainProbabilityThreshold,
		WindSpeed:       c.WindSpeedThreshold,
	}
}

func (c Config) changeConfig() change.Config {
	return change.Config{TemperatureDelta: c.TemperatureChangeThreshold}
}

// alertAllowed applies the severe-alert allowlist.
func (c Config) alertAllowed(kind alerting.Kind) bool {
	if len(c.SevereAlertKinds) == 0 {
		return true
	}
	for _, k := range c.SevereAlertKinds {
		if k == kind {
			return true
		}
	}
	return false
}
