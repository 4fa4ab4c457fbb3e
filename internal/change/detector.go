// Package change detects meaningful weather transitions between two
// snapshots of the same location. Detection is pure and first-match-wins:
// at most one change is reported per snapshot pair.
package change

import (
	"fmt"
	"math"
	"time"

	"github.com/roamcast/roamcast/internal/weather"
)

// Kind categorizes a detected change.
type Kind string

const (
	KindSevere        Kind = "severe"
	KindPrecipitation Kind = "precipitation"
	KindImprovement   Kind = "improvement"
	KindTemperature   Kind = "temperature"
)

// Severity grades a detected change.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// DefaultWindow is how long a detected change is assumed to affect the
// schedule when the snapshots give no better bound.
const DefaultWindow = 4 * time.Hour

// Config holds the change detection thresholds.
type Config struct {
	// TemperatureDelta in °C at or above which a swing counts as a change.
	TemperatureDelta float64
}

// DefaultConfig returns the default detection thresholds.
func DefaultConfig() Config {
	return Config{TemperatureDelta: 8}
}

// Change describes one detected weather transition.
type Change struct {
	Kind              Kind
	Severity          Severity
	Description       string
	PreviousCondition string
	NewCondition      string

	// AffectsOutdoor marks changes that flip the outdoor-safety picture.
	AffectsOutdoor bool

	// WindowStart/WindowEnd bound the period the change is expected to
	// affect scheduled activities.
	WindowStart time.Time
	WindowEnd   time.Time
}

// Detect compares two snapshots and returns the highest-priority change
// between them, or nil when nothing meaningful moved. It never fires on a
// first observation: both snapshots are required.
func Detect(prev, curr *weather.Snapshot, cfg Config) *Change {
	if prev == nil || curr == nil {
		return nil
	}

	base := Change{
		PreviousCondition: prev.Condition,
		NewCondition:      curr.Condition,
		WindowStart:       curr.Time,
		WindowEnd:         curr.Time.Add(DefaultWindow),
	}

	// Priority a: thunderstorm onset.
	if !weather.IsThunderstorm(prev.Condition) && weather.IsThunderstorm(curr.Condition) {
		c := base
		c.Kind = KindSevere
		c.Severity = SeverityCritical
		c.Description = "Thunderstorm moving in"
		c.AffectsOutdoor = true
		return &c
	}

	// Priority b: precipitation onset.
	if !weather.HasPrecipitation(prev.Condition) && weather.HasPrecipitation(curr.Condition) {
		c := base
		c.Kind = KindPrecipitation
		c.Severity = SeverityMedium
		if curr.PrecipProbability > 0.8 {
			c.Severity = SeverityHigh
		}
		c.Description = fmt.Sprintf("Rain starting (%.0f%% probability)", curr.PrecipProbability*100)
		c.AffectsOutdoor = true
		return &c
	}

	// Priority c: skies clearing after rain or storms.
	prevBad := weather.HasPrecipitation(prev.Condition) || weather.IsThunderstorm(prev.Condition)
	if prevBad && weather.IsCalm(curr.Condition) {
		c := base
		c.Kind = KindImprovement
		c.Severity = SeverityLow
		c.Description = "Conditions clearing up"
		return &c
	}

	// Priority d: temperature swing.
	delta := math.Abs(curr.Temperature - prev.Temperature)
	if delta >= cfg.TemperatureDelta {
		c := base
		c.Kind = KindTemperature
		c.Severity = SeverityMedium
		if delta >= 15 {
			c.Severity = SeverityHigh
		}
		c.Description = fmt.Sprintf("Temperature shifted %.1f°C to %.1f°C", delta, curr.Temperature)
		c.AffectsOutdoor = curr.Temperature > 35 || curr.Temperature < 0
		return &c
	}

	return nil
}
