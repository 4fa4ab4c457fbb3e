// Package alerting turns a weather snapshot into severity-graded alerts.
// Checks are independent: one snapshot can raise several alerts at once.
package alerting

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roamcast/roamcast/internal/weather"
)

// Kind categorizes an alert.
type Kind string

const (
	KindStorm       Kind = "storm"
	KindExtremeHeat Kind = "extreme_heat"
	KindExtremeCold Kind = "extreme_cold"
	KindHeavyRain   Kind = "heavy_rain"
	KindSnow        Kind = "snow"
	KindFog         Kind = "fog"
	KindWind        Kind = "wind"
)

// Severity grades an alert.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Generation thresholds.
const (
	extremeHeatTemp = 38  // °C
	extremeColdTemp = -10 // °C
	strongWindSpeed = 20  // km/h
)

// Alert is a raised weather alert. Alerts persist in monitor state until the
// caller dismisses them.
type Alert struct {
	ID              string    `json:"id"`
	Kind            Kind      `json:"kind"`
	Severity        Severity  `json:"severity"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	WindowStart     time.Time `json:"window_start"`
	WindowEnd       time.Time `json:"window_end"`
	AffectedAreas   []string  `json:"affected_areas,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// typeWindows is how long each alert kind is assumed to stay relevant.
var typeWindows = map[Kind]time.Duration{
	KindStorm:       4 * time.Hour,
	KindExtremeHeat: 8 * time.Hour,
	KindExtremeCold: 8 * time.Hour,
	KindWind:        6 * time.Hour,
}

// Generate evaluates the snapshot against every alert rule and returns the
// alerts that fired, zero or more per call.
func Generate(snap *weather.Snapshot, location string) []Alert {
	if snap == nil {
		return nil
	}

	var alerts []Alert

	if weather.IsThunderstorm(snap.Condition) {
		alerts = append(alerts, newAlert(snap, location, KindStorm, SeverityCritical,
			"Thunderstorm warning",
			"Thunderstorm conditions reported in the area",
			[]string{
				"Stay indoors",
				"Avoid open spaces and water",
				"Postpone outdoor activities",
			}))
	}

	if snap.Temperature > extremeHeatTemp {
		alerts = append(alerts, newAlert(snap, location, KindExtremeHeat, SeverityHigh,
			"Extreme heat warning",
			fmt.Sprintf("Temperature has reached %.1f°C", snap.Temperature),
			[]string{
				"Stay hydrated",
				"Seek shade and air conditioning",
				"Reschedule strenuous activities",
			}))
	}

	if snap.Temperature < extremeColdTemp {
		alerts = append(alerts, newAlert(snap, location, KindExtremeCold, SeverityHigh,
			"Extreme cold warning",
			fmt.Sprintf("Temperature has dropped to %.1f°C", snap.Temperature),
			[]string{
				"Dress in layers",
				"Limit time outdoors",
				"Watch for icy surfaces",
			}))
	}

	if snap.WindSpeed > strongWindSpeed {
		alerts = append(alerts, newAlert(snap, location, KindWind, SeverityMedium,
			"Strong wind advisory",
			fmt.Sprintf("Wind speeds of %.0f km/h", snap.WindSpeed),
			[]string{
				"Secure loose items",
				"Avoid exposed viewpoints and bridges",
			}))
	}

	return alerts
}

func newAlert(snap *weather.Snapshot, location string, kind Kind, severity Severity, title, description string, recs []string) Alert {
	window := typeWindows[kind]
	if window == 0 {
		window = 4 * time.Hour
	}
	return Alert{
		ID:              "alr_" + uuid.New().String()[:22],
		Kind:            kind,
		Severity:        severity,
		Title:           title,
		Description:     description,
		WindowStart:     snap.Time,
		WindowEnd:       snap.Time.Add(window),
		AffectedAreas:   []string{location},
		Recommendations: recs,
	}
}
