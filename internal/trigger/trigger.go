// Package trigger builds the normalized event handed to the downstream
// reshuffling engine. It is the sole boundary between weather disruption
// detection and whatever consumes it; nothing in this package knows how the
// event is acted on.
package trigger

import (
	"time"

	"github.com/roamcast/roamcast/internal/activity"
	"github.com/roamcast/roamcast/internal/change"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/weather"
)

// WeatherContext is the normalized weather picture attached to an event.
type WeatherContext struct {
	PreviousCondition string                  `json:"previousCondition"`
	CurrentCondition  string                  `json:"currentCondition"`
	Temperature       float64                 `json:"temperature"`
	PrecipProbability float64                 `json:"precipProbability"`
	Forecast          []weather.DailyForecast `json:"forecast,omitempty"`
}

// Event is the payload the reshuffling engine receives.
type Event struct {
	TripID          string          `json:"tripId"`
	Kind            change.Kind     `json:"kind"`
	Severity        change.Severity `json:"severity"`
	Description     string          `json:"description"`
	DetectedAt      time.Time       `json:"detectedAt"`
	Weather         WeatherContext  `json:"weather"`
	AffectedSlotIDs []string        `json:"affectedSlotIds"`
}

// Build normalizes a detected change into an Event. Affected slots are the
// weather-exposed activities whose scheduled time overlaps the change
// window; the window defaults to four hours after detection when the change
// carries no bounds.
func Build(ch *change.Change, snap *weather.Snapshot, forecast []weather.DailyForecast, activities []schedule.Activity) Event {
	start, end := ch.WindowStart, ch.WindowEnd
	if start.IsZero() {
		start = snap.Time
	}
	if end.IsZero() || !end.After(start) {
		end = start.Add(change.DefaultWindow)
	}

	ev := Event{
		Kind:        ch.Kind,
		Severity:    ch.Severity,
		Description: ch.Description,
		DetectedAt:  snap.Time,
		Weather: WeatherContext{
			PreviousCondition: ch.PreviousCondition,
			CurrentCondition:  ch.NewCondition,
			Temperature:       snap.Temperature,
			PrecipProbability: snap.PrecipProbability,
			Forecast:          forecast,
		},
	}

	for _, act := range activities {
		if !exposed(act) {
			continue
		}
		if act.Start.Before(end) && act.End.After(start) {
			ev.AffectedSlotIDs = append(ev.AffectedSlotIDs, act.SlotID)
		}
	}

	return ev
}

func exposed(act schedule.Activity) bool {
	if act.OutdoorOverride != nil {
		return *act.OutdoorOverride
	}
	return !activity.IsIndoor(act.Category)
}
