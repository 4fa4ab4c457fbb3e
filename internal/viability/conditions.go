package viability

import (
	"strings"

	"github.com/roamcast/roamcast/internal/weather"
)

// Condition classification delegates to the shared weather helpers so every
// analyzer reads labels the same way.

func isThunderstorm(condition string) bool {
	return weather.IsThunderstorm(condition)
}

func hasPrecipitation(condition string) bool {
	return weather.HasPrecipitation(condition)
}

func isSnow(condition string) bool {
	return weather.IsSnow(condition)
}

// equalsRain matches a condition labelled plainly "rain", which degrades
// viability regardless of the stated probability.
func equalsRain(condition string) bool {
	return strings.EqualFold(strings.TrimSpace(condition), "rain")
}

// FromSnapshot adapts a snapshot to the analyzer's input shape.
func FromSnapshot(s *weather.Snapshot) Input {
	return Input{
		Condition:         s.Condition,
		Temperature:       s.Temperature,
		PrecipProbability: s.PrecipProbability,
		WindSpeed:         s.WindSpeed,
	}
}

// FromForecast adapts a daily forecast entry to the analyzer's input shape.
// The daytime maximum temperature is what outdoor plans experience.
func FromForecast(d weather.DailyForecast) Input {
	return Input{
		Condition:         d.Condition,
		Temperature:       d.TempMax,
		PrecipProbability: d.PrecipProbability,
		WindSpeed:         d.WindSpeed,
	}
}
