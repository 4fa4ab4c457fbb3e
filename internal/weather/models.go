// Package weather defines the weather value types shared by the disruption
// engine: point-in-time snapshots, daily forecast entries, and the provider
// interface they are fetched through.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrLocationNotFound    = errors.New("location not found")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Snapshot is an immutable observation of conditions at a point in time.
type Snapshot struct {
	// Time the observation was taken.
	Time time.Time

	// Condition is the provider's human-readable condition label,
	// e.g. "Clear", "Light Rain", "Thunderstorm".
	Condition string

	// Temperature in Celsius.
	Temperature float64

	// PrecipProbability is the probability of precipitation (0-1).
	PrecipProbability float64

	// Humidity percentage (0-100).
	Humidity float64

	// WindSpeed in km/h.
	WindSpeed float64

	// Stale is set when the snapshot is served from last-known-good state
	// after a provider failure, so callers can label it accordingly.
	Stale bool
}

// DailyForecast is a one-day forecast entry.
type DailyForecast struct {
	Date              time.Time
	Condition         string
	TempMin           float64 // Celsius
	TempMax           float64 // Celsius
	PrecipProbability float64 // 0-1
	WindSpeed         float64 // km/h, daily maximum
	Humidity          float64 // 0-100
}

// Location is a geocoded place a trip is monitored at.
type Location struct {
	City    string
	Country string
	Lat     float64
	Lon     float64
}

// ValidateCoordinates checks that a lat/lon pair is on the globe.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
