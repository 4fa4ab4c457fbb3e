package weather

import "context"

// Provider defines the interface for weather data providers.
// Implementations return ErrProviderUnavailable (or ErrLocationNotFound for
// geocoding) when the upstream has no data; they never panic past this
// boundary.
type Provider interface {
	// CurrentWeather fetches the current conditions for a location.
	CurrentWeather(ctx context.Context, lat, lon float64) (*Snapshot, error)

	// Forecast fetches the multi-day forecast for a location.
	Forecast(ctx context.Context, lat, lon float64) ([]DailyForecast, error)

	// GeocodeCity resolves a city name (optionally disambiguated by country)
	// to coordinates.
	GeocodeCity(ctx context.Context, city, country string) (*Location, error)

	// Name returns the provider name for logging.
	Name() string
}
