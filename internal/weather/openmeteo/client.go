// Package openmeteo implements the weather.Provider interface against the
// Open-Meteo forecast and geocoding APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamcast/roamcast/internal/provider/resilience"
	"github.com/roamcast/roamcast/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo forecast API base URL.
	DefaultBaseURL = "https://api.open-meteo.com/v1"

	// DefaultGeocodingURL is the Open-Meteo geocoding API base URL.
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL overrides the forecast API base URL (optional).
	BaseURL string

	// GeocodingURL overrides the geocoding API base URL (optional).
	GeocodingURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client.
type Client struct {
	baseURL      string
	geocodingURL string
	httpClient   *resilience.Client
	logger       zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	geocodingURL := cfg.GeocodingURL
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:      baseURL,
		geocodingURL: geocodingURL,
		httpClient:   httpClient,
		logger:       cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CurrentWeather fetches current conditions for a location.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf(
		"%s/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m&hourly=precipitation_probability&forecast_hours=1&timezone=UTC",
		c.baseURL, lat, lon)

	var payload forecastResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	snap := &weather.Snapshot{
		Time:        parseTime(payload.Current.Time),
		Condition:   conditionLabel(payload.Current.WeatherCode),
		Temperature: payload.Current.Temperature,
		Humidity:    payload.Current.RelativeHumidity,
		WindSpeed:   payload.Current.WindSpeed,
	}
	if len(payload.Hourly.PrecipProbability) > 0 {
		snap.PrecipProbability = payload.Hourly.PrecipProbability[0] / 100
	}

	return snap, nil
}

// Forecast fetches the multi-day forecast for a location.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]weather.DailyForecast, error) {
	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf(
		"%s/forecast?latitude=%.4f&longitude=%.4f&daily=weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max&timezone=UTC",
		c.baseURL, lat, lon)

	var payload forecastResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	days := make([]weather.DailyForecast, 0, len(payload.Daily.Time))
	for i, ts := range payload.Daily.Time {
		day := weather.DailyForecast{Date: parseDate(ts)}
		if i < len(payload.Daily.WeatherCode) {
			day.Condition = conditionLabel(payload.Daily.WeatherCode[i])
		}
		if i < len(payload.Daily.TempMax) {
			day.TempMax = payload.Daily.TempMax[i]
		}
		if i < len(payload.Daily.TempMin) {
			day.TempMin = payload.Daily.TempMin[i]
		}
		if i < len(payload.Daily.PrecipProbability) {
			day.PrecipProbability = payload.Daily.PrecipProbability[i] / 100
		}
		if i < len(payload.Daily.WindSpeedMax) {
			day.WindSpeed = payload.Daily.WindSpeedMax[i]
		}
		days = append(days, day)
	}

	return days, nil
}

// GeocodeCity resolves a city name to coordinates.
func (c *Client) GeocodeCity(ctx context.Context, city, country string) (*weather.Location, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")
	reqURL := c.geocodingURL + "/search?" + q.Encode()

	var payload geocodingResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	// The geocoding API has no country filter parameter worth relying on;
	// filter client-side when the caller disambiguated.
	for _, res := range payload.Results {
		if country != "" && res.Country != country {
			continue
		}
		return &weather.Location{
			City:    res.Name,
			Country: res.Country,
			Lat:     res.Latitude,
			Lon:     res.Longitude,
		}, nil
	}

	c.logger.Debug().Str("city", city).Str("country", country).Msg("geocoding returned no match")
	return nil, weather.ErrLocationNotFound
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("provider", ProviderName).Msg("provider request failed")
		return fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", weather.ErrProviderUnavailable, err)
	}
	return nil
}

// parseTime handles the minute-resolution ISO8601 stamps Open-Meteo returns.
func parseTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now().UTC()
}

func parseDate(s string) time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
