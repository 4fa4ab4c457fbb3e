// Package config loads service configuration from the environment. A .env
// file in the working directory is applied first without overriding real
// environment variables; values are then bound via envconfig tags and
// validated before the process touches any dependency.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/roamcast/roamcast/internal/monitor"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level configuration for the monitoring service.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"APP_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Weather   WeatherConfig
	Monitor   MonitorConfig
	PubSub    PubSubConfig
	Database  DatabaseConfig
	Telemetry TelemetryConfig
}

// WeatherConfig holds weather provider settings.
type WeatherConfig struct {
	BaseURL      string        `envconfig:"WEATHER_BASE_URL"`
	GeocodingURL string        `envconfig:"WEATHER_GEOCODING_URL"`
	Timeout      time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s"`
	MaxRetries   int           `envconfig:"WEATHER_MAX_RETRIES" default:"3"`
}

// MonitorConfig holds the default thresholds and cadence new monitors start
// from. Per-trip overrides happen through the API afterwards.
type MonitorConfig struct {
	CheckInterval              time.Duration `envconfig:"MONITOR_CHECK_INTERVAL" default:"30m"`
	RainProbabilityThreshold   float64       `envconfig:"MONITOR_RAIN_THRESHOLD" default:"0.6"`
	TemperatureChangeThreshold float64       `envconfig:"MONITOR_TEMP_CHANGE_THRESHOLD" default:"8"`
	WindSpeedThreshold         float64       `envconfig:"MONITOR_WIND_THRESHOLD" default:"25"`
	ForecastRefreshInterval    time.Duration `envconfig:"MONITOR_FORECAST_REFRESH_INTERVAL" default:"3h"`
	PeakTemperatureHour        int           `envconfig:"MONITOR_PEAK_TEMPERATURE_HOUR" default:"14"`
	EnableAutoReshuffle        bool          `envconfig:"MONITOR_AUTO_RESHUFFLE" default:"true"`
}

// PubSubConfig holds trigger event publishing settings.
type PubSubConfig struct {
	Enabled      bool   `envconfig:"PUBSUB_ENABLED" default:"false"`
	ProjectID    string `envconfig:"PUBSUB_PROJECT_ID"`
	TriggerTopic string `envconfig:"PUBSUB_TRIGGER_TOPIC" default:"weather-triggers"`
	AlertTopic   string `envconfig:"PUBSUB_ALERT_TOPIC"`
}

// DatabaseConfig toggles trip persistence. Connection details live in the
// database package since they follow its own env conventions.
type DatabaseConfig struct {
	Enabled bool `envconfig:"DB_ENABLED" default:"false"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled      bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
}

// Load reads configuration from the environment, applying a .env file first
// when one exists, and validates the result.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field the service would otherwise fail on at an
// awkward time. Bad values are rejected here, at startup, not at first use.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port must not be empty", ErrInvalid)
	}
	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("%w: weather timeout must be positive, got %s", ErrInvalid, c.Weather.Timeout)
	}
	if c.Weather.MaxRetries < 0 {
		return fmt.Errorf("%w: weather max retries must not be negative, got %d", ErrInvalid, c.Weather.MaxRetries)
	}
	if c.PubSub.Enabled && c.PubSub.ProjectID == "" {
		return fmt.Errorf("%w: pubsub project id is required when pubsub is enabled", ErrInvalid)
	}
	if err := c.MonitorDefaults().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// MonitorDefaults converts the env-bound monitor settings into the monitor
// package's config type.
func (c *Config) MonitorDefaults() monitor.Config {
	cfg := monitor.DefaultConfig()
	cfg.CheckInterval = c.Monitor.CheckInterval
	cfg.RainProbabilityThreshold = c.Monitor.RainProbabilityThreshold
	cfg.TemperatureChangeThreshold = c.Monitor.TemperatureChangeThreshold
	cfg.WindSpeedThreshold = c.Monitor.WindSpeedThreshold
	cfg.ForecastRefreshInterval = c.Monitor.ForecastRefreshInterval
	cfg.PeakTemperatureHour = c.Monitor.PeakTemperatureHour
	cfg.EnableAutoReshuffle = c.Monitor.EnableAutoReshuffle
	return cfg
}
