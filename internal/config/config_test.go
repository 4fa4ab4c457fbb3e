package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.Monitor.CheckInterval)
	assert.Equal(t, 0.6, cfg.Monitor.RainProbabilityThreshold)
	assert.True(t, cfg.Monitor.EnableAutoReshuffle)
	assert.False(t, cfg.PubSub.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("MONITOR_CHECK_INTERVAL", "15m")
	t.Setenv("MONITOR_RAIN_THRESHOLD", "0.8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.Monitor.CheckInterval)
	assert.Equal(t, 0.8, cfg.Monitor.RainProbabilityThreshold)
}

func TestLoadRejectsInvalidInterval(t *testing.T) {
	t.Setenv("MONITOR_CHECK_INTERVAL", "-5m")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadRejectsPubSubWithoutProject(t *testing.T) {
	t.Setenv("PUBSUB_ENABLED", "true")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Monitor.RainProbabilityThreshold = 1.5
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg.Monitor.RainProbabilityThreshold = 0.6
	cfg.Monitor.PeakTemperatureHour = 26
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestMonitorDefaults(t *testing.T) {
	t.Setenv("MONITOR_AUTO_RESHUFFLE", "false")
	t.Setenv("MONITOR_WIND_THRESHOLD", "30")

	cfg, err := Load()
	require.NoError(t, err)

	mc := cfg.MonitorDefaults()
	assert.False(t, mc.EnableAutoReshuffle)
	assert.Equal(t, 30.0, mc.WindSpeedThreshold)
	require.NoError(t, mc.Validate())
}
