package monitor_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/monitor"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/viability"
	"github.com/roamcast/roamcast/internal/weather"
)

var sweepDay = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

func TestMorningSweepFlagsExposedActivities(t *testing.T) {
	provider := newFakeProvider()
	provider.forecast = []weather.DailyForecast{
		{Date: sweepDay, Condition: "Rain", TempMin: 14, TempMax: 20, PrecipProbability: 0.85},
	}
	m := initialized(t, provider, clockwork.NewFakeClock())

	activities := []schedule.Activity{
		{SlotID: "slot_1", Name: "Miradouro walk", Category: "sightseeing", Start: sweepDay.Add(10 * time.Hour), End: sweepDay.Add(12 * time.Hour)},
		{SlotID: "slot_2", Name: "Tile museum", Category: "museum", Start: sweepDay.Add(14 * time.Hour), End: sweepDay.Add(16 * time.Hour)},
	}

	result, err := m.PerformMorningSweep(context.Background(), sweepDay, activities)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Lisbon", result.Location)
	assert.Equal(t, viability.LevelPoor, result.OverallViability.Level)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "slot_1", result.Conflicts[0].SlotID)
	assert.Equal(t, schedule.ActionSwapIndoor, result.Conflicts[0].SuggestedAction)

	assert.Contains(t, result.Recommendations, "Review 1 flagged activities before heading out")
}

func TestMorningSweepHourlyBreakdown(t *testing.T) {
	provider := newFakeProvider()
	provider.forecast = []weather.DailyForecast{
		{Date: sweepDay, Condition: "Clear", TempMin: 10, TempMax: 22},
	}
	m := initialized(t, provider, clockwork.NewFakeClock())

	result, err := m.PerformMorningSweep(context.Background(), sweepDay, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Hourly, 24)

	// Triangular profile: max at the peak hour, min twelve hours away.
	assert.InDelta(t, 22.0, result.Hourly[14].Temperature, 0.001)
	assert.InDelta(t, 10.0, result.Hourly[2].Temperature, 0.001)
	assert.InDelta(t, 16.0, result.Hourly[8].Temperature, 0.001)

	for i, h := range result.Hourly {
		assert.Equal(t, i, h.Time.Hour())
		assert.Equal(t, "Clear", h.Condition)
		assert.GreaterOrEqual(t, h.Temperature, 10.0)
		assert.LessOrEqual(t, h.Temperature, 22.0)
	}
}

func TestMorningSweepMissingForecastDay(t *testing.T) {
	provider := newFakeProvider()
	m := initialized(t, provider, clockwork.NewFakeClock())

	result, err := m.PerformMorningSweep(context.Background(), sweepDay.AddDate(0, 1, 0), nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestMorningSweepRequiresInitialize(t *testing.T) {
	m := newTestMonitor(t, newFakeProvider(), clockwork.NewFakeClock())

	_, err := m.PerformMorningSweep(context.Background(), sweepDay, nil)
	assert.ErrorIs(t, err, monitor.ErrNotInitialized)
}

func TestMorningSweepIncludesDayAlerts(t *testing.T) {
	provider := newFakeProvider()
	provider.snap = weather.Snapshot{
		Time:        sweepDay.Add(8 * time.Hour),
		Condition:   "Thunderstorm",
		Temperature: 20,
	}
	provider.forecast = []weather.DailyForecast{
		{Date: sweepDay, Condition: "Thunderstorm", TempMin: 15, TempMax: 21},
	}
	m := initialized(t, provider, clockwork.NewFakeClock())

	result, err := m.PerformMorningSweep(context.Background(), sweepDay, nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, viability.LevelImpossible, result.OverallViability.Level)
}
