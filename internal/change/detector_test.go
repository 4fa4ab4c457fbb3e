package change_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/change"
	"github.com/roamcast/roamcast/internal/weather"
)

func snap(condition string, temp, pop float64) *weather.Snapshot {
	return &weather.Snapshot{
		Time:              time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Condition:         condition,
		Temperature:       temp,
		PrecipProbability: pop,
	}
}

func detect(prev, curr *weather.Snapshot) *change.Change {
	return change.Detect(prev, curr, change.DefaultConfig())
}

func TestDetectRequiresBothSnapshots(t *testing.T) {
	assert.Nil(t, detect(nil, snap("Thunderstorm", 20, 1)))
	assert.Nil(t, detect(snap("Clear", 20, 0), nil))
}

func TestDetectIdenticalSnapshotsIsNil(t *testing.T) {
	for _, s := range []*weather.Snapshot{
		snap("Clear", 20, 0),
		snap("Rain", 15, 0.9),
		snap("Thunderstorm", 22, 1),
	} {
		assert.Nil(t, detect(s, s))
	}
}

func TestThunderstormOnsetIsCritical(t *testing.T) {
	c := detect(snap("Cloudy", 21, 0.2), snap("Thunderstorm", 20, 0.9))
	require.NotNil(t, c)
	assert.Equal(t, change.KindSevere, c.Kind)
	assert.Equal(t, change.SeverityCritical, c.Severity)
	assert.True(t, c.AffectsOutdoor)
}

func TestPrecipitationOnsetSeverityByProbability(t *testing.T) {
	high := detect(snap("Clear", 20, 0), snap("Rain", 19, 0.9))
	require.NotNil(t, high)
	assert.Equal(t, change.KindPrecipitation, high.Kind)
	assert.Equal(t, change.SeverityHigh, high.Severity)
	assert.True(t, high.AffectsOutdoor)

	medium := detect(snap("Clear", 20, 0), snap("Rain", 19, 0.5))
	require.NotNil(t, medium)
	assert.Equal(t, change.SeverityMedium, medium.Severity)

	boundary := detect(snap("Clear", 20, 0), snap("Rain", 19, 0.8))
	require.NotNil(t, boundary)
	assert.Equal(t, change.SeverityMedium, boundary.Severity)
}

func TestThunderstormOutranksPrecipitation(t *testing.T) {
	// Both storm and rain rules would fire; first match wins.
	c := detect(snap("Clear", 20, 0), snap("Thunderstorm", 19, 0.95))
	require.NotNil(t, c)
	assert.Equal(t, change.KindSevere, c.Kind)
}

func TestImprovementAfterRain(t *testing.T) {
	c := detect(snap("Rain", 17, 0.8), snap("Partly Cloudy", 19, 0.1))
	require.NotNil(t, c)
	assert.Equal(t, change.KindImprovement, c.Kind)
	assert.Equal(t, change.SeverityLow, c.Severity)
	assert.False(t, c.AffectsOutdoor)
}

func TestTemperatureSwing(t *testing.T) {
	medium := detect(snap("Clear", 20, 0), snap("Clear", 29, 0))
	require.NotNil(t, medium)
	assert.Equal(t, change.KindTemperature, medium.Kind)
	assert.Equal(t, change.SeverityMedium, medium.Severity)
	assert.False(t, medium.AffectsOutdoor)

	high := detect(snap("Clear", 20, 0), snap("Clear", 37, 0))
	require.NotNil(t, high)
	assert.Equal(t, change.SeverityHigh, high.Severity)
	// 37°C crosses the extreme bound.
	assert.True(t, high.AffectsOutdoor)

	cold := detect(snap("Clear", 6, 0), snap("Clear", -3, 0))
	require.NotNil(t, cold)
	assert.True(t, cold.AffectsOutdoor)
}

func TestSmallSwingIsNotAChange(t *testing.T) {
	assert.Nil(t, detect(snap("Clear", 20, 0), snap("Clear", 25, 0)))
}

func TestChangeWindowDefaultsToFourHours(t *testing.T) {
	curr := snap("Rain", 19, 0.9)
	c := detect(snap("Clear", 20, 0), curr)
	require.NotNil(t, c)
	assert.Equal(t, curr.Time, c.WindowStart)
	assert.Equal(t, curr.Time.Add(4*time.Hour), c.WindowEnd)
}
