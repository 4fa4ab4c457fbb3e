package alerting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/weather"
)

func snap(condition string, temp, wind float64) *weather.Snapshot {
	return &weather.Snapshot{
		Time:        time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		Condition:   condition,
		Temperature: temp,
		WindSpeed:   wind,
	}
}

func TestGenerateNothingOnCalmWeather(t *testing.T) {
	assert.Empty(t, alerting.Generate(snap("Clear", 21, 10), "Lisbon"))
}

func TestGenerateNilSnapshot(t *testing.T) {
	assert.Empty(t, alerting.Generate(nil, "Lisbon"))
}

func TestStormAlert(t *testing.T) {
	alerts := alerting.Generate(snap("Thunderstorm", 21, 10), "Lisbon")
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, alerting.KindStorm, a.Kind)
	assert.Equal(t, alerting.SeverityCritical, a.Severity)
	assert.Equal(t, []string{"Lisbon"}, a.AffectedAreas)
	assert.Contains(t, a.Recommendations, "Stay indoors")
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.WindowEnd.After(a.WindowStart))
}

func TestExtremeHeatAlert(t *testing.T) {
	alerts := alerting.Generate(snap("Clear", 39, 5), "Seville")
	require.Len(t, alerts, 1)
	assert.Equal(t, alerting.KindExtremeHeat, alerts[0].Kind)
	assert.Equal(t, alerting.SeverityHigh, alerts[0].Severity)

	// 38 exactly does not trip the rule.
	assert.Empty(t, alerting.Generate(snap("Clear", 38, 5), "Seville"))
}

func TestExtremeColdAlert(t *testing.T) {
	alerts := alerting.Generate(snap("Clear", -12, 5), "Tromsø")
	require.Len(t, alerts, 1)
	assert.Equal(t, alerting.KindExtremeCold, alerts[0].Kind)
}

func TestWindAlert(t *testing.T) {
	alerts := alerting.Generate(snap("Cloudy", 18, 28), "Porto")
	require.Len(t, alerts, 1)
	assert.Equal(t, alerting.KindWind, alerts[0].Kind)
	assert.Equal(t, alerting.SeverityMedium, alerts[0].Severity)
}

func TestRulesAreIndependent(t *testing.T) {
	// A windy thunderstorm in extreme heat raises all three.
	alerts := alerting.Generate(snap("Thunderstorm", 40, 35), "Phoenix")
	require.Len(t, alerts, 3)

	kinds := make(map[alerting.Kind]bool)
	for _, a := range alerts {
		kinds[a.Kind] = true
	}
	assert.True(t, kinds[alerting.KindStorm])
	assert.True(t, kinds[alerting.KindExtremeHeat])
	assert.True(t, kinds[alerting.KindWind])
}

func TestAlertIDsAreUnique(t *testing.T) {
	first := alerting.Generate(snap("Thunderstorm", 20, 5), "Lisbon")
	second := alerting.Generate(snap("Thunderstorm", 20, 5), "Lisbon")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)
}
