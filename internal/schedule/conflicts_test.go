package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/activity"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/viability"
	"github.com/roamcast/roamcast/internal/weather"
)

var day = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

func forecast(condition string, tempMax, pop float64) weather.DailyForecast {
	return weather.DailyForecast{
		Date:              day,
		Condition:         condition,
		TempMin:           12,
		TempMax:           tempMax,
		PrecipProbability: pop,
	}
}

func act(slot string, cat activity.Category) schedule.Activity {
	return schedule.Activity{
		SlotID:   slot,
		Name:     string(cat),
		Category: cat,
		Start:    day.Add(10 * time.Hour),
		End:      day.Add(12 * time.Hour),
	}
}

func analyze(activities []schedule.Activity, f weather.DailyForecast) []schedule.Conflict {
	return schedule.AnalyzeConflicts(activities, f, viability.DefaultConfig())
}

func TestNoConflictsWhenViabilityGoodOrFair(t *testing.T) {
	activities := []schedule.Activity{
		act("s1", activity.CategoryPark),
		act("s2", activity.CategoryBeach),
	}

	assert.Empty(t, analyze(activities, forecast("Clear", 22, 0)))
	// Drizzle with low probability lands on fair.
	assert.Empty(t, analyze(activities, forecast("Drizzle", 22, 0.2)))
}

func TestIndoorActivitiesNeverConflict(t *testing.T) {
	activities := []schedule.Activity{
		act("s1", activity.CategoryMuseum),
		act("s2", activity.CategoryRestaurant),
	}

	assert.Empty(t, analyze(activities, forecast("Thunderstorm", 22, 1)))
}

func TestPoorDayActions(t *testing.T) {
	activities := []schedule.Activity{
		act("park", activity.CategoryPark),
		act("market", activity.CategoryMarket),
		act("museum", activity.CategoryMuseum),
	}

	conflicts := analyze(activities, forecast("Rain", 18, 0.9))
	require.Len(t, conflicts, 2)

	byID := map[string]schedule.Conflict{}
	for _, c := range conflicts {
		byID[c.SlotID] = c
	}

	assert.Equal(t, schedule.ActionSwapIndoor, byID["park"].SuggestedAction)
	assert.Equal(t, schedule.ActionAddPreparation, byID["market"].SuggestedAction)
}

func TestImpossibleDayActions(t *testing.T) {
	activities := []schedule.Activity{
		act("hike", activity.CategoryHiking),
		act("tour", activity.CategoryWalkingTour),
	}

	conflicts := analyze(activities, forecast("Thunderstorm", 22, 1))
	require.Len(t, conflicts, 2)

	byID := map[string]schedule.Conflict{}
	for _, c := range conflicts {
		byID[c.SlotID] = c
	}

	assert.Equal(t, schedule.ActionCancel, byID["hike"].SuggestedAction)
	assert.Equal(t, schedule.ActionSwapIndoor, byID["tour"].SuggestedAction)
}

func TestOutdoorOverride(t *testing.T) {
	outdoor := true
	indoor := false

	activities := []schedule.Activity{
		// Dinner on a rooftop: indoor category forced outdoor.
		{SlotID: "rooftop", Name: "Rooftop dinner", Category: activity.CategoryRestaurant,
			Start: day.Add(19 * time.Hour), End: day.Add(21 * time.Hour), OutdoorOverride: &outdoor},
		// Covered park pavilion: outdoor category forced indoor.
		{SlotID: "pavilion", Name: "Pavilion concert", Category: activity.CategoryPark,
			Start: day.Add(15 * time.Hour), End: day.Add(17 * time.Hour), OutdoorOverride: &indoor},
	}

	conflicts := analyze(activities, forecast("Thunderstorm", 22, 1))
	require.Len(t, conflicts, 1)
	assert.Equal(t, "rooftop", conflicts[0].SlotID)
	assert.Equal(t, schedule.ActionCancel, conflicts[0].SuggestedAction)
}

func TestConflictCarriesDayContext(t *testing.T) {
	conflicts := analyze([]schedule.Activity{act("park", activity.CategoryPark)}, forecast("Rain", 18, 0.9))
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, "Rain", c.Condition)
	assert.Equal(t, viability.LevelPoor, c.Viability)
	assert.NotEmpty(t, c.Reason)
	assert.NotEmpty(t, c.Recommendations)
	assert.Equal(t, day.Add(10*time.Hour), c.ScheduledAt)
}
