package trigger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/activity"
	"github.com/roamcast/roamcast/internal/change"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/trigger"
	"github.com/roamcast/roamcast/internal/weather"
)

var detectedAt = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

func rainChange() *change.Change {
	return &change.Change{
		Kind:              change.KindPrecipitation,
		Severity:          change.SeverityHigh,
		Description:       "Rain starting",
		PreviousCondition: "Clear",
		NewCondition:      "Rain",
		AffectsOutdoor:    true,
		WindowStart:       detectedAt,
		WindowEnd:         detectedAt.Add(4 * time.Hour),
	}
}

func rainSnap() *weather.Snapshot {
	return &weather.Snapshot{
		Time:              detectedAt,
		Condition:         "Rain",
		Temperature:       19,
		PrecipProbability: 0.9,
	}
}

func slot(id string, cat activity.Category, startOffset, endOffset time.Duration) schedule.Activity {
	return schedule.Activity{
		SlotID:   id,
		Name:     id,
		Category: cat,
		Start:    detectedAt.Add(startOffset),
		End:      detectedAt.Add(endOffset),
	}
}

func TestBuildNormalizesChange(t *testing.T) {
	forecast := []weather.DailyForecast{{Date: detectedAt, Condition: "Rain"}}
	ev := trigger.Build(rainChange(), rainSnap(), forecast, nil)

	assert.Equal(t, change.KindPrecipitation, ev.Kind)
	assert.Equal(t, change.SeverityHigh, ev.Severity)
	assert.Equal(t, "Clear", ev.Weather.PreviousCondition)
	assert.Equal(t, "Rain", ev.Weather.CurrentCondition)
	assert.InDelta(t, 19.0, ev.Weather.Temperature, 0.001)
	assert.Len(t, ev.Weather.Forecast, 1)
	assert.Equal(t, detectedAt, ev.DetectedAt)
	assert.Empty(t, ev.AffectedSlotIDs)
}

func TestAffectedSlotsIntersectWindowAndExposure(t *testing.T) {
	activities := []schedule.Activity{
		slot("in-window-park", activity.CategoryPark, 1*time.Hour, 3*time.Hour),
		slot("in-window-museum", activity.CategoryMuseum, 1*time.Hour, 3*time.Hour),
		slot("after-window", activity.CategoryPark, 5*time.Hour, 7*time.Hour),
		slot("before-window", activity.CategoryPark, -3*time.Hour, -1*time.Hour),
		slot("overlapping-edge", activity.CategoryMarket, 3*time.Hour, 6*time.Hour),
	}

	ev := trigger.Build(rainChange(), rainSnap(), nil, activities)
	assert.ElementsMatch(t, []string{"in-window-park", "overlapping-edge"}, ev.AffectedSlotIDs)
}

func TestOutdoorOverrideControlsExposure(t *testing.T) {
	outdoor := true
	indoor := false

	forcedOut := slot("forced-outdoor", activity.CategoryMuseum, 1*time.Hour, 2*time.Hour)
	forcedOut.OutdoorOverride = &outdoor
	forcedIn := slot("forced-indoor", activity.CategoryPark, 1*time.Hour, 2*time.Hour)
	forcedIn.OutdoorOverride = &indoor

	ev := trigger.Build(rainChange(), rainSnap(), nil, []schedule.Activity{forcedOut, forcedIn})
	assert.Equal(t, []string{"forced-outdoor"}, ev.AffectedSlotIDs)
}

func TestWindowDefaultsWhenChangeHasNoBounds(t *testing.T) {
	ch := rainChange()
	ch.WindowStart = time.Time{}
	ch.WindowEnd = time.Time{}

	activities := []schedule.Activity{
		slot("soon", activity.CategoryPark, 1*time.Hour, 2*time.Hour),
		slot("tomorrow", activity.CategoryPark, 26*time.Hour, 28*time.Hour),
	}

	ev := trigger.Build(ch, rainSnap(), nil, activities)
	require.Len(t, ev.AffectedSlotIDs, 1)
	assert.Equal(t, "soon", ev.AffectedSlotIDs[0])
}
