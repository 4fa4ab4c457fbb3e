package activity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roamcast/roamcast/internal/activity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		category activity.Category
		want     activity.OutdoorDependency
	}{
		{activity.CategoryPark, activity.DependencyHigh},
		{activity.CategoryHiking, activity.DependencyHigh},
		{activity.CategoryMarket, activity.DependencyMedium},
		{activity.CategoryWalkingTour, activity.DependencyMedium},
		{activity.CategoryMuseum, activity.DependencyLow},
		{activity.CategoryRestaurant, activity.DependencyLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, activity.Classify(tt.category))
		})
	}
}

func TestClassifyUnknownDefaultsToLow(t *testing.T) {
	assert.Equal(t, activity.DependencyLow, activity.Classify("hot_air_balloon"))
	assert.True(t, activity.IsIndoor("hot_air_balloon"))
}

func TestPredicates(t *testing.T) {
	assert.True(t, activity.IsOutdoor(activity.CategoryBeach))
	assert.False(t, activity.IsOutdoor(activity.CategoryMuseum))

	assert.True(t, activity.IsPartiallyOutdoor(activity.CategoryTerrace))
	assert.False(t, activity.IsPartiallyOutdoor(activity.CategoryPark))

	assert.True(t, activity.IsIndoor(activity.CategoryTheater))
	assert.False(t, activity.IsIndoor(activity.CategoryCycling))
}

func TestDependencyString(t *testing.T) {
	assert.Equal(t, "high", activity.DependencyHigh.String())
	assert.Equal(t, "medium", activity.DependencyMedium.String())
	assert.Equal(t, "low", activity.DependencyLow.String())
}
