package trip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/schedule"
)

func sampleTrip(id string) *Trip {
	return &Trip{
		ID:        id,
		City:      "Lisbon",
		Country:   "Portugal",
		Lat:       38.72,
		Lon:       -9.14,
		StartDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		Activities: []schedule.Activity{
			{
				SlotID:   "slot_1",
				Name:     "Belem walk",
				Category: "walking_tour",
				Start:    time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
				End:      time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
			},
			{
				SlotID:   "slot_2",
				Name:     "Fado dinner",
				Category: "restaurant",
				Start:    time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC),
				End:      time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC),
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestInMemoryRepositoryCRUD(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "trip_1")
	assert.ErrorIs(t, err, ErrTripNotFound)

	created := sampleTrip("trip_1")
	require.NoError(t, repo.Create(ctx, created))

	got, err := repo.Get(ctx, "trip_1")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", got.City)
	assert.Len(t, got.Activities, 2)

	got.City = "Porto"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, "trip_1")
	require.NoError(t, err)
	assert.Equal(t, "Porto", got.City)

	assert.ErrorIs(t, repo.Update(ctx, sampleTrip("trip_missing")), ErrTripNotFound)

	require.NoError(t, repo.Delete(ctx, "trip_1"))
	_, err = repo.Get(ctx, "trip_1")
	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestInMemoryRepositoryListMonitoring(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	active := sampleTrip("trip_1")
	active.Monitoring = true
	idle := sampleTrip("trip_2")

	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, idle))

	trips, err := repo.ListMonitoring(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "trip_1", trips[0].ID)

	require.NoError(t, repo.SetMonitoring(ctx, "trip_2", true))
	trips, err = repo.ListMonitoring(ctx)
	require.NoError(t, err)
	assert.Len(t, trips, 2)

	assert.ErrorIs(t, repo.SetMonitoring(ctx, "trip_missing", true), ErrTripNotFound)
}

func TestTripActivitiesOn(t *testing.T) {
	tr := sampleTrip("trip_1")

	day1 := tr.ActivitiesOn(time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC))
	require.Len(t, day1, 1)
	assert.Equal(t, "slot_1", day1[0].SlotID)

	assert.Empty(t, tr.ActivitiesOn(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
}

func TestActivitySource(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleTrip("trip_1")))

	src := NewActivitySource(repo, "trip_1")
	acts := src.ActivitiesOn(ctx, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	require.Len(t, acts, 1)
	assert.Equal(t, "slot_2", acts[0].SlotID)

	missing := NewActivitySource(repo, "trip_ghost")
	assert.Empty(t, missing.ActivitiesOn(ctx, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)))
}
