package trip

import (
	"context"
	"time"

	"github.com/roamcast/roamcast/internal/schedule"
)

// Repository defines the interface for trip data persistence.
type Repository interface {
	// Get retrieves a trip by ID. Returns ErrTripNotFound if it doesn't
	// exist.
	Get(ctx context.Context, id string) (*Trip, error)

	// ListMonitoring retrieves every trip whose monitoring flag is set,
	// used to rehydrate monitors on process start.
	ListMonitoring(ctx context.Context) ([]*Trip, error)

	// Create creates a new trip.
	Create(ctx context.Context, trip *Trip) error

	// Update updates an existing trip.
	Update(ctx context.Context, trip *Trip) error

	// SetMonitoring flips the trip's monitoring flag.
	SetMonitoring(ctx context.Context, id string, monitoring bool) error

	// Delete deletes a trip by ID.
	Delete(ctx context.Context, id string) error
}

// ActivitySource adapts a stored trip's itinerary to the monitor's activity
// lookup. Missing trips yield an empty day rather than an error; the monitor
// treats the schedule as advisory.
type ActivitySource struct {
	repo   Repository
	tripID string
}

// NewActivitySource creates an activity source backed by the repository.
func NewActivitySource(repo Repository, tripID string) *ActivitySource {
	return &ActivitySource{repo: repo, tripID: tripID}
}

// ActivitiesOn returns the trip's slots scheduled on the given day.
func (s *ActivitySource) ActivitiesOn(ctx context.Context, day time.Time) []schedule.Activity {
	t, err := s.repo.Get(ctx, s.tripID)
	if err != nil {
		return nil
	}
	return t.ActivitiesOn(day)
}
