// Package trip provides persistence for monitored trips and their
// itineraries.
package trip

import (
	"errors"
	"time"

	"github.com/roamcast/roamcast/internal/schedule"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Trip is a registered trip under weather monitoring. The resolved
// coordinates are stored so a process restart does not need to geocode
// again.
type Trip struct {
	ID         string
	City       string
	Country    string
	Lat        float64
	Lon        float64
	StartDate  time.Time
	EndDate    time.Time
	Monitoring bool
	Activities []schedule.Activity
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ActivitiesOn returns the itinerary slots scheduled on the given calendar
// day.
func (t *Trip) ActivitiesOn(day time.Time) []schedule.Activity {
	y, m, d := day.Date()
	var out []schedule.Activity
	for _, a := range t.Activities {
		ay, am, ad := a.Start.Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	return out
}
