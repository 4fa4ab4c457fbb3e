// Package schedule analyzes a day's planned activities against the forecast
// and flags the ones the weather puts at risk.
package schedule

import (
	"time"

	"github.com/roamcast/roamcast/internal/activity"
	"github.com/roamcast/roamcast/internal/viability"
)

// Activity is a read-only projection of one scheduled itinerary slot,
// supplied by the itinerary layer per analysis call. The engine never
// mutates the itinerary.
type Activity struct {
	SlotID   string            `json:"slot_id"`
	Name     string            `json:"name"`
	Category activity.Category `json:"category"`
	Start    time.Time         `json:"start"`
	End      time.Time         `json:"end"`

	// OutdoorOverride, when set, takes precedence over the category
	// classifier: true forces weather-exposed, false forces indoor.
	OutdoorOverride *bool `json:"outdoor_override,omitempty"`
}

// SuggestedAction is the remediation proposed for a conflicted activity.
type SuggestedAction string

const (
	ActionReschedule     SuggestedAction = "reschedule"
	ActionSwapIndoor     SuggestedAction = "swap_indoor"
	ActionAddPreparation SuggestedAction = "add_preparation"
	ActionCancel         SuggestedAction = "cancel"
)

// Conflict flags one scheduled activity as incompatible with the day's
// conditions. Conflicts are produced fresh per analysis, never stored.
type Conflict struct {
	SlotID          string
	ActivityName    string
	ScheduledAt     time.Time
	Condition       string
	Viability       viability.Level
	Reason          string
	Recommendations []string
	SuggestedAction SuggestedAction
}
