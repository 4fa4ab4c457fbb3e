package schedule

import (
	"github.com/roamcast/roamcast/internal/activity"
	"github.com/roamcast/roamcast/internal/viability"
	"github.com/roamcast/roamcast/internal/weather"
)

// AnalyzeConflicts compares a day's scheduled activities against that day's
// forecast. When overall viability is good or fair there is nothing to flag
// and the result is empty regardless of the schedule. Otherwise every
// weather-exposed activity gets a conflict with a suggested remediation.
func AnalyzeConflicts(activities []Activity, day weather.DailyForecast, cfg viability.Config) []Conflict {
	overall := viability.Analyze(viability.FromForecast(day), cfg)
	if !viability.Degraded(overall.Level) {
		return nil
	}

	var conflicts []Conflict
	for _, act := range activities {
		dep, exposed := resolveExposure(act)
		if !exposed {
			continue
		}

		conflicts = append(conflicts, Conflict{
			SlotID:          act.SlotID,
			ActivityName:    act.Name,
			ScheduledAt:     act.Start,
			Condition:       day.Condition,
			Viability:       overall.Level,
			Reason:          overall.Reason,
			Recommendations: overall.Recommendations,
			SuggestedAction: suggestAction(overall.Level, dep),
		})
	}

	return conflicts
}

// resolveExposure decides whether an activity is weather-exposed and at what
// dependency level. An explicit override wins over the category classifier;
// an activity forced outdoor with an indoor category is treated as fully
// exposed.
func resolveExposure(act Activity) (activity.OutdoorDependency, bool) {
	dep := activity.Classify(act.Category)

	if act.OutdoorOverride != nil {
		if !*act.OutdoorOverride {
			return dep, false
		}
		if dep == activity.DependencyLow {
			dep = activity.DependencyHigh
		}
		return dep, true
	}

	return dep, dep != activity.DependencyLow
}

func suggestAction(level viability.Level, dep activity.OutdoorDependency) SuggestedAction {
	if level == viability.LevelImpossible {
		if dep == activity.DependencyHigh {
			return ActionCancel
		}
		return ActionSwapIndoor
	}
	// Overall poor.
	if dep == activity.DependencyHigh {
		return ActionSwapIndoor
	}
	return ActionAddPreparation
}
