package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/viability"
	"github.com/roamcast/roamcast/internal/weather"
)

// HourlyEstimate is one synthetic hourly temperature point. It is a display
// estimate interpolated from the daily min/max, not measured data, and must
// not be treated as ground truth by consumers.
type HourlyEstimate struct {
	Time        time.Time
	Temperature float64
	Condition   string
}

// SweepResult is the report produced by one morning sweep. It is a
// snapshot return value; the monitor does not retain it.
type SweepResult struct {
	SweptAt          time.Time
	Location         string
	Day              time.Time
	OverallViability viability.Verdict
	Conflicts        []schedule.Conflict
	Alerts           []alerting.Alert
	Hourly           []HourlyEstimate
	Recommendations  []string
}

// PerformMorningSweep compares the day's schedule against its forecast.
// Weather is refreshed first (one check) so the report is never staler than
// the poll just run. When no forecast covers the requested day the sweep
// returns nil and logs a warning instead of failing the caller.
func (m *Monitor) PerformMorningSweep(ctx context.Context, day time.Time, activities []schedule.Activity) (*SweepResult, error) {
	m.mu.Lock()
	if m.state == nil {
		m.mu.Unlock()
		return nil, ErrNotInitialized
	}
	tripID := m.state.TripID
	m.mu.Unlock()

	m.Check(ctx)

	m.mu.Lock()
	var entry *weather.DailyForecast
	for i := range m.state.DailyForecast {
		if sameDay(m.state.DailyForecast[i].Date, day) {
			e := m.state.DailyForecast[i]
			entry = &e
			break
		}
	}
	location := m.state.Location.City
	alerts := alertsForDay(m.state.Alerts, day)
	cfg := m.cfg
	m.mu.Unlock()

	if entry == nil {
		m.logger.Warn().
			Str("trip_id", tripID).
			Time("day", day).
			Msg("no forecast for requested day, skipping sweep")
		return nil, nil
	}

	overall := viability.Analyze(viability.FromForecast(*entry), cfg.viabilityConfig())
	conflicts := schedule.AnalyzeConflicts(activities, *entry, cfg.viabilityConfig())

	result := &SweepResult{
		SweptAt:          m.clock.Now(),
		Location:         location,
		Day:              day,
		OverallViability: overall,
		Conflicts:        conflicts,
		Alerts:           alerts,
		Hourly:           hourlyBreakdown(*entry, day, cfg.PeakTemperatureHour),
		Recommendations:  sweepRecommendations(overall, conflicts),
	}

	m.logger.Info().
		Str("trip_id", tripID).
		Time("day", day).
		Str("viability", string(overall.Level)).
		Int("conflicts", len(conflicts)).
		Int("alerts", len(alerts)).
		Msg("morning sweep completed")

	return result, nil
}

// hourlyBreakdown interpolates 24 hourly temperature estimates between the
// daily min and max with a triangular profile peaking at peakHour.
func hourlyBreakdown(entry weather.DailyForecast, day time.Time, peakHour int) []HourlyEstimate {
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	span := entry.TempMax - entry.TempMin

	hours := make([]HourlyEstimate, 0, 24)
	for h := 0; h < 24; h++ {
		dist := float64(h - peakHour)
		if dist < 0 {
			dist = -dist
		}
		weight := 1 - dist/12
		if weight < 0 {
			weight = 0
		}
		hours = append(hours, HourlyEstimate{
			Time:        base.Add(time.Duration(h) * time.Hour),
			Temperature: entry.TempMin + span*weight,
			Condition:   entry.Condition,
		})
	}
	return hours
}

func alertsForDay(alerts []alerting.Alert, day time.Time) []alerting.Alert {
	var out []alerting.Alert
	for _, a := range alerts {
		if sameDay(a.WindowStart, day) || sameDay(a.WindowEnd, day) {
			out = append(out, a)
		}
	}
	return out
}

func sweepRecommendations(overall viability.Verdict, conflicts []schedule.Conflict) []string {
	recs := append([]string(nil), overall.Recommendations...)
	if len(conflicts) > 0 {
		recs = append(recs, fmt.Sprintf("Review %d flagged activities before heading out", len(conflicts)))
	}
	return recs
}
