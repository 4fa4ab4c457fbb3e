package models

import (
	"time"

	"github.com/roamcast/roamcast/internal/activity"
	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/change"
	"github.com/roamcast/roamcast/internal/monitor"
	"github.com/roamcast/roamcast/internal/schedule"
	"github.com/roamcast/roamcast/internal/trip"
	"github.com/roamcast/roamcast/internal/viability"
	"github.com/roamcast/roamcast/internal/weather"
)

// TripCreateRequest is the payload for registering a trip.
type TripCreateRequest struct {
	City            string         `json:"city"`
	Country         string         `json:"country,omitempty"`
	StartDate       Timestamp      `json:"startDate"`
	EndDate         Timestamp      `json:"endDate"`
	Activities      []TripActivity `json:"activities,omitempty"`
	StartMonitoring bool           `json:"startMonitoring,omitempty"`
}

// TripActivity is one itinerary slot in API form.
type TripActivity struct {
	SlotID          string    `json:"slotId"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Start           Timestamp `json:"start"`
	End             Timestamp `json:"end"`
	OutdoorOverride *bool     `json:"outdoorOverride,omitempty"`
}

// ToSchedule converts API activities to the schedule representation.
func ToSchedule(activities []TripActivity) []schedule.Activity {
	out := make([]schedule.Activity, 0, len(activities))
	for _, a := range activities {
		out = append(out, schedule.Activity{
			SlotID:          a.SlotID,
			Name:            a.Name,
			Category:        activity.Category(a.Category),
			Start:           a.Start.Time(),
			End:             a.End.Time(),
			OutdoorOverride: a.OutdoorOverride,
		})
	}
	return out
}

// Trip is the API representation of a registered trip.
type Trip struct {
	ID         string         `json:"id"`
	City       string         `json:"city"`
	Country    string         `json:"country,omitempty"`
	Lat        float64        `json:"lat"`
	Lon        float64        `json:"lon"`
	StartDate  Timestamp      `json:"startDate"`
	EndDate    Timestamp      `json:"endDate"`
	Monitoring bool           `json:"monitoring"`
	Activities []TripActivity `json:"activities,omitempty"`
	CreatedAt  Timestamp      `json:"createdAt"`
	UpdatedAt  Timestamp      `json:"updatedAt"`
}

// NewTrip converts a stored trip to its API form.
func NewTrip(t *trip.Trip) Trip {
	out := Trip{
		ID:         t.ID,
		City:       t.City,
		Country:    t.Country,
		Lat:        t.Lat,
		Lon:        t.Lon,
		StartDate:  Timestamp(t.StartDate),
		EndDate:    Timestamp(t.EndDate),
		Monitoring: t.Monitoring,
		CreatedAt:  Timestamp(t.CreatedAt),
		UpdatedAt:  Timestamp(t.UpdatedAt),
	}
	for _, a := range t.Activities {
		out.Activities = append(out.Activities, TripActivity{
			SlotID:          a.SlotID,
			Name:            a.Name,
			Category:        string(a.Category),
			Start:           Timestamp(a.Start),
			End:             Timestamp(a.End),
			OutdoorOverride: a.OutdoorOverride,
		})
	}
	return out
}

// TripList is the response for listing monitored trips.
type TripList struct {
	TripIDs []string `json:"tripIds"`
}

// WeatherSnapshot is the API form of an observed weather snapshot.
type WeatherSnapshot struct {
	Time              Timestamp `json:"time"`
	Condition         string    `json:"condition"`
	TemperatureC      float64   `json:"temperatureC"`
	PrecipProbability float64   `json:"precipProbability"`
	Humidity          float64   `json:"humidity"`
	WindKph           float64   `json:"windKph"`
	Stale             bool      `json:"stale,omitempty"`
}

// NewWeatherSnapshot converts a snapshot to its API form.
func NewWeatherSnapshot(s *weather.Snapshot) *WeatherSnapshot {
	if s == nil {
		return nil
	}
	return &WeatherSnapshot{
		Time:              Timestamp(s.Time),
		Condition:         s.Condition,
		TemperatureC:      s.Temperature,
		PrecipProbability: s.PrecipProbability,
		Humidity:          s.Humidity,
		WindKph:           s.WindSpeed,
		Stale:             s.Stale,
	}
}

// DailyForecast is the API form of one forecast day.
type DailyForecast struct {
	Date              Timestamp `json:"date"`
	Condition         string    `json:"condition"`
	TempMinC          float64   `json:"tempMinC"`
	TempMaxC          float64   `json:"tempMaxC"`
	PrecipProbability float64   `json:"precipProbability"`
	WindKph           float64   `json:"windKph"`
}

// NewDailyForecast converts forecast entries to their API form.
func NewDailyForecast(days []weather.DailyForecast) []DailyForecast {
	out := make([]DailyForecast, 0, len(days))
	for _, d := range days {
		out = append(out, DailyForecast{
			Date:              Timestamp(d.Date),
			Condition:         d.Condition,
			TempMinC:          d.TempMin,
			TempMaxC:          d.TempMax,
			PrecipProbability: d.PrecipProbability,
			WindKph:           d.WindSpeed,
		})
	}
	return out
}

// Change is the API form of a detected weather change.
type Change struct {
	Kind              string    `json:"kind"`
	Severity          string    `json:"severity"`
	Description       string    `json:"description"`
	PreviousCondition string    `json:"previousCondition"`
	NewCondition      string    `json:"newCondition"`
	AffectsOutdoor    bool      `json:"affectsOutdoor"`
	WindowStart       Timestamp `json:"windowStart"`
	WindowEnd         Timestamp `json:"windowEnd"`
}

// NewChanges converts detected changes to their API form.
func NewChanges(changes []change.Change) []Change {
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		out = append(out, Change{
			Kind:              string(c.Kind),
			Severity:          string(c.Severity),
			Description:       c.Description,
			PreviousCondition: c.PreviousCondition,
			NewCondition:      c.NewCondition,
			AffectsOutdoor:    c.AffectsOutdoor,
			WindowStart:       Timestamp(c.WindowStart),
			WindowEnd:         Timestamp(c.WindowEnd),
		})
	}
	return out
}

// Alert is the API form of a weather alert.
type Alert struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	Severity        string    `json:"severity"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	WindowStart     Timestamp `json:"windowStart"`
	WindowEnd       Timestamp `json:"windowEnd"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// NewAlerts converts alerts to their API form.
func NewAlerts(alerts []alerting.Alert) []Alert {
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, Alert{
			ID:              a.ID,
			Kind:            string(a.Kind),
			Severity:        string(a.Severity),
			Title:           a.Title,
			Description:     a.Description,
			WindowStart:     Timestamp(a.WindowStart),
			WindowEnd:       Timestamp(a.WindowEnd),
			Recommendations: a.Recommendations,
		})
	}
	return out
}

// MonitorState is the API form of a trip's monitoring state.
type MonitorState struct {
	TripID         string           `json:"tripId"`
	City           string           `json:"city"`
	Country        string           `json:"country,omitempty"`
	IsMonitoring   bool             `json:"isMonitoring"`
	LastCheck      Timestamp        `json:"lastCheck"`
	CurrentWeather *WeatherSnapshot `json:"currentWeather,omitempty"`
	Forecast       []DailyForecast  `json:"forecast"`
	Changes        []Change         `json:"changes"`
	Alerts         []Alert          `json:"alerts"`
}

// NewMonitorState converts monitor state to its API form.
func NewMonitorState(s monitor.State) MonitorState {
	return MonitorState{
		TripID:         s.TripID,
		City:           s.Location.City,
		Country:        s.Location.Country,
		IsMonitoring:   s.IsMonitoring,
		LastCheck:      Timestamp(s.LastCheck),
		CurrentWeather: NewWeatherSnapshot(s.CurrentWeather),
		Forecast:       NewDailyForecast(s.DailyForecast),
		Changes:        NewChanges(s.DetectedChanges),
		Alerts:         NewAlerts(s.Alerts),
	}
}

// Viability is the API form of a viability verdict.
type Viability struct {
	Level           string   `json:"level"`
	Reason          string   `json:"reason,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// NewViability converts a verdict to its API form.
func NewViability(v viability.Verdict) Viability {
	return Viability{
		Level:           string(v.Level),
		Reason:          v.Reason,
		Recommendations: v.Recommendations,
	}
}

// Conflict is the API form of a flagged activity.
type Conflict struct {
	SlotID          string    `json:"slotId"`
	ActivityName    string    `json:"activityName"`
	ScheduledAt     Timestamp `json:"scheduledAt"`
	Condition       string    `json:"condition"`
	Viability       string    `json:"viability"`
	Reason          string    `json:"reason,omitempty"`
	SuggestedAction string    `json:"suggestedAction"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// HourlyEstimate is one synthetic hourly temperature point.
type HourlyEstimate struct {
	Time         Timestamp `json:"time"`
	TemperatureC float64   `json:"temperatureC"`
	Condition    string    `json:"condition"`
}

// SweepReport is the API form of a morning sweep result.
type SweepReport struct {
	SweptAt          Timestamp        `json:"sweptAt"`
	Day              Timestamp        `json:"day"`
	Location         string           `json:"location"`
	OverallViability Viability        `json:"overallViability"`
	Conflicts        []Conflict       `json:"conflicts"`
	Alerts           []Alert          `json:"alerts"`
	Hourly           []HourlyEstimate `json:"hourly"`
	Recommendations  []string         `json:"recommendations,omitempty"`
}

// NewSweepReport converts a sweep result to its API form.
func NewSweepReport(r *monitor.SweepResult) SweepReport {
	report := SweepReport{
		SweptAt:          Timestamp(r.SweptAt),
		Day:              Timestamp(r.Day),
		Location:         r.Location,
		OverallViability: NewViability(r.OverallViability),
		Conflicts:        make([]Conflict, 0, len(r.Conflicts)),
		Alerts:           NewAlerts(r.Alerts),
		Hourly:           make([]HourlyEstimate, 0, len(r.Hourly)),
		Recommendations:  r.Recommendations,
	}
	for _, c := range r.Conflicts {
		report.Conflicts = append(report.Conflicts, Conflict{
			SlotID:          c.SlotID,
			ActivityName:    c.ActivityName,
			ScheduledAt:     Timestamp(c.ScheduledAt),
			Condition:       c.Condition,
			Viability:       string(c.Viability),
			Reason:          c.Reason,
			SuggestedAction: string(c.SuggestedAction),
			Recommendations: c.Recommendations,
		})
	}
	for _, h := range r.Hourly {
		report.Hourly = append(report.Hourly, HourlyEstimate{
			Time:         Timestamp(h.Time),
			TemperatureC: h.Temperature,
			Condition:    h.Condition,
		})
	}
	return report
}

// CheckResult is the response for a manual check.
type CheckResult struct {
	CheckedAt Timestamp `json:"checkedAt"`
	Changes   []Change  `json:"changes"`
}

// ConfigPatchRequest is a partial monitoring config update. Durations are
// expressed in seconds.
type ConfigPatchRequest struct {
	CheckIntervalSeconds           *int64    `json:"checkIntervalSeconds,omitempty"`
	RainProbabilityThreshold       *float64  `json:"rainProbabilityThreshold,omitempty"`
	TemperatureChangeThreshold     *float64  `json:"temperatureChangeThreshold,omitempty"`
	WindSpeedThreshold             *float64  `json:"windSpeedThreshold,omitempty"`
	SevereAlertKinds               *[]string `json:"severeAlertKinds,omitempty"`
	EnableAutoReshuffle            *bool     `json:"enableAutoReshuffle,omitempty"`
	PeakTemperatureHour            *int      `json:"peakTemperatureHour,omitempty"`
	ForecastRefreshIntervalSeconds *int64    `json:"forecastRefreshIntervalSeconds,omitempty"`
}

// ToPatch converts the API patch to the monitor representation.
func (p ConfigPatchRequest) ToPatch() monitor.ConfigPatch {
	patch := monitor.ConfigPatch{
		RainProbabilityThreshold:   p.RainProbabilityThreshold,
		TemperatureChangeThreshold: p.TemperatureChangeThreshold,
		WindSpeedThreshold:         p.WindSpeedThreshold,
		EnableAutoReshuffle:        p.EnableAutoReshuffle,
		PeakTemperatureHour:        p.PeakTemperatureHour,
	}
	if p.CheckIntervalSeconds != nil {
		d := time.Duration(*p.CheckIntervalSeconds) * time.Second
		patch.CheckInterval = &d
	}
	if p.ForecastRefreshIntervalSeconds != nil {
		d := time.Duration(*p.ForecastRefreshIntervalSeconds) * time.Second
		patch.ForecastRefreshInterval = &d
	}
	if p.SevereAlertKinds != nil {
		kinds := make([]alerting.Kind, 0, len(*p.SevereAlertKinds))
		for _, k := range *p.SevereAlertKinds {
			kinds = append(kinds, alerting.Kind(k))
		}
		patch.SevereAlertKinds = &kinds
	}
	return patch
}

// MonitorMetrics is the API form of a monitor's counters.
type MonitorMetrics struct {
	ChecksTotal       int64     `json:"checksTotal"`
	CheckFailures     int64     `json:"checkFailures"`
	ChangesDetected   int64     `json:"changesDetected"`
	AlertsRaised      int64     `json:"alertsRaised"`
	ForecastRefreshes int64     `json:"forecastRefreshes"`
	LastCheckAt       Timestamp `json:"lastCheckAt"`
	LastCheckMillis   int64     `json:"lastCheckMillis"`
}

// NewMonitorMetrics converts monitor metrics to their API form.
func NewMonitorMetrics(m monitor.Metrics) MonitorMetrics {
	return MonitorMetrics{
		ChecksTotal:       m.ChecksTotal,
		CheckFailures:     m.CheckFailures,
		ChangesDetected:   m.ChangesDetected,
		AlertsRaised:      m.AlertsRaised,
		ForecastRefreshes: m.ForecastRefreshes,
		LastCheckAt:       Timestamp(m.LastCheckAt),
		LastCheckMillis:   m.LastCheckDuration.Milliseconds(),
	}
}
