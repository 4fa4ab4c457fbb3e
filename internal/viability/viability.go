// Package viability classifies how suitable weather conditions are for
// outdoor activity. Analysis is a pure function of its inputs: the same
// snapshot and config always produce the same verdict.
package viability

import "fmt"

// Level classifies outdoor viability.
type Level string

const (
	LevelGood       Level = "good"
	LevelFair       Level = "fair"
	LevelPoor       Level = "poor"
	LevelImpossible Level = "impossible"

	// LevelUnknown is returned by reads before any weather has been
	// observed. The analyzer itself never produces it.
	LevelUnknown Level = "unknown"
)

// rank orders levels by severity for escalation-only updates.
func rank(l Level) int {
	switch l {
	case LevelGood:
		return 0
	case LevelFair:
		return 1
	case LevelPoor:
		return 2
	case LevelImpossible:
		return 3
	default:
		return -1
	}
}

// Degraded reports whether the level calls for conflict analysis.
func Degraded(l Level) bool {
	return l == LevelPoor || l == LevelImpossible
}

// Input are the weather fields the analyzer evaluates. Both current
// snapshots and daily forecast entries reduce to this shape.
type Input struct {
	Condition         string
	Temperature       float64 // Celsius
	PrecipProbability float64 // 0-1
	WindSpeed         float64 // km/h
}

// Config holds the thresholds the rules evaluate against.
type Config struct {
	// RainProbability above which rain degrades viability to poor.
	RainProbability float64

	// WindSpeed in km/h above which wind escalates the verdict one step.
	WindSpeed float64
}

// DefaultConfig returns the default analysis thresholds.
func DefaultConfig() Config {
	return Config{
		RainProbability: 0.6,
		WindSpeed:       25,
	}
}

// Verdict is the result of a viability analysis. Recommendations accumulate
// across every rule that matched; Reason reflects the most severe one.
type Verdict struct {
	Level           Level
	Reason          string
	Recommendations []string
}

// Unknown is the verdict for reads with no observed weather.
func Unknown(reason string) Verdict {
	return Verdict{Level: LevelUnknown, Reason: reason}
}

// Analyze evaluates the escalation rules in order. Later rules may raise the
// level but never lower it; the thunderstorm rule short-circuits everything
// that follows.
func Analyze(in Input, cfg Config) Verdict {
	v := Verdict{
		Level:  LevelGood,
		Reason: "Conditions look good for outdoor activities",
	}

	// Rule 1: thunderstorm ends the discussion.
	if isThunderstorm(in.Condition) {
		return Verdict{
			Level:  LevelImpossible,
			Reason: "Thunderstorm conditions make outdoor activities unsafe",
			Recommendations: []string{
				"Stay indoors",
				"Move outdoor activities to covered venues",
			},
		}
	}

	switch {
	// Rule 2: rain or drizzle.
	case hasPrecipitation(in.Condition):
		if in.PrecipProbability > cfg.RainProbability || equalsRain(in.Condition) {
			v.escalate(LevelPoor, fmt.Sprintf("High chance of rain (%.0f%%)", in.PrecipProbability*100))
			v.recommend("Plan indoor alternatives")
		} else {
			v.escalate(LevelFair, "Light rain possible")
			v.recommend("Carry an umbrella")
		}

	// Rule 3: snow.
	case isSnow(in.Condition):
		v.escalate(LevelPoor, "Snowfall expected")
		v.recommend("Prefer indoor activities", "Dress for snow if heading out")
	}

	// Rule 4: temperature bands. Advisories append whether or not the level
	// moves.
	switch {
	case in.Temperature > 35:
		v.escalate(LevelPoor, fmt.Sprintf("Extreme heat (%.1f°C)", in.Temperature))
		v.recommend("Stay hydrated", "Avoid midday sun")
	case in.Temperature >= 30:
		if v.Level == LevelGood {
			v.escalate(LevelFair, fmt.Sprintf("Hot weather (%.1f°C)", in.Temperature))
		}
		v.recommend("Stay hydrated")
	case in.Temperature < 0:
		v.escalate(LevelPoor, fmt.Sprintf("Freezing temperatures (%.1f°C)", in.Temperature))
		v.recommend("Dress warmly", "Limit time outdoors")
	case in.Temperature < 5:
		if v.Level == LevelGood {
			v.escalate(LevelFair, fmt.Sprintf("Cold weather (%.1f°C)", in.Temperature))
		}
		v.recommend("Dress warmly")
	}

	// Rule 5: wind escalates exactly one step and takes over the reason.
	if in.WindSpeed > cfg.WindSpeed {
		switch v.Level {
		case LevelGood:
			v.Level = LevelFair
		case LevelFair:
			v.Level = LevelPoor
		}
		v.Reason = fmt.Sprintf("Strong wind (%.0f km/h)", in.WindSpeed)
		v.recommend("Secure loose items", "Avoid exposed viewpoints")
	}

	return v
}

// escalate raises the level if the candidate outranks the current one and
// updates the reason only when it does.
func (v *Verdict) escalate(to Level, reason string) {
	if rank(to) > rank(v.Level) {
		v.Level = to
		v.Reason = reason
	}
}

func (v *Verdict) recommend(recs ...string) {
	v.Recommendations = append(v.Recommendations, recs...)
}
