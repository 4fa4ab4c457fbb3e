package weather

import "strings"

// Condition labels arrive as free-form provider strings, so classification is
// substring-based and case-insensitive. The helpers below are the single
// source of truth for how the engine reads a condition label; the analyzers
// all go through them.

// IsThunderstorm reports whether the label describes thunderstorm conditions.
func IsThunderstorm(condition string) bool {
	return strings.Contains(strings.ToLower(condition), "thunderstorm")
}

// HasPrecipitation reports whether the label describes rain or drizzle.
// Thunderstorms are handled separately and deliberately excluded here.
func HasPrecipitation(condition string) bool {
	c := strings.ToLower(condition)
	if strings.Contains(c, "thunderstorm") {
		return false
	}
	return strings.Contains(c, "rain") || strings.Contains(c, "drizzle") ||
		strings.Contains(c, "shower")
}

// IsSnow reports whether the label describes snowfall.
func IsSnow(condition string) bool {
	return strings.Contains(strings.ToLower(condition), "snow")
}

// IsFog reports whether the label describes fog or mist.
func IsFog(condition string) bool {
	c := strings.ToLower(condition)
	return strings.Contains(c, "fog") || strings.Contains(c, "mist")
}

// IsCalm reports whether the label describes clear or merely cloudy skies,
// i.e. conditions that count as an improvement after rain or storms.
func IsCalm(condition string) bool {
	c := strings.ToLower(condition)
	return strings.Contains(c, "clear") || strings.Contains(c, "sun") ||
		strings.Contains(c, "cloud")
}
