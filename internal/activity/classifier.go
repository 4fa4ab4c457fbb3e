// Package activity classifies itinerary activity categories by how exposed
// they are to the weather.
package activity

// Category tags an itinerary activity, e.g. "park" or "museum".
type Category string

// Known activity categories.
const (
	CategoryPark       Category = "park"
	CategoryBeach      Category = "beach"
	CategoryHiking     Category = "hiking"
	CategoryCycling    Category = "cycling"
	CategoryBoatTour   Category = "boat_tour"
	CategorySightsee   Category = "sightseeing"
	CategoryMarket     Category = "market"
	CategoryWalkingTour Category = "walking_tour"
	CategorySports     Category = "sports"
	CategoryTerrace    Category = "terrace"
	CategoryMuseum     Category = "museum"
	CategoryGallery    Category = "gallery"
	CategoryRestaurant Category = "restaurant"
	CategoryCafe       Category = "cafe"
	CategoryTheater    Category = "theater"
	CategoryShopping   Category = "shopping"
	CategorySpa        Category = "spa"
	CategoryAquarium   Category = "aquarium"
	CategoryTransit    Category = "transit"
)

// OutdoorDependency is a three-level classification of weather exposure.
type OutdoorDependency int

const (
	// DependencyLow means the activity is effectively indoor.
	DependencyLow OutdoorDependency = iota

	// DependencyMedium means the activity is partially exposed, e.g. a
	// market or walking tour that can duck under cover.
	DependencyMedium

	// DependencyHigh means the activity happens entirely outdoors.
	DependencyHigh
)

// String returns the dependency level label.
func (d OutdoorDependency) String() string {
	switch d {
	case DependencyHigh:
		return "high"
	case DependencyMedium:
		return "medium"
	default:
		return "low"
	}
}

// categoryDependencies is the fixed category classification table.
var categoryDependencies = map[Category]OutdoorDependency{
	CategoryPark:        DependencyHigh,
	CategoryBeach:       DependencyHigh,
	CategoryHiking:      DependencyHigh,
	CategoryCycling:     DependencyHigh,
	CategoryBoatTour:    DependencyHigh,
	CategorySports:      DependencyHigh,
	CategorySightsee:    DependencyMedium,
	CategoryMarket:      DependencyMedium,
	CategoryWalkingTour: DependencyMedium,
	CategoryTerrace:     DependencyMedium,
	CategoryTransit:     DependencyMedium,
	CategoryMuseum:      DependencyLow,
	CategoryGallery:     DependencyLow,
	CategoryRestaurant:  DependencyLow,
	CategoryCafe:        DependencyLow,
	CategoryTheater:     DependencyLow,
	CategoryShopping:    DependencyLow,
	CategorySpa:         DependencyLow,
	CategoryAquarium:    DependencyLow,
}

// Classify returns the outdoor dependency for a category.
// Unknown categories are treated as indoor-safe.
func Classify(c Category) OutdoorDependency {
	if dep, ok := categoryDependencies[c]; ok {
		return dep
	}
	return DependencyLow
}

// IsOutdoor reports whether the category is fully weather-exposed.
func IsOutdoor(c Category) bool {
	return Classify(c) == DependencyHigh
}

// IsPartiallyOutdoor reports whether the category is partially exposed.
func IsPartiallyOutdoor(c Category) bool {
	return Classify(c) == DependencyMedium
}

// IsIndoor reports whether the category is effectively indoor.
func IsIndoor(c Category) bool {
	return Classify(c) == DependencyLow
}
