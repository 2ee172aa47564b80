package domain

// Represents one leg of a routed trip between two consecutive waypoints.
type RouteLeg struct {
	DistanceMiles float64
	DurationHours float64
}

// Represents the road route start → pickup → dropoff as returned by a
// route provider. Geometry is the full polyline in [lon, lat] order.
// It is immutable planning data and contains no side effects.
type Route struct {
	Geometry           []Coordinates
	TotalDistanceMiles float64
	TotalDurationHours float64
	Legs               []RouteLeg
}

const metersPerMile = 1609.344

// MetersToMiles converts a routing distance in meters to statute miles.
func MetersToMiles(meters float64) float64 { return meters / metersPerMile }
