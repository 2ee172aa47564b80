package domain

import "time"

type StopType string

const (
	FuelStop StopType = "fuel"
	RestStop StopType = "rest"
)

// Represents a fuel or rest marker placed along the route for display.
type Stop struct {
	Type               StopType
	Location           Coordinates
	Label              string
	EstimatedArrival   time.Time
	EstimatedDeparture time.Time
}

// Current conditions at a waypoint. Fields the provider omitted are nil.
type Weather struct {
	TemperatureC     *float64
	WindspeedKmh     *float64
	WindDirectionDeg *float64
	WeatherCode      *int
}

// Represents the full planning result for one trip request.
// ID is empty unless the plan was persisted.
type TripPlan struct {
	ID             string
	CreatedAt      time.Time
	StartTime      time.Time
	CycleHoursUsed float64
	Route          *Route
	Stops          []Stop
	Segments       []DutySegment
	DailyLogs      []DailyLogEntry
	StartWeather   *Weather
	DropoffWeather *Weather
	Warnings       []string
}
