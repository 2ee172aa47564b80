package dto

type LocationRequest struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address,omitempty"`
}

type TripPlanRequest struct {
	Start                 *LocationRequest `json:"start"`
	Pickup                *LocationRequest `json:"pickup"`
	Dropoff               *LocationRequest `json:"dropoff"`
	CurrentCycleUsedHours *float64         `json:"current_cycle_used_hours"`
	StartDatetime         *string          `json:"start_datetime"`
}

type GeometryResponse struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type RouteLegResponse struct {
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

type RouteResponse struct {
	Geometry           GeometryResponse   `json:"geometry"`
	TotalDistanceMiles float64            `json:"total_distance_miles"`
	TotalDurationHours float64            `json:"total_duration_hours"`
	Legs               []RouteLegResponse `json:"legs"`
}

type SegmentResponse struct {
	StartDatetime string  `json:"start_datetime"`
	EndDatetime   string  `json:"end_datetime"`
	Status        string  `json:"status"`
	Miles         float64 `json:"miles"`
	Note          string  `json:"note"`
}

type TotalsResponse struct {
	OffHours float64 `json:"OFF_hours"`
	SBHours  float64 `json:"SB_hours"`
	DHours   float64 `json:"D_hours"`
	OnHours  float64 `json:"ON_hours"`
}

type DailyLogResponse struct {
	Date     string            `json:"date"`
	Segments []SegmentResponse `json:"segments"`
	Totals   TotalsResponse    `json:"totals"`
	Miles    float64           `json:"miles"`
	Remarks  []string          `json:"remarks"`
}

type StopResponse struct {
	Type               string  `json:"type"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	Label              string  `json:"label"`
	EstimatedArrival   string  `json:"estimated_arrival"`
	EstimatedDeparture string  `json:"estimated_departure"`
}

type WeatherResponse struct {
	TemperatureC     *float64 `json:"temperature_c"`
	WindspeedKmh     *float64 `json:"windspeed_kmh"`
	WindDirectionDeg *float64 `json:"winddirection_deg"`
	WeatherCode      *int     `json:"weathercode"`
}

type TripWeatherResponse struct {
	Start   *WeatherResponse `json:"start"`
	Dropoff *WeatherResponse `json:"dropoff"`
}

type TripPlanResponse struct {
	ID        string              `json:"id,omitempty"`
	Route     *RouteResponse      `json:"route"`
	Stops     []StopResponse      `json:"stops"`
	Segments  []SegmentResponse   `json:"segments"`
	DailyLogs []DailyLogResponse  `json:"daily_logs"`
	Weather   TripWeatherResponse `json:"weather"`
	Warnings  []string            `json:"warnings"`
}

// ScheduleResponse is the engine and partitioner output without trip context.
type ScheduleResponse struct {
	Segments  []SegmentResponse  `json:"segments"`
	DailyLogs []DailyLogResponse `json:"daily_logs"`
	Warnings  []string           `json:"warnings"`
}
