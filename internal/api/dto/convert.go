package dto

import "trip-planner-service/internal/domain"

const dateLayout = "2006-01-02"

func NewSegmentResponses(segments []domain.DutySegment) []SegmentResponse {
	out := make([]SegmentResponse, 0, len(segments))
	for _, s := range segments {
		out = append(out, SegmentResponse{
			StartDatetime: domain.FormatTimestamp(s.Start),
			EndDatetime:   domain.FormatTimestamp(s.End),
			Status:        string(s.Status),
			Miles:         s.Miles,
			Note:          s.Note,
		})
	}
	return out
}

func NewDailyLogResponses(logs []domain.DailyLogEntry) []DailyLogResponse {
	out := make([]DailyLogResponse, 0, len(logs))
	for _, l := range logs {
		remarks := l.Remarks
		if remarks == nil {
			remarks = []string{}
		}
		out = append(out, DailyLogResponse{
			Date:     l.Date.Format(dateLayout),
			Segments: NewSegmentResponses(l.Segments),
			Totals: TotalsResponse{
				OffHours: l.Totals.OffDuty,
				SBHours:  l.Totals.SleeperBerth,
				DHours:   l.Totals.Driving,
				OnHours:  l.Totals.OnDutyNotDriving,
			},
			Miles:   l.Miles,
			Remarks: remarks,
		})
	}
	return out
}

func NewScheduleResponse(segments []domain.DutySegment, logs []domain.DailyLogEntry, warnings []string) ScheduleResponse {
	if warnings == nil {
		warnings = []string{}
	}
	return ScheduleResponse{
		Segments:  NewSegmentResponses(segments),
		DailyLogs: NewDailyLogResponses(logs),
		Warnings:  warnings,
	}
}

func newRouteResponse(r *domain.Route) *RouteResponse {
	if r == nil {
		return nil
	}

	coords := make([][]float64, 0, len(r.Geometry))
	for _, c := range r.Geometry {
		coords = append(coords, c.CoordsToList())
	}

	legs := make([]RouteLegResponse, 0, len(r.Legs))
	for _, l := range r.Legs {
		legs = append(legs, RouteLegResponse{DistanceMiles: l.DistanceMiles, DurationHours: l.DurationHours})
	}

	return &RouteResponse{
		Geometry:           GeometryResponse{Type: "LineString", Coordinates: coords},
		TotalDistanceMiles: r.TotalDistanceMiles,
		TotalDurationHours: r.TotalDurationHours,
		Legs:               legs,
	}
}

func newWeatherResponse(w *domain.Weather) *WeatherResponse {
	if w == nil {
		return nil
	}
	return &WeatherResponse{
		TemperatureC:     w.TemperatureC,
		WindspeedKmh:     w.WindspeedKmh,
		WindDirectionDeg: w.WindDirectionDeg,
		WeatherCode:      w.WeatherCode,
	}
}

func NewTripPlanResponse(p *domain.TripPlan) TripPlanResponse {
	stops := make([]StopResponse, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, StopResponse{
			Type:               string(s.Type),
			Lat:                s.Location.Lat,
			Lng:                s.Location.Lon,
			Label:              s.Label,
			EstimatedArrival:   domain.FormatTimestamp(s.EstimatedArrival),
			EstimatedDeparture: domain.FormatTimestamp(s.EstimatedDeparture),
		})
	}

	warnings := p.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return TripPlanResponse{
		ID:        p.ID,
		Route:     newRouteResponse(p.Route),
		Stops:     stops,
		Segments:  NewSegmentResponses(p.Segments),
		DailyLogs: NewDailyLogResponses(p.DailyLogs),
		Weather: TripWeatherResponse{
			Start:   newWeatherResponse(p.StartWeather),
			Dropoff: newWeatherResponse(p.DropoffWeather),
		},
		Warnings: warnings,
	}
}
