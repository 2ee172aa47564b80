package services

import (
	"fmt"
	"strings"
	"trip-planner-service/internal/domain"
)

// PlaceStops turns fuel and rest segments into map markers.
//
// Stops are spread evenly along the route geometry rather than placed at the
// true position reached at that time: the i-th of n stops sits at fraction
// (i+1)/(n+1) of the coordinate list. Without geometry every stop is at (0, 0).
func PlaceStops(segments []domain.DutySegment, geometry []domain.Coordinates) []domain.Stop {
	type marked struct {
		kind domain.StopType
		seg  domain.DutySegment
	}

	var found []marked
	for _, seg := range segments {
		note := strings.ToLower(seg.Note)
		switch {
		case strings.Contains(note, "fuel"):
			found = append(found, marked{kind: domain.FuelStop, seg: seg})
		case strings.Contains(note, "rest") || strings.Contains(note, "reset"):
			found = append(found, marked{kind: domain.RestStop, seg: seg})
		}
	}

	stops := make([]domain.Stop, 0, len(found))
	for i, m := range found {
		var at domain.Coordinates
		if len(geometry) > 0 {
			frac := float64(i+1) / float64(len(found)+1)
			idx := int(float64(len(geometry)) * frac)
			idx = max(0, min(idx, len(geometry)-1))
			at = geometry[idx]
		}

		prefix := "Rest"
		if m.kind == domain.FuelStop {
			prefix = "Fuel Stop"
		}

		stops = append(stops, domain.Stop{
			Type:               m.kind,
			Location:           at,
			Label:              fmt.Sprintf("%s %d", prefix, i),
			EstimatedArrival:   m.seg.Start,
			EstimatedDeparture: m.seg.End,
		})
	}

	return stops
}
