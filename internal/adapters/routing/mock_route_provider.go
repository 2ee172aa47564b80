package routing

import (
	"context"
	"fmt"
	"trip-planner-service/internal/domain"
)

// MockRouteProvider returns a fixed route, or a fixed error, for any waypoints.
// Calls counts GetRoute invocations.
type MockRouteProvider struct {
	Route *domain.Route
	Err   error
	Calls int
}

// NewMockRouteProvider builds a route from legs with a diagonal
// placeholder geometry of len(legs)+1 points.
func NewMockRouteProvider(legs ...domain.RouteLeg) *MockRouteProvider {
	route := &domain.Route{Legs: legs}
	for i, leg := range legs {
		route.TotalDistanceMiles += leg.DistanceMiles
		route.TotalDurationHours += leg.DurationHours
		route.Geometry = append(route.Geometry, domain.Coordinates{Lon: float64(i), Lat: float64(i)})
	}
	route.Geometry = append(route.Geometry, domain.Coordinates{Lon: float64(len(legs)), Lat: float64(len(legs))})

	return &MockRouteProvider{Route: route}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Route == nil {
		return nil, fmt.Errorf("no route for %d waypoints", len(waypoints))
	}

	return p.Route, nil
}
