package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for routing a truck through an ordered list of waypoints.
type RouteProvider interface {
	// Return the road route visiting waypoints in order, one leg per consecutive pair.
	GetRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error)
}

// Persistent cache of routes keyed by a normalized waypoint string.
type RouteCache interface {
	// Return the cached route for key; ok is false on a miss.
	GetRoute(ctx context.Context, key string) (route *domain.Route, ok bool, err error)
	// Store route under key, replacing any previous value.
	PutRoute(ctx context.Context, key string, route *domain.Route) error
}
