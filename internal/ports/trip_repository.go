package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
)

var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for storing and retrieving planned trips.
type TripRepository interface {
	// Persist plan under plan.ID.
	SaveTrip(ctx context.Context, plan *domain.TripPlan) error
	// Retrieve a plan by id. Returns ErrTripNotFound when absent.
	GetTrip(ctx context.Context, id string) (*domain.TripPlan, error)
}
