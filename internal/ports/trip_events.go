package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for announcing planned trips to downstream consumers.
type TripEventPublisher interface {
	PublishTripPlanned(ctx context.Context, plan *domain.TripPlan) error
}
