package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for fetching current conditions at a coordinate.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, at domain.Coordinates) (*domain.Weather, error)
}
