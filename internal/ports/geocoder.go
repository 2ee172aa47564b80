package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
)

var ErrAddressNotFound = errors.New("address not found")

// Contract for resolving a free-form address to coordinates.
type Geocoder interface {
	// Return the best match for address, or ErrAddressNotFound.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent cache of geocoding results keyed by normalized address.
type GeocodeCache interface {
	GetCoordinates(ctx context.Context, address string) (c domain.Coordinates, ok bool, err error)
	PutCoordinates(ctx context.Context, address string, c domain.Coordinates) error
}
