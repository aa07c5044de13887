package ports

import (
	"context"
	"geo-calculator-service/internal/domain"
)

// Contract for retrieving driving distance and duration between two coordinates.
type DistanceProvider interface {
	// Return travel distance and estimated duration from origin to destination.
	CalculateDistance(ctx context.Context, origin, destination domain.Coordinates) (domain.Distance, error)
}
