package ports

import (
	"context"
	"geo-calculator-service/internal/domain"
)

// Port: a boundary for reading and updating person and venue locations.
type LocationRepository interface {
	// Return the stored address. Fails with KindNotFound when no row matches.
	GetAddress(ctx context.Context, ref domain.EntityRef) (domain.Address, error)
	// Return the stored coordinates. Fails with KindNotFound or KindMissingCoordinates.
	GetCoordinates(ctx context.Context, ref domain.EntityRef) (domain.Coordinates, error)
	// Persist a geocoding result.
	UpdateCoordinates(ctx context.Context, ref domain.EntityRef, c domain.Coordinates, placeID string) error
	// Upsert the distance keyed by (PersonID, VenueID).
	SaveDistance(ctx context.Context, d domain.PersonVenueDistance) error
}
