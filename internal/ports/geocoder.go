package ports

import (
	"context"
	"geo-calculator-service/internal/domain"
)

// Contract for resolving a postal address to coordinates.
type Geocoder interface {
	// Return the provider's first match for the address.
	GeocodeAddress(ctx context.Context, address domain.Address) (domain.GeocodeResult, error)
}
