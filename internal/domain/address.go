package domain

import (
	"fmt"
	"strings"
)

// EntityKind selects which stored entity a lookup targets.
type EntityKind int

const (
	EntityPerson EntityKind = iota + 1
	EntityVenue
)

func (k EntityKind) String() string {
	switch k {
	case EntityPerson:
		return "person"
	case EntityVenue:
		return "venue"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// EntityRef identifies one person or venue row.
type EntityRef struct {
	Kind EntityKind
	ID   int64
}

func (r EntityRef) String() string { return fmt.Sprintf("%s %d", r.Kind, r.ID) }

func Person(id int64) EntityRef { return EntityRef{Kind: EntityPerson, ID: id} }
func Venue(id int64) EntityRef  { return EntityRef{Kind: EntityVenue, ID: id} }

// Postal address of a person or venue as stored by the owning record system.
// LatLng and PlaceID hold the last geocoding result, empty when never geocoded.
type Address struct {
	Line1      string `json:"addressLine1"`
	Line2      string `json:"addressLine2"`
	PostalCode string `json:"postalCode"`
	City       string `json:"postalCity"`
	LatLng     string `json:"latLng,omitempty"`
	PlaceID    string `json:"placeId,omitempty"`
}

// Format builds the provider query string.
//
// Field order is line 1, line 2, postal code, city, country. Fields are trimmed
// and empty ones skipped. The provider's parser depends on this order.
func (a Address) Format(country string) string {
	fields := []string{a.Line1, a.Line2, a.PostalCode, a.City, country}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		parts = append(parts, f)
	}

	return strings.Join(parts, ", ")
}
