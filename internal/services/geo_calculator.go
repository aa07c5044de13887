package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/ports"
)

// Calculation types accepted in the request's type field.
const (
	TypePerson      = "person"
	TypeVenue       = "venue"
	TypePersonVenue = "person_venue"
	TypeVenueVenue  = "venue_venue"
)

// Request is a parsed invocation payload. Zero ids mean "not provided".
// RecalcFees is accepted for compatibility and not used.
type Request struct {
	Type       string
	PersonID   int64
	VenueID1   int64
	VenueID2   int64
	RecalcFees any
}

// venueID returns the first venue id provided.
func (r Request) venueID() int64 {
	if r.VenueID1 != 0 {
		return r.VenueID1
	}
	return r.VenueID2
}

type PersonGeocodeResult struct {
	PersonID    int64                `json:"personId"`
	Address     domain.Address       `json:"address"`
	Coordinates domain.GeocodeResult `json:"coordinates"`
}

type VenueGeocodeResult struct {
	VenueID     int64                `json:"venueId"`
	Address     domain.Address       `json:"address"`
	Coordinates domain.GeocodeResult `json:"coordinates"`
}

type PersonVenueDistanceResult struct {
	PersonID          int64              `json:"personId"`
	VenueID           int64              `json:"venueId"`
	PersonCoordinates domain.Coordinates `json:"personCoordinates"`
	VenueCoordinates  domain.Coordinates `json:"venueCoordinates"`
	Distance          domain.Distance    `json:"distance"`
}

type VenueVenueDistanceResult struct {
	VenueID1          int64              `json:"venueId1"`
	VenueID2          int64              `json:"venueId2"`
	Venue1Coordinates domain.Coordinates `json:"venue1Coordinates"`
	Venue2Coordinates domain.Coordinates `json:"venue2Coordinates"`
	Distance          domain.Distance    `json:"distance"`
}

// GeoCalculator routes a request to one of the four handlers and orchestrates
// the repository and mapping provider calls. Each handler performs at most one
// write, as its last step, so a failure never leaves a partial update behind.
type GeoCalculator struct {
	Repo      ports.LocationRepository
	Geocoder  ports.Geocoder
	Distances ports.DistanceProvider
}

func NewGeoCalculator(
	repo ports.LocationRepository,
	geocoder ports.Geocoder,
	distances ports.DistanceProvider,
) (*GeoCalculator, error) {
	if repo == nil || geocoder == nil || distances == nil {
		return nil, errors.New("geo calculator: repository, geocoder and distance provider are required")
	}
	return &GeoCalculator{Repo: repo, Geocoder: geocoder, Distances: distances}, nil
}

// Calculate dispatches req by exact match on req.Type.
func (c *GeoCalculator) Calculate(ctx context.Context, req Request) (any, error) {
	if req.Type == "" {
		return nil, domain.Errorf(domain.KindValidation, "Missing required parameter: type")
	}

	log.Printf("[HANDLER] processing type=%s person_id=%d venue_id1=%d venue_id2=%d",
		req.Type, req.PersonID, req.VenueID1, req.VenueID2)

	switch req.Type {
	case TypePerson:
		return c.geocodePerson(ctx, req.PersonID)
	case TypeVenue:
		return c.geocodeVenue(ctx, req.venueID())
	case TypePersonVenue:
		return c.personVenueDistance(ctx, req.PersonID, req.venueID())
	case TypeVenueVenue:
		return c.venueVenueDistance(ctx, req.VenueID1, req.VenueID2)
	default:
		return nil, domain.Errorf(domain.KindValidation, "Unknown calculation type: %s", req.Type)
	}
}

// geocode reads ref's address, geocodes it and stores the result.
func (c *GeoCalculator) geocode(ctx context.Context, ref domain.EntityRef) (domain.Address, domain.GeocodeResult, error) {
	address, err := c.Repo.GetAddress(ctx, ref)
	if err != nil {
		return domain.Address{}, domain.GeocodeResult{}, fmt.Errorf("get address: %w", err)
	}

	result, err := c.Geocoder.GeocodeAddress(ctx, address)
	if err != nil {
		return domain.Address{}, domain.GeocodeResult{}, fmt.Errorf("geocode address: %w", err)
	}

	if err := c.Repo.UpdateCoordinates(ctx, ref, result.Coordinates(), result.PlaceID); err != nil {
		return domain.Address{}, domain.GeocodeResult{}, fmt.Errorf("update coordinates: %w", err)
	}

	return address, result, nil
}

func (c *GeoCalculator) geocodePerson(ctx context.Context, personID int64) (any, error) {
	if personID == 0 {
		return nil, domain.Errorf(domain.KindValidation, "Missing required parameter: personId")
	}

	address, result, err := c.geocode(ctx, domain.Person(personID))
	if err != nil {
		return nil, fmt.Errorf("person geocoding %d: %w", personID, err)
	}

	return &PersonGeocodeResult{PersonID: personID, Address: address, Coordinates: result}, nil
}

func (c *GeoCalculator) geocodeVenue(ctx context.Context, venueID int64) (any, error) {
	if venueID == 0 {
		return nil, domain.Errorf(domain.KindValidation, "Missing required parameter: venueId")
	}

	address, result, err := c.geocode(ctx, domain.Venue(venueID))
	if err != nil {
		return nil, fmt.Errorf("venue geocoding %d: %w", venueID, err)
	}

	return &VenueGeocodeResult{VenueID: venueID, Address: address, Coordinates: result}, nil
}

func (c *GeoCalculator) personVenueDistance(ctx context.Context, personID, venueID int64) (any, error) {
	if personID == 0 || venueID == 0 {
		return nil, domain.Errorf(domain.KindValidation, "Missing required parameters: personId and venueId")
	}

	origin, err := c.Repo.GetCoordinates(ctx, domain.Person(personID))
	if err != nil {
		return nil, fmt.Errorf("person-venue distance: %w", err)
	}
	destination, err := c.Repo.GetCoordinates(ctx, domain.Venue(venueID))
	if err != nil {
		return nil, fmt.Errorf("person-venue distance: %w", err)
	}

	distance, err := c.Distances.CalculateDistance(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("person-venue distance: %w", err)
	}

	err = c.Repo.SaveDistance(ctx, domain.PersonVenueDistance{
		PersonID:        personID,
		VenueID:         venueID,
		DistanceMeters:  distance.DistanceMeters,
		DurationSeconds: distance.DurationSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("person-venue distance: %w", err)
	}

	return &PersonVenueDistanceResult{
		PersonID:          personID,
		VenueID:           venueID,
		PersonCoordinates: origin,
		VenueCoordinates:  destination,
		Distance:          distance,
	}, nil
}

// venueVenueDistance computes a distance between two venues without storing it.
func (c *GeoCalculator) venueVenueDistance(ctx context.Context, venueID1, venueID2 int64) (any, error) {
	if venueID1 == 0 || venueID2 == 0 {
		return nil, domain.Errorf(domain.KindValidation, "Missing required parameters: venueId1 and venueId2")
	}

	origin, err := c.Repo.GetCoordinates(ctx, domain.Venue(venueID1))
	if err != nil {
		return nil, fmt.Errorf("venue-venue distance: %w", err)
	}
	destination, err := c.Repo.GetCoordinates(ctx, domain.Venue(venueID2))
	if err != nil {
		return nil, fmt.Errorf("venue-venue distance: %w", err)
	}

	distance, err := c.Distances.CalculateDistance(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("venue-venue distance: %w", err)
	}

	return &VenueVenueDistanceResult{
		VenueID1:          venueID1,
		VenueID2:          venueID2,
		Venue1Coordinates: origin,
		Venue2Coordinates: destination,
		Distance:          distance,
	}, nil
}
