package services

import (
	"context"
	"testing"

	"geo-calculator-service/internal/adapters/maps"
	"geo-calculator-service/internal/domain"
)

// memoryRepo is an in-memory LocationRepository that counts writes.
type memoryRepo struct {
	addresses map[domain.EntityRef]domain.Address
	distances map[[2]int64]domain.PersonVenueDistance
	writes    int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		addresses: map[domain.EntityRef]domain.Address{},
		distances: map[[2]int64]domain.PersonVenueDistance{},
	}
}

func (m *memoryRepo) GetAddress(ctx context.Context, ref domain.EntityRef) (domain.Address, error) {
	a, ok := m.addresses[ref]
	if !ok {
		return domain.Address{}, domain.Errorf(domain.KindNotFound, "%s not found", ref)
	}
	return a, nil
}

func (m *memoryRepo) GetCoordinates(ctx context.Context, ref domain.EntityRef) (domain.Coordinates, error) {
	a, ok := m.addresses[ref]
	if !ok {
		return domain.Coordinates{}, domain.Errorf(domain.KindNotFound, "%s not found", ref)
	}
	if a.LatLng == "" {
		return domain.Coordinates{}, domain.Errorf(domain.KindMissingCoordinates, "%s has no coordinates", ref)
	}
	return domain.ParseLatLng(a.LatLng)
}

func (m *memoryRepo) UpdateCoordinates(ctx context.Context, ref domain.EntityRef, c domain.Coordinates, placeID string) error {
	m.writes++
	a, ok := m.addresses[ref]
	if !ok {
		return domain.Errorf(domain.KindNotFound, "%s not found", ref)
	}
	a.LatLng = c.String()
	a.PlaceID = placeID
	m.addresses[ref] = a
	return nil
}

func (m *memoryRepo) SaveDistance(ctx context.Context, d domain.PersonVenueDistance) error {
	m.writes++
	m.distances[[2]int64{d.PersonID, d.VenueID}] = d
	return nil
}

func newTestCalculator(t *testing.T, repo *memoryRepo, provider *maps.MockProvider) *GeoCalculator {
	t.Helper()

	calc, err := NewGeoCalculator(repo, provider, provider)
	if err != nil {
		t.Fatalf("NewGeoCalculator: %v", err)
	}
	return calc
}

func TestCalculateVenueGeocoding(t *testing.T) {
	repo := newMemoryRepo()
	repo.addresses[domain.Venue(42)] = domain.Address{Line1: "Main St 1", PostalCode: "2100", City: "Copenhagen"}

	provider := maps.NewMockProvider("Denmark", map[string]domain.GeocodeResult{
		"Main St 1, 2100, Copenhagen, Denmark": {Lat: 55.7, Lng: 12.6, PlaceID: "abc"},
	}, nil)
	calc := newTestCalculator(t, repo, provider)

	res, err := calc.Calculate(context.Background(), Request{Type: TypeVenue, VenueID1: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := res.(*VenueGeocodeResult)
	if !ok {
		t.Fatalf("result type = %T, want *VenueGeocodeResult", res)
	}
	if got.VenueID != 42 || got.Coordinates != (domain.GeocodeResult{Lat: 55.7, Lng: 12.6, PlaceID: "abc"}) {
		t.Fatalf("result = %+v", got)
	}

	stored := repo.addresses[domain.Venue(42)]
	if stored.LatLng != "55.7,12.6" || stored.PlaceID != "abc" {
		t.Fatalf("stored lat_lng=%q place_id=%q", stored.LatLng, stored.PlaceID)
	}
}

func TestCalculateVenueUsesSecondID(t *testing.T) {
	repo := newMemoryRepo()
	repo.addresses[domain.Venue(5)] = domain.Address{City: "Odense"}

	provider := maps.NewMockProvider("Denmark", map[string]domain.GeocodeResult{
		"Odense, Denmark": {Lat: 55.4, Lng: 10.4},
	}, nil)
	calc := newTestCalculator(t, repo, provider)

	if _, err := calc.Calculate(context.Background(), Request{Type: TypeVenue, VenueID2: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.addresses[domain.Venue(5)].PlaceID != "" {
		t.Fatalf("place id = %q, want empty", repo.addresses[domain.Venue(5)].PlaceID)
	}
}

func TestCalculatePersonGeocoding(t *testing.T) {
	repo := newMemoryRepo()
	repo.addresses[domain.Person(1)] = domain.Address{Line1: "Søndergade 12", Line2: "3. th", PostalCode: "8000", City: "Aarhus C"}

	provider := maps.NewMockProvider("Denmark", map[string]domain.GeocodeResult{
		"Søndergade 12, 3. th, 8000, Aarhus C, Denmark": {Lat: 56.15, Lng: 10.2, PlaceID: "pid"},
	}, nil)
	calc := newTestCalculator(t, repo, provider)

	res, err := calc.Calculate(context.Background(), Request{Type: TypePerson, PersonID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.(*PersonGeocodeResult); got.PersonID != 1 || got.Coordinates.PlaceID != "pid" {
		t.Fatalf("result = %+v", got)
	}
	if repo.addresses[domain.Person(1)].LatLng != "56.15,10.2" {
		t.Fatalf("stored lat_lng = %q", repo.addresses[domain.Person(1)].LatLng)
	}
}

func TestCalculatePersonVenueDistanceUpserts(t *testing.T) {
	repo := newMemoryRepo()
	repo.addresses[domain.Person(1)] = domain.Address{LatLng: "55.0,12.0"}
	repo.addresses[domain.Venue(2)] = domain.Address{LatLng: "55.1,12.1"}
	repo.distances[[2]int64{1, 2}] = domain.PersonVenueDistance{PersonID: 1, VenueID: 2, DistanceMeters: 1, DurationSeconds: 1}

	provider := maps.NewMockProvider("Denmark", nil, []maps.MockPair{
		{From: domain.Coordinates{Lat: 55, Lng: 12}, To: domain.Coordinates{Lat: 55.1, Lng: 12.1}, Meters: 5000, Seconds: 600},
	})
	calc := newTestCalculator(t, repo, provider)

	res, err := calc.Calculate(context.Background(), Request{Type: TypePersonVenue, PersonID: 1, VenueID1: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := res.(*PersonVenueDistanceResult)
	if got.Distance.DistanceMeters != 5000 || got.Distance.DurationSeconds != 600 {
		t.Fatalf("distance = %+v", got.Distance)
	}

	want := domain.PersonVenueDistance{PersonID: 1, VenueID: 2, DistanceMeters: 5000, DurationSeconds: 600}
	if repo.distances[[2]int64{1, 2}] != want {
		t.Fatalf("stored distance = %+v, want %+v", repo.distances[[2]int64{1, 2}], want)
	}
}

func TestCalculateVenueVenueDoesNotPersist(t *testing.T) {
	repo := newMemoryRepo()
	repo.addresses[domain.Venue(1)] = domain.Address{LatLng: "55.0,12.0"}
	repo.addresses[domain.Venue(2)] = domain.Address{LatLng: "56.0,10.0"}

	provider := maps.NewMockProvider("Denmark", nil, []maps.MockPair{
		{From: domain.Coordinates{Lat: 55, Lng: 12}, To: domain.Coordinates{Lat: 56, Lng: 10}, Meters: 180000, Seconds: 7200},
	})
	calc := newTestCalculator(t, repo, provider)

	res, err := calc.Calculate(context.Background(), Request{Type: TypeVenueVenue, VenueID1: 1, VenueID2: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.(*VenueVenueDistanceResult); got.Distance.DistanceMeters != 180000 {
		t.Fatalf("distance = %+v", got.Distance)
	}
	if repo.writes != 0 {
		t.Fatalf("writes = %d, want 0", repo.writes)
	}
}

func TestCalculateMissingCoordinatesSkipsDistanceCall(t *testing.T) {
	cases := []Request{
		{Type: TypePersonVenue, PersonID: 1, VenueID1: 2},
		{Type: TypePersonVenue, PersonID: 3, VenueID2: 4},
		{Type: TypeVenueVenue, VenueID1: 2, VenueID2: 4},
	}

	for _, req := range cases {
		repo := newMemoryRepo()
		repo.addresses[domain.Person(1)] = domain.Address{}
		repo.addresses[domain.Person(3)] = domain.Address{LatLng: "55,12"}
		repo.addresses[domain.Venue(2)] = domain.Address{LatLng: "55.1,12.1"}
		repo.addresses[domain.Venue(4)] = domain.Address{City: "Vejle"}

		provider := maps.NewMockProvider("Denmark", nil, nil)
		calc := newTestCalculator(t, repo, provider)

		_, err := calc.Calculate(context.Background(), req)
		if got := domain.KindOf(err); got != domain.KindMissingCoordinates {
			t.Errorf("%+v: kind = %v, want missing_coordinates (err=%v)", req, got, err)
		}
		if provider.DistanceCalls != 0 {
			t.Errorf("%+v: distance calls = %d, want 0", req, provider.DistanceCalls)
		}
		if repo.writes != 0 {
			t.Errorf("%+v: writes = %d, want 0", req, repo.writes)
		}
	}
}

func TestCalculateValidation(t *testing.T) {
	cases := []Request{
		{},
		{Type: "person_person", PersonID: 1},
		{Type: "PERSON", PersonID: 1},
		{Type: TypePerson},
		{Type: TypeVenue},
		{Type: TypePersonVenue, PersonID: 1},
		{Type: TypePersonVenue, VenueID1: 1},
		{Type: TypeVenueVenue, VenueID1: 1},
		{Type: TypeVenueVenue, VenueID2: 1},
	}

	for _, req := range cases {
		repo := newMemoryRepo()
		provider := maps.NewMockProvider("Denmark", nil, nil)
		calc := newTestCalculator(t, repo, provider)

		res, err := calc.Calculate(context.Background(), req)
		if got := domain.KindOf(err); got != domain.KindValidation {
			t.Errorf("%+v: kind = %v, want validation (err=%v)", req, got, err)
		}
		if res != nil {
			t.Errorf("%+v: result = %v, want nil", req, res)
		}
		if provider.GeocodeCalls != 0 || provider.DistanceCalls != 0 || repo.writes != 0 {
			t.Errorf("%+v: side effects geocode=%d distance=%d writes=%d", req, provider.GeocodeCalls, provider.DistanceCalls, repo.writes)
		}
	}
}

func TestCalculateGeocodeFailureSkipsWrite(t *testing.T) {
	repo := newMemoryRepo()
	repo.addresses[domain.Person(8)] = domain.Address{Line1: "Nowhere 1"}

	provider := maps.NewMockProvider("Denmark", nil, nil)
	calc := newTestCalculator(t, repo, provider)

	_, err := calc.Calculate(context.Background(), Request{Type: TypePerson, PersonID: 8})
	if got := domain.KindOf(err); got != domain.KindGeocode {
		t.Fatalf("kind = %v, want geocode (err=%v)", got, err)
	}
	if repo.writes != 0 {
		t.Fatalf("writes = %d, want 0", repo.writes)
	}
}

func TestCalculateUnknownEntity(t *testing.T) {
	calc := newTestCalculator(t, newMemoryRepo(), maps.NewMockProvider("Denmark", nil, nil))

	_, err := calc.Calculate(context.Background(), Request{Type: TypeVenue, VenueID1: 404})
	if got := domain.KindOf(err); got != domain.KindNotFound {
		t.Fatalf("kind = %v, want not_found (err=%v)", got, err)
	}
}
