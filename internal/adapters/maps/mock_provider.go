package maps

import (
	"context"
	"fmt"
	"sync"

	"geo-calculator-service/internal/domain"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockProvider serves canned geocodes (keyed by formatted address) and
// distances (keyed by origin/destination pair). It counts calls so tests can
// assert that no upstream request was made.
type MockProvider struct {
	Country string

	geocodes  map[string]domain.GeocodeResult
	distances map[string]domain.Distance

	mu            sync.Mutex
	GeocodeCalls  int
	DistanceCalls int
}

func NewMockProvider(country string, geocodes map[string]domain.GeocodeResult, pairs []MockPair) *MockProvider {
	m := make(map[string]domain.Distance, len(pairs))
	for _, p := range pairs {
		m[p.From.String()+"|"+p.To.String()] = domain.Distance{
			DistanceMeters:  p.Meters,
			DurationSeconds: p.Seconds,
			DistanceText:    fmt.Sprintf("%.1f km", float64(p.Meters)/1000),
			DurationText:    fmt.Sprintf("%d mins", (p.Seconds+59)/60),
		}
	}
	if geocodes == nil {
		geocodes = map[string]domain.GeocodeResult{}
	}
	return &MockProvider{Country: country, geocodes: geocodes, distances: m}
}

func (p *MockProvider) GeocodeAddress(ctx context.Context, address domain.Address) (domain.GeocodeResult, error) {
	p.mu.Lock()
	p.GeocodeCalls++
	p.mu.Unlock()

	formatted := address.Format(p.Country)
	r, ok := p.geocodes[formatted]
	if !ok {
		return domain.GeocodeResult{}, domain.Errorf(domain.KindGeocode, "geocode %q: status ZERO_RESULTS", formatted)
	}
	return r, nil
}

func (p *MockProvider) CalculateDistance(ctx context.Context, origin, destination domain.Coordinates) (domain.Distance, error) {
	p.mu.Lock()
	p.DistanceCalls++
	p.mu.Unlock()

	r, ok := p.distances[origin.String()+"|"+destination.String()]
	if !ok {
		return domain.Distance{}, domain.Errorf(domain.KindDistance, "missing pair %s -> %s", origin, destination)
	}
	return r, nil
}
