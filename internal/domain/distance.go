package domain

// Driving distance and duration between two coordinates as reported by the provider.
type Distance struct {
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
	DistanceText    string `json:"distanceText"`
	DurationText    string `json:"durationText"`
}

// Represents the stored distance between one person and one venue.
// Keyed by (PersonID, VenueID); a later computation replaces the earlier one.
type PersonVenueDistance struct {
	PersonID        int64
	VenueID         int64
	DistanceMeters  int
	DurationSeconds int
}

// Geocoding result for one address. PlaceID is empty when the provider omits it.
type GeocodeResult struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	PlaceID string  `json:"placeId"`
}

func (g GeocodeResult) Coordinates() Coordinates { return Coordinates{Lat: g.Lat, Lng: g.Lng} }
