package maps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/platform/obs"
)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID  string `json:"place_id"`
		Geometry struct {
			Location struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeAddress resolves address using the geocoding endpoint (/maps/api/geocode/json).
// Only the first result is used.
func (g *GoogleMapsProvider) GeocodeAddress(
	ctx context.Context,
	address domain.Address,
) (_ domain.GeocodeResult, err error) {
	defer obs.Time(ctx, "maps.GeocodeAddress")(&err)

	formatted := address.Format(g.country)
	log.Printf("[MAPS] geocoding address=%q", formatted)

	var decoded geocodeResponse
	params := url.Values{"address": {formatted}}
	if err := g.getJSON(ctx, "/maps/api/geocode/json", params, &decoded); err != nil {
		if domain.KindOf(err) == domain.KindCredential {
			return domain.GeocodeResult{}, fmt.Errorf("geocode %q: %w", formatted, err)
		}
		return domain.GeocodeResult{}, domain.Wrap(domain.KindGeocode, err, fmt.Sprintf("geocode %q", formatted))
	}

	if decoded.Status != statusOK {
		msg := fmt.Sprintf("geocode %q: status %s", formatted, decoded.Status)
		if decoded.ErrorMessage != "" {
			msg += " (" + decoded.ErrorMessage + ")"
		}
		return domain.GeocodeResult{}, domain.Errorf(domain.KindGeocode, "%s", msg)
	}

	if len(decoded.Results) == 0 {
		return domain.GeocodeResult{}, domain.Errorf(domain.KindGeocode, "geocode %q: no results found for address", formatted)
	}

	first := decoded.Results[0]
	loc := first.Geometry.Location
	if loc.Lat == nil || loc.Lng == nil {
		return domain.GeocodeResult{}, domain.Wrap(domain.KindGeocode, errors.New("result has no location"), fmt.Sprintf("geocode %q", formatted))
	}

	out := domain.GeocodeResult{Lat: *loc.Lat, Lng: *loc.Lng, PlaceID: first.PlaceID}
	if !out.Coordinates().Valid() {
		return domain.GeocodeResult{}, domain.Errorf(domain.KindGeocode, "geocode %q: non-finite location", formatted)
	}

	log.Printf("[MAPS] geocoding ok lat=%v lng=%v place_id=%s", out.Lat, out.Lng, out.PlaceID)
	return out, nil
}
