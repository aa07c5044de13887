package maps

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/platform/obs"
)

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// CalculateDistance retrieves driving distance and duration for a single
// origin/destination pair using the distance matrix endpoint.
func (g *GoogleMapsProvider) CalculateDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Distance, err error) {
	defer obs.Time(ctx, "maps.CalculateDistance")(&err)

	op := fmt.Sprintf("calculate distance %s -> %s", origin, destination)
	log.Printf("[MAPS] calculating distance origin=%s destination=%s", origin, destination)

	var decoded distanceMatrixResponse
	params := url.Values{
		"origins":      {origin.String()},
		"destinations": {destination.String()},
	}
	if err := g.getJSON(ctx, "/maps/api/distancematrix/json", params, &decoded); err != nil {
		if domain.KindOf(err) == domain.KindCredential {
			return domain.Distance{}, fmt.Errorf("%s: %w", op, err)
		}
		return domain.Distance{}, domain.Wrap(domain.KindDistance, err, op)
	}

	if decoded.Status != statusOK {
		msg := fmt.Sprintf("%s: status %s", op, decoded.Status)
		if decoded.ErrorMessage != "" {
			msg += " (" + decoded.ErrorMessage + ")"
		}
		return domain.Distance{}, domain.Errorf(domain.KindDistance, "%s", msg)
	}

	if len(decoded.Rows) == 0 || len(decoded.Rows[0].Elements) == 0 {
		return domain.Distance{}, domain.Errorf(domain.KindDistance, "%s: no distance results found", op)
	}

	el := decoded.Rows[0].Elements[0]
	if el.Status != statusOK {
		return domain.Distance{}, domain.Errorf(domain.KindDistance, "%s: element status %s", op, el.Status)
	}

	out := domain.Distance{
		DistanceMeters:  el.Distance.Value,
		DurationSeconds: el.Duration.Value,
		DistanceText:    el.Distance.Text,
		DurationText:    el.Duration.Text,
	}

	log.Printf("[MAPS] distance ok meters=%d seconds=%d (%s, %s)", out.DistanceMeters, out.DurationSeconds, out.DistanceText, out.DurationText)
	return out, nil
}
