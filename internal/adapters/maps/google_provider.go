package maps

import (
	"errors"
	"net/http"
	"strings"

	"geo-calculator-service/internal/ports"
)

// statusOK is the provider's success sentinel for both the top-level and
// per-element status fields.
const statusOK = "OK"

// GoogleMapsProvider implements ports.Geocoder and ports.DistanceProvider using
// the Google Maps Geocoding and Distance Matrix APIs.
//
// Each call issues exactly one GET request; there is no caching or retry.
// The provider is safe for concurrent use.
type GoogleMapsProvider struct {
	session     *http.Client
	baseURL     string
	country     string
	credentials ports.CredentialProvider
}

// NewGoogleMapsProvider builds a provider against baseURL
// (normally https://maps.googleapis.com). country is appended to every
// geocoding query. A nil client means http.DefaultClient.
func NewGoogleMapsProvider(
	client *http.Client,
	baseURL string,
	country string,
	credentials ports.CredentialProvider,
) (*GoogleMapsProvider, error) {
	if credentials == nil {
		return nil, errors.New("google maps provider: credential provider is nil")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("google maps provider: base url is empty")
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &GoogleMapsProvider{
		session:     client,
		baseURL:     baseURL,
		country:     country,
		credentials: credentials,
	}, nil
}
