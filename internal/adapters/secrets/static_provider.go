package secrets

import (
	"context"

	"geo-calculator-service/internal/domain"
)

// StaticProvider serves a key supplied through configuration.
type StaticProvider struct {
	Key string
}

func (s StaticProvider) APIKey(ctx context.Context) (string, error) {
	if s.Key == "" {
		return "", domain.Errorf(domain.KindCredential, "get maps api key: static key is empty")
	}
	return s.Key, nil
}
