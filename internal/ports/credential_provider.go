package ports

import "context"

// Source of the mapping provider's API key.
type CredentialProvider interface {
	APIKey(ctx context.Context) (string, error)
}
