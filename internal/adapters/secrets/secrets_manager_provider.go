package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/platform/obs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Field names accepted for the API key inside the secret JSON, in lookup order.
var apiKeyFields = []string{"apiKey", "key", "GOOGLE_MAPS_API_KEY"}

// SecretsAPI is the subset of the Secrets Manager client used here.
type SecretsAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerProvider fetches the maps API key from AWS Secrets Manager on
// first use and returns the memoized value for the rest of the process.
//
// The provider is safe for concurrent use; concurrent first calls share one fetch.
type SecretsManagerProvider struct {
	client     SecretsAPI
	secretName string

	mu     sync.Mutex
	apiKey string
}

func NewSecretsManagerProvider(client SecretsAPI, secretName string) (*SecretsManagerProvider, error) {
	if client == nil {
		return nil, errors.New("secrets manager provider: client is nil")
	}
	if strings.TrimSpace(secretName) == "" {
		return nil, errors.New("secrets manager provider: secret name is empty")
	}

	return &SecretsManagerProvider{client: client, secretName: secretName}, nil
}

func (p *SecretsManagerProvider) APIKey(ctx context.Context) (_ string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.apiKey != "" {
		return p.apiKey, nil
	}

	defer obs.Time(ctx, "secrets.GetSecretValue")(&err)

	log.Printf("[SECRETS] fetching maps api key secret=%s", p.secretName)

	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretName),
	})
	if err != nil {
		return "", domain.Wrap(domain.KindCredential, err, "get maps api key: get secret value")
	}

	key, err := extractAPIKey(aws.ToString(out.SecretString))
	if err != nil {
		return "", domain.Wrap(domain.KindCredential, err, "get maps api key")
	}

	p.apiKey = key
	return key, nil
}

func extractAPIKey(secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("secret string is empty")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(secret), &fields); err != nil {
		return "", fmt.Errorf("parse secret json: %w", err)
	}

	for _, name := range apiKeyFields {
		if v, ok := fields[name].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}

	return "", fmt.Errorf("api key not found in secret (accepted fields: %s)", strings.Join(apiKeyFields, ", "))
}
