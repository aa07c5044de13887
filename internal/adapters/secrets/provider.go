package secrets

import (
	"context"
	"fmt"
	"log"

	"geo-calculator-service/internal/ports"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// NewProvider returns a StaticProvider when staticKey is set, otherwise a
// SecretsManagerProvider reading secretName in region.
func NewProvider(ctx context.Context, staticKey, region, secretName string) (ports.CredentialProvider, error) {
	if staticKey != "" {
		log.Println("[SECRETS] using static maps API key from environment")
		return StaticProvider{Key: staticKey}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	p, err := NewSecretsManagerProvider(secretsmanager.NewFromConfig(awsCfg), secretName)
	if err != nil {
		return nil, err
	}
	return p, nil
}
