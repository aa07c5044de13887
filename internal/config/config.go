package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	DatabaseURL string
	DBMaxConns  int

	SecretName string
	AWSRegion  string
	// StaticAPIKey bypasses Secrets Manager when set (local runs).
	StaticAPIKey string

	MapsBaseURL    string
	GeocodeCountry string

	Port     string
	SeedPath string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment.
// Callers are expected to have run godotenv.Load beforehand.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SecretName:     Get("GOOGLE_API_SECRET_NAME", "mvp-google-maps-api-key"),
		AWSRegion:      Get("AWS_REGION", "eu-north-1"),
		StaticAPIKey:   strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		MapsBaseURL:    strings.TrimRight(Get("MAPS_BASE_URL", "https://maps.googleapis.com"), "/"),
		GeocodeCountry: Get("GEOCODE_COUNTRY", "Denmark"),
		Port:           Get("PORT", "8080"),
		SeedPath:       Get("SEED_PATH", "data/seeds/locations.json"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("load config: DATABASE_URL is required")
	}

	maxConns, err := strconv.Atoi(Get("DB_MAX_CONNS", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: parse DB_MAX_CONNS: %w", err)
	}
	if maxConns < 1 {
		return Config{}, fmt.Errorf("load config: DB_MAX_CONNS must be positive, got %d", maxConns)
	}
	cfg.DBMaxConns = maxConns

	return cfg, nil
}
