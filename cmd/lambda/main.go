package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"geo-calculator-service/internal/adapters/maps"
	"geo-calculator-service/internal/adapters/repositories"
	"geo-calculator-service/internal/adapters/secrets"
	"geo-calculator-service/internal/api/handlers"
	"geo-calculator-service/internal/config"
	"geo-calculator-service/internal/platform/db"
	"geo-calculator-service/internal/platform/obs"
	"geo-calculator-service/internal/services"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
)

// main is the Lambda composition root. Everything built here lives for the
// whole execution environment and is shared by warm invocations.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	metrics, err := obs.NewMetrics(nil)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	creds, err := secrets.NewProvider(ctx, cfg.StaticAPIKey, cfg.AWSRegion, cfg.SecretName)
	if err != nil {
		log.Fatal(err)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	provider, err := maps.NewGoogleMapsProvider(client, cfg.MapsBaseURL, cfg.GeocodeCountry, creds)
	if err != nil {
		log.Fatal(err)
	}

	// Connects on first use; closed on SIGTERM when the execution environment shuts down.
	pool := db.NewPool(cfg.DatabaseURL, cfg.DBMaxConns)

	repo := repositories.NewSQLLocationRepository(pool)
	calc, err := services.NewGeoCalculator(repo, provider, provider)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("[MAIN] lambda ready region=%s secret=%s", cfg.AWSRegion, cfg.SecretName)
	lambda.StartWithOptions(handlers.LambdaHandler(calc, metrics), lambda.WithEnableSIGTERM(closeOnShutdown(pool)))
}

// closeOnShutdown releases the pool. lambda.StartWithOptions never returns,
// so deferred calls in main would not run.
func closeOnShutdown(pool io.Closer) func() {
	return func() {
		log.Println("[MAIN] SIGTERM received, shutting down")
		if err := pool.Close(); err != nil {
			log.Printf("[DB ERROR] close pool: %v", err)
		}
	}
}
