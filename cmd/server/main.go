package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geo-calculator-service/internal/adapters/maps"
	"geo-calculator-service/internal/adapters/repositories"
	"geo-calculator-service/internal/adapters/secrets"
	"geo-calculator-service/internal/api"
	"geo-calculator-service/internal/config"
	"geo-calculator-service/internal/platform/db"
	"geo-calculator-service/internal/platform/obs"
	"geo-calculator-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the local composition root.
// It wires concrete adapters (Postgres, Google Maps, Secrets Manager) behind ports
// and serves the same dispatcher over HTTP.
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := db.NewPool(cfg.DatabaseURL, cfg.DBMaxConns)
	defer func() {
		if err := pool.Close(); err != nil {
			log.Printf("[DB ERROR] close pool: %v", err)
		}
	}()

	creds, err := secrets.NewProvider(ctx, cfg.StaticAPIKey, cfg.AWSRegion, cfg.SecretName)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := maps.NewGoogleMapsProvider(&http.Client{Timeout: 15 * time.Second}, cfg.MapsBaseURL, cfg.GeocodeCountry, creds)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSQLLocationRepository(pool)
	calc, err := services.NewGeoCalculator(repo, provider, provider)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(calc, metrics, func(ctx context.Context) error {
		conn, err := pool.DB(ctx)
		if err != nil {
			return err
		}
		return conn.PingContext(ctx)
	})

	// Timeouts cover two sequential provider calls on the slowest path.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[MAIN ERROR] shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[MAIN ERROR] serve: %v", err)
	}
}
