package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"geo-calculator-service/internal/adapters/repositories"
	"geo-calculator-service/internal/config"
	"geo-calculator-service/internal/platform/db"

	"github.com/joho/godotenv"
)

func main() {
	seedOnly := flag.Bool("seed-only", false, "skip schema creation")
	noSeed := flag.Bool("no-seed", false, "create the schema without loading seed rows")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, cfg.SeedPath, !*seedOnly, !*noSeed); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, schema, seed bool) error {
	if schema {
		log.Println("Initializing database schema...")
		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}
		log.Println("Schema ready.")
	}

	if seed {
		log.Printf("Seeding database from %s...", seedPath)
		if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
			return err
		}
		log.Println("Seeding complete.")
	}

	return nil
}
