package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the postgres schema used by local runs and tests.
// Production tables are owned by the external record system.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPersonsQuery := `
	CREATE TABLE IF NOT EXISTS persons (
		person_id BIGINT PRIMARY KEY,
		address_line1 TEXT,
		address_line2 TEXT,
		postal_code TEXT,
		postal_city TEXT,
		lat_lng TEXT,
		place_id TEXT,
		recalc_coordinates BOOLEAN NOT NULL DEFAULT TRUE
	);
	`

	createVenuesQuery := `
	CREATE TABLE IF NOT EXISTS venues (
		venue_id BIGINT PRIMARY KEY,
		address_line1 TEXT,
		address_line2 TEXT,
		postal_code TEXT,
		postal_city TEXT,
		lat_lng TEXT,
		place_id TEXT
	);
	`

	createDistancesQuery := `
	CREATE TABLE IF NOT EXISTS person_venue_distances (
		person_id BIGINT NOT NULL,
		venue_id BIGINT NOT NULL,
		meters INTEGER NOT NULL,
		seconds INTEGER NOT NULL,
		PRIMARY KEY (person_id, venue_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_person_venue_distances_venue_person
	ON person_venue_distances(venue_id, person_id);
	`

	statements := []string{
		createPersonsQuery,
		createVenuesQuery,
		createDistancesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	ID           int64  `json:"id"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	PostalCode   string `json:"postal_code"`
	PostalCity   string `json:"postal_city"`
}

type SeedFile struct {
	Persons []LocationSeed `json:"persons"`
	Venues  []LocationSeed `json:"venues"`
}

// Populate persons and venues from a JSON file. Existing addresses are
// replaced; stored coordinates are left untouched.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed locations: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed locations: parse json: %w", err)
	}

	if err := validateSeeds("persons", data.Persons); err != nil {
		return err
	}
	if err := validateSeeds("venues", data.Venues); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed locations: begin tx: %w", err)
	}
	defer tx.Rollback()

	groups := []struct {
		table    string
		idColumn string
		rows     []LocationSeed
	}{
		{"persons", "person_id", data.Persons},
		{"venues", "venue_id", data.Venues},
	}

	for _, g := range groups {
		query := fmt.Sprintf(`
		INSERT INTO %[1]s (
			%[2]s,
			address_line1,
			address_line2,
			postal_code,
			postal_city
		)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%[2]s) DO UPDATE
		SET address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			postal_code = EXCLUDED.postal_code,
			postal_city = EXCLUDED.postal_city;
		`, g.table, g.idColumn)

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("seed locations: prepare insert %s: %w", g.table, err)
		}

		for _, r := range g.rows {
			if _, err := stmt.ExecContext(ctx, r.ID, r.AddressLine1, r.AddressLine2, r.PostalCode, r.PostalCity); err != nil {
				stmt.Close()
				return fmt.Errorf("seed locations: insert %s %s=%d: %w", g.table, g.idColumn, r.ID, err)
			}
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed locations: commit tx: %w", err)
	}

	return nil
}

func validateSeeds(group string, rows []LocationSeed) error {
	for i, item := range rows {
		if item.ID <= 0 {
			return fmt.Errorf("seed locations: invalid %s id at index %d: %d", group, i+1, item.ID)
		}
		if strings.TrimSpace(item.AddressLine1) == "" && strings.TrimSpace(item.PostalCity) == "" {
			return fmt.Errorf("seed locations: %s item at index %d: address cannot be empty", group, i+1)
		}
	}
	return nil
}
