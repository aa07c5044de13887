package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/platform/db"
	"geo-calculator-service/internal/platform/obs"
)

// entityTable names the table and columns backing one entity kind.
type entityTable struct {
	table    string
	idColumn string
	// persons carry a recalculation flag that a fresh geocode clears.
	recalcColumn string
}

var entityTables = map[domain.EntityKind]entityTable{
	domain.EntityPerson: {table: "persons", idColumn: "person_id", recalcColumn: "recalc_coordinates"},
	domain.EntityVenue:  {table: "venues", idColumn: "venue_id"},
}

// Postgres-backed implementation of the LocationRepository port.
type SQLLocationRepository struct {
	Pool *db.Pool
}

func NewSQLLocationRepository(pool *db.Pool) *SQLLocationRepository {
	return &SQLLocationRepository{Pool: pool}
}

func (s *SQLLocationRepository) conn(ctx context.Context) (*sql.DB, error) {
	if s.Pool == nil {
		return nil, domain.Errorf(domain.KindPersistence, "sql location repository: pool is nil")
	}
	conn, err := s.Pool.DB(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.KindPersistence, err, "sql location repository: connect")
	}
	return conn, nil
}

func tableFor(ref domain.EntityRef) (entityTable, error) {
	t, ok := entityTables[ref.Kind]
	if !ok {
		return entityTable{}, domain.Errorf(domain.KindValidation, "unsupported entity kind %s", ref.Kind)
	}
	return t, nil
}

// Return the stored address for ref.
func (s *SQLLocationRepository) GetAddress(ctx context.Context, ref domain.EntityRef) (_ domain.Address, err error) {
	defer obs.Time(ctx, "db.GetAddress")(&err)

	t, err := tableFor(ref)
	if err != nil {
		return domain.Address{}, err
	}
	conn, err := s.conn(ctx)
	if err != nil {
		return domain.Address{}, err
	}

	log.Printf("[DB] fetching address for %s", ref)

	q := fmt.Sprintf(`
	SELECT
		address_line1,
		address_line2,
		postal_code,
		postal_city,
		lat_lng,
		place_id
	FROM %s
	WHERE %s = $1;
	`, t.table, t.idColumn)

	var line1, line2, postalCode, city, latLng, placeID sql.NullString
	err = conn.QueryRowContext(ctx, q, ref.ID).Scan(&line1, &line2, &postalCode, &city, &latLng, &placeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, domain.Errorf(domain.KindNotFound, "%s not found", capitalize(ref.String()))
	}
	if err != nil {
		return domain.Address{}, domain.Wrap(domain.KindPersistence, err, fmt.Sprintf("get address: query %s table", t.table))
	}

	return domain.Address{
		Line1:      line1.String,
		Line2:      line2.String,
		PostalCode: postalCode.String,
		City:       city.String,
		LatLng:     latLng.String,
		PlaceID:    placeID.String,
	}, nil
}

// Return the stored coordinates for ref.
func (s *SQLLocationRepository) GetCoordinates(ctx context.Context, ref domain.EntityRef) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "db.GetCoordinates")(&err)

	t, err := tableFor(ref)
	if err != nil {
		return domain.Coordinates{}, err
	}
	conn, err := s.conn(ctx)
	if err != nil {
		return domain.Coordinates{}, err
	}

	log.Printf("[DB] fetching coordinates for %s", ref)

	q := fmt.Sprintf(`SELECT lat_lng FROM %s WHERE %s = $1;`, t.table, t.idColumn)

	var latLng sql.NullString
	err = conn.QueryRowContext(ctx, q, ref.ID).Scan(&latLng)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, domain.Errorf(domain.KindNotFound, "%s not found", capitalize(ref.String()))
	}
	if err != nil {
		return domain.Coordinates{}, domain.Wrap(domain.KindPersistence, err, fmt.Sprintf("get coordinates: query %s table", t.table))
	}

	if strings.TrimSpace(latLng.String) == "" {
		return domain.Coordinates{}, domain.Errorf(
			domain.KindMissingCoordinates,
			"%s has no coordinates. Run '%s' geocoding first",
			capitalize(ref.String()), ref.Kind,
		)
	}

	c, err := domain.ParseLatLng(latLng.String)
	if err != nil {
		return domain.Coordinates{}, domain.Wrap(domain.KindPersistence, err, fmt.Sprintf("get coordinates for %s", ref))
	}

	return c, nil
}

// Persist a geocoding result. Writing the same values again leaves the row unchanged.
func (s *SQLLocationRepository) UpdateCoordinates(
	ctx context.Context,
	ref domain.EntityRef,
	c domain.Coordinates,
	placeID string,
) (err error) {
	defer obs.Time(ctx, "db.UpdateCoordinates")(&err)

	t, err := tableFor(ref)
	if err != nil {
		return err
	}
	if !c.Valid() {
		return domain.Errorf(domain.KindValidation, "update coordinates for %s: coordinates must be finite", ref)
	}
	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}

	set := "lat_lng = $1, place_id = $2"
	if t.recalcColumn != "" {
		set += ", " + t.recalcColumn + " = FALSE"
	}
	q := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $3;`, t.table, set, t.idColumn)

	res, err := conn.ExecContext(ctx, q, c.String(), placeID, ref.ID)
	if err != nil {
		return domain.Wrap(domain.KindPersistence, err, fmt.Sprintf("update coordinates: update %s table", t.table))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.Wrap(domain.KindPersistence, err, "update coordinates: rows affected")
	}
	if n == 0 {
		return domain.Errorf(domain.KindNotFound, "%s not found", capitalize(ref.String()))
	}

	log.Printf("[DB] updated %s coordinates=%s place_id=%s", ref, c, placeID)
	return nil
}

// Upsert the distance keyed by (PersonID, VenueID); only meters and seconds are overwritten.
func (s *SQLLocationRepository) SaveDistance(ctx context.Context, d domain.PersonVenueDistance) (err error) {
	defer obs.Time(ctx, "db.SaveDistance")(&err)

	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx, `
	INSERT INTO person_venue_distances (person_id, venue_id, meters, seconds)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (person_id, venue_id) DO UPDATE
	SET meters = EXCLUDED.meters,
		seconds = EXCLUDED.seconds;
	`, d.PersonID, d.VenueID, d.DistanceMeters, d.DurationSeconds)
	if err != nil {
		return domain.Wrap(
			domain.KindPersistence, err,
			fmt.Sprintf("save distance person_id=%d venue_id=%d", d.PersonID, d.VenueID),
		)
	}

	log.Printf("[DB] saved distance person_id=%d venue_id=%d meters=%d seconds=%d",
		d.PersonID, d.VenueID, d.DistanceMeters, d.DurationSeconds)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
