package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

const listingColumns = 17

// PostgresWriter archives each run and its enriched listings in PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listing_runs (
			id             UUID         PRIMARY KEY,
			suburb         TEXT         NOT NULL,
			state          TEXT         NOT NULL,
			max_price      INTEGER      NOT NULL,
			min_beds       INTEGER      NOT NULL,
			max_beds       INTEGER      NOT NULL,
			min_carspaces  INTEGER      NOT NULL,
			listing_count  INTEGER      NOT NULL DEFAULT 0,
			started_at     TIMESTAMPTZ  NOT NULL,
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS run_listings (
			id               SERIAL PRIMARY KEY,
			run_id           UUID     NOT NULL REFERENCES listing_runs(id) ON DELETE CASCADE,
			position         INTEGER  NOT NULL,
			address          TEXT,
			url              TEXT,
			price            INTEGER,
			price_display    TEXT     NOT NULL DEFAULT '',
			beds             INTEGER,
			baths            INTEGER,
			cars             INTEGER,
			lat              DOUBLE PRECISION,
			lon              DOUBLE PRECISION,
			geohash          TEXT     NOT NULL DEFAULT '',
			dist_station_km  DOUBLE PRECISION,
			dist_park_km     DOUBLE PRECISION,
			pros             TEXT[]   NOT NULL DEFAULT '{}',
			cons             TEXT[]   NOT NULL DEFAULT '{}',
			geocoded         BOOLEAN  NOT NULL DEFAULT FALSE,
			UNIQUE (run_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_run_listings_price   ON run_listings(price);
		CREATE INDEX IF NOT EXISTS idx_run_listings_geohash ON run_listings(geohash);
	`)
	return err
}

// Write stores the run row and batch-inserts its listings in one transaction.
func (pw *PostgresWriter) Write(run *models.Run, listings []models.EnrichedListing) error {
	ctx := context.Background()
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c := run.Criteria
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO listing_runs (id, suburb, state, max_price, min_beds, max_beds, min_carspaces, listing_count, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, c.Suburb, c.State, c.MaxPrice, c.MinBeds, c.MaxBeds, c.MinCarSpaces, len(listings), run.StartedAt); err != nil {
		return fmt.Errorf("postgres: insert run: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(ctx, tx, run, i, listings[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, tx *sql.Tx, run *models.Run, offset int, batch []models.EnrichedListing) error {
	valueArgs := make([]any, 0, len(batch)*listingColumns)

	for idx, l := range batch {
		valueArgs = append(valueArgs,
			run.ID, offset+idx+1, l.Address, l.URL, l.Price, l.PriceDisplay,
			l.Beds, l.Baths, l.Cars, l.Lat, l.Lon, l.Geohash,
			l.DistStationKm, l.DistParkKm, pq.Array(l.Pros), pq.Array(l.Cons),
			l.Geocoded,
		)
	}

	if _, err := tx.ExecContext(ctx, buildInsertQuery(len(batch)), valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert listings: %w", err)
	}
	return nil
}

// buildInsertQuery returns a multi-row INSERT for n listings.
func buildInsertQuery(n int) string {
	valueStrings := make([]string, 0, n)
	for idx := 0; idx < n; idx++ {
		base := idx * listingColumns
		placeholders := make([]string, listingColumns)
		for col := range placeholders {
			placeholders[col] = fmt.Sprintf("$%d", base+col+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
	}

	return fmt.Sprintf(`
		INSERT INTO run_listings (run_id, position, address, url, price, price_display,
			beds, baths, cars, lat, lon, geohash, dist_station_km, dist_park_km, pros, cons, geocoded)
		VALUES %s
	`, strings.Join(valueStrings, ","))
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
