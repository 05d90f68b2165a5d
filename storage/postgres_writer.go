package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"emlak-scraper/models"
	"emlak-scraper/utils"
)

// listingColumns is the insert order used by listingValues.
var listingColumns = []string{
	"url", "name", "price", "advertisement_number", "location", "explanation",
	"categories", "advisor",
	"square_meter_gross", "square_meter_net", "number_rooms", "building_age",
	"floor_located", "number_floors", "heating", "number_bathrooms", "kitchen",
	"balcony", "lift", "is_furnished", "usage_status", "dues",
	"is_eligible_credit", "deed_status", "from_whom", "exchangeable",
	"ad_features", "image_urls", "run_id", "scraped_at",
}

// PostgresWriter persists listings to PostgreSQL, one row per listing URL.
type PostgresWriter struct {
	db    *sql.DB
	runID uuid.UUID
}

var _ ListingWriter = (*PostgresWriter)(nil)

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter. Rows written through it are
// tagged with runID.
func NewPostgresWriter(ctx context.Context, dsn string, runID uuid.UUID, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id                   SERIAL PRIMARY KEY,
			url                  TEXT        UNIQUE NOT NULL,
			name                 TEXT        NOT NULL DEFAULT '',
			price                TEXT        NOT NULL DEFAULT '',
			advertisement_number TEXT        NOT NULL DEFAULT '',
			location             TEXT        NOT NULL DEFAULT '',
			explanation          TEXT        NOT NULL DEFAULT '',
			categories           TEXT[]      NOT NULL DEFAULT '{}',
			advisor              TEXT        NOT NULL DEFAULT '',
			square_meter_gross   TEXT        NOT NULL DEFAULT '',
			square_meter_net     TEXT        NOT NULL DEFAULT '',
			number_rooms         TEXT        NOT NULL DEFAULT '',
			building_age         TEXT        NOT NULL DEFAULT '',
			floor_located        TEXT        NOT NULL DEFAULT '',
			number_floors        TEXT        NOT NULL DEFAULT '',
			heating              TEXT        NOT NULL DEFAULT '',
			number_bathrooms     TEXT        NOT NULL DEFAULT '',
			kitchen              TEXT        NOT NULL DEFAULT '',
			balcony              TEXT        NOT NULL DEFAULT '',
			lift                 TEXT        NOT NULL DEFAULT '',
			is_furnished         TEXT        NOT NULL DEFAULT '',
			usage_status         TEXT        NOT NULL DEFAULT '',
			dues                 TEXT        NOT NULL DEFAULT '',
			is_eligible_credit   TEXT        NOT NULL DEFAULT '',
			deed_status          TEXT        NOT NULL DEFAULT '',
			from_whom            TEXT        NOT NULL DEFAULT '',
			exchangeable         TEXT        NOT NULL DEFAULT '',
			ad_features          JSONB       NOT NULL DEFAULT '{}',
			image_urls           TEXT[]      NOT NULL DEFAULT '{}',
			run_id               UUID        NOT NULL,
			scraped_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_run_id     ON listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_listings_location   ON listings(location);
		CREATE INDEX IF NOT EXISTS idx_listings_categories ON listings USING GIN (categories);
	`)
	return err
}

// Write batch-upserts listings keyed by URL; a listing scraped again
// replaces its earlier row.
func (pw *PostgresWriter) Write(ctx context.Context, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(ctx, listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, batch []*models.Listing) error {
	query, args, err := buildUpsert(batch, pw.runID)
	if err != nil {
		return err
	}
	if _, err := pw.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: upsert batch: %w", err)
	}
	return nil
}

// buildUpsert renders one multi-row INSERT ... ON CONFLICT statement.
// Rows sharing a URL inside the batch are collapsed to the last one, since
// Postgres rejects a statement that updates the same row twice.
func buildUpsert(batch []*models.Listing, runID uuid.UUID) (string, []interface{}, error) {
	latest := make(map[string]int, len(batch))
	for i, l := range batch {
		latest[l.URL] = i
	}

	n := len(listingColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for i, l := range batch {
		if latest[l.URL] != i {
			continue
		}
		vals, err := listingValues(l, runID)
		if err != nil {
			return "", nil, err
		}
		base := len(valueArgs)
		placeholders := make([]string, n)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, vals...)
	}

	updates := make([]string, 0, n-1)
	for _, col := range listingColumns[1:] {
		updates = append(updates, col+" = EXCLUDED."+col)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (url) DO UPDATE SET %s
	`, strings.Join(listingColumns, ", "), strings.Join(valueStrings, ","), strings.Join(updates, ", "))

	return query, valueArgs, nil
}

func listingValues(l *models.Listing, runID uuid.UUID) ([]interface{}, error) {
	features := l.AdFeatures
	if features == nil {
		features = map[string]string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode ad features: %w", err)
	}

	categories := l.Categories
	if categories == nil {
		categories = []string{}
	}
	images := l.ImageURL
	if images == nil {
		images = []string{}
	}

	return []interface{}{
		l.URL, l.Name, l.Price, l.AdvertisementNumber, l.Location, l.Explanation,
		pq.Array(categories), l.Advisor,
		l.SquareMeterGross, l.SquareMeterNet, l.NumberRooms, l.BuildingAge,
		l.FloorLocated, l.NumberFloors, l.Heating, l.NumberBathrooms, l.Kitchen,
		l.Balcony, l.Lift, l.IsFurnished, l.UsageStatus, l.Dues,
		l.IsEligibleCredit, l.DeedStatus, l.FromWhom, l.Exchangeable,
		string(featuresJSON), pq.Array(images), runID.String(), l.ScrapedAt,
	}, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
