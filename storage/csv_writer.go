package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"emlak-scraper/models"
)

var csvHeader = []string{
	"url", "name", "price", "advertisement_number", "location", "categories", "advisor",
	"square_meter_gross", "square_meter_net", "number_rooms", "building_age",
	"floor_located", "number_floors", "heating", "number_bathrooms",
	"from_whom", "image_count", "scraped_at",
}

// CSVWriter writes a flat, spreadsheet-friendly view of the listings.
// Collections are summarised: categories are joined with " > " and images
// are counted. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

var _ ListingWriter = (*CSVWriter)(nil)

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing.
func (c *CSVWriter) Write(ctx context.Context, listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.writer.Write(csvRow(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

func csvRow(l *models.Listing) []string {
	scrapedAt := ""
	if !l.ScrapedAt.IsZero() {
		scrapedAt = l.ScrapedAt.Format(time.RFC3339)
	}
	return []string{
		l.URL,
		l.Name,
		l.Price,
		l.AdvertisementNumber,
		l.Location,
		strings.Join(l.Categories, " > "),
		l.Advisor,
		l.SquareMeterGross,
		l.SquareMeterNet,
		l.NumberRooms,
		l.BuildingAge,
		l.FloorLocated,
		l.NumberFloors,
		l.Heating,
		l.NumberBathrooms,
		l.FromWhom,
		strconv.Itoa(len(l.ImageURL)),
		scrapedAt,
	}
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
