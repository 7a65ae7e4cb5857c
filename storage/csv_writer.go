package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
)

var csvHeader = []string{
	"run_id", "position", "address", "url", "price", "price_display",
	"beds", "baths", "cars", "lat", "lon", "geohash", "geocoded",
	"dist_station_km", "dist_park_km", "pros", "cons",
}

// CSVWriter writes enriched listings to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

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

// Write appends one row per listing. Unknown values are left empty and
// pros/cons are joined with "; ".
func (c *CSVWriter) Write(run *models.Run, listings []models.EnrichedListing) error {
	for i, l := range listings {
		row := []string{
			run.ID.String(),
			strconv.Itoa(i + 1),
			str(l.Address),
			str(l.URL),
			intStr(l.Price),
			l.PriceDisplay,
			intStr(l.Beds),
			intStr(l.Baths),
			intStr(l.Cars),
			floatStr(l.Lat),
			floatStr(l.Lon),
			l.Geohash,
			strconv.FormatBool(l.Geocoded),
			floatStr(l.DistStationKm),
			floatStr(l.DistParkKm),
			strings.Join(l.Pros, "; "),
			strings.Join(l.Cons, "; "),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intStr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatStr(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
