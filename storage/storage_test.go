package storage

import (
	"context"
	"encoding/csv"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

func floatp(f float64) *float64 { return &f }

func TestCSVWriterWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "listings.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	run := models.NewRun(models.SearchCriteria{Suburb: "Parramatta", MaxPrice: 500000})
	listings := []models.EnrichedListing{
		{
			NormalizedListing: models.NormalizedListing{
				Price: intp(450000), PriceDisplay: "$450,000", Beds: intp(2), Baths: intp(2), Cars: intp(1),
				Address: strp("1 Church St"), URL: strp("https://example.com/1"),
				Lat: floatp(-33.815), Lon: floatp(151.01),
			},
			DistStationKm: floatp(0.68),
			DistParkKm:    floatp(0.7),
			Geohash:       "r3gqu2x",
			Geocoded:      true,
			Pros:          []string{"has 1+ car space", "2 beds + 2 baths"},
			Cons:          []string{},
		},
		{},
	}

	if err := w.Write(run, listings); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3 (header + 2)", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header: got %v", rows[0])
	}

	first := rows[1]
	if first[0] != run.ID.String() || first[1] != "1" || first[2] != "1 Church St" || first[4] != "450000" {
		t.Errorf("first row: got %v", first)
	}
	if first[12] != "true" || first[13] != "0.68" || first[15] != "has 1+ car space; 2 beds + 2 baths" {
		t.Errorf("first row enrichment: got %v", first)
	}

	second := rows[2]
	if second[1] != "2" || second[2] != "" || second[4] != "" || second[13] != "" {
		t.Errorf("unknown values should be empty: got %v", second)
	}
}

func TestMemoryGeoCache(t *testing.T) {
	c := NewMemoryGeoCache()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("empty cache should miss")
	}
	c.Set(ctx, "a", models.Coordinates{Lat: 1.5, Lon: -2})
	got, ok := c.Get(ctx, "a")
	if !ok || got.Lat != 1.5 || got.Lon != -2 {
		t.Errorf("got %+v, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len: got %d, want 1", c.Len())
	}
}

func TestCoordinatesEncoding(t *testing.T) {
	in := models.Coordinates{Lat: -33.8178, Lon: 151.0035}
	enc := EncodeCoordinates(in)
	if enc != "-33.8178,151.0035" {
		t.Errorf("EncodeCoordinates: got %q", enc)
	}

	for _, bad := range []string{"", "1", "x,1", "1,y"} {
		if _, err := DecodeCoordinates(bad); err == nil {
			t.Errorf("DecodeCoordinates(%q): expected error", bad)
		}
	}
}

func TestRedisGeoCacheUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := utils.NewLoggerTo(io.Discard, "error")
	if _, err := NewRedisGeoCache(ctx, addr, "", 0, time.Hour, logger); err == nil {
		t.Error("expected an error for an unreachable Redis")
	}
}

func TestBuildInsertQuery(t *testing.T) {
	q := buildInsertQuery(2)

	if !strings.Contains(q, "($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)") {
		t.Errorf("first row placeholders missing:\n%s", q)
	}
	if !strings.Contains(q, "($18,") || !strings.Contains(q, ",$34)") {
		t.Errorf("second row placeholders missing:\n%s", q)
	}
	if strings.Contains(q, "$35") {
		t.Errorf("too many placeholders:\n%s", q)
	}
}
