package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchCriteria describes one listing search. It is built once at startup.
type SearchCriteria struct {
	Suburb       string
	State        string
	MaxPrice     int
	MinBeds      int
	MaxBeds      int
	MinCarSpaces int
	Limit        int
}

// RawListing holds one record exactly as the listing API returned it.
// Key names and value shapes vary by provider.
type RawListing map[string]any

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Landmark is a fixed point of interest that listings are measured against.
type Landmark struct {
	Name string
	Coordinates
}

// NormalizedListing is the canonical shape of a listing.
// A nil field means the value is unknown, which is not the same as zero.
type NormalizedListing struct {
	Price        *int
	PriceDisplay string
	Beds         *int
	Baths        *int
	Cars         *int
	Address      *string
	URL          *string
	Lat          *float64
	Lon          *float64
}

// HasCoordinates reports whether both latitude and longitude are known.
func (n NormalizedListing) HasCoordinates() bool {
	return n.Lat != nil && n.Lon != nil
}

// EnrichedListing is a NormalizedListing plus distances and pros/cons labels.
type EnrichedListing struct {
	NormalizedListing

	DistStationKm *float64
	DistParkKm    *float64
	Geohash       string
	Geocoded      bool

	Pros []string
	Cons []string
}

// Run identifies one execution of the pipeline.
type Run struct {
	ID        uuid.UUID
	Criteria  SearchCriteria
	StartedAt time.Time
}

// NewRun starts a Run for the given criteria.
func NewRun(criteria SearchCriteria) *Run {
	return &Run{
		ID:        uuid.New(),
		Criteria:  criteria,
		StartedAt: time.Now(),
	}
}

// RunSummary holds aggregate figures over the enriched listings of a run.
type RunSummary struct {
	TotalListings   int
	PricedListings  int
	AveragePrice    float64
	MinPrice        int
	MaxPrice        int
	WithCoordinates int
	Geocoded        int
	NearestStation  *EnrichedListing
	LabelCounts     map[string]int
}
