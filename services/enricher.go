package services

import (
	"context"

	"github.com/mmcloughlin/geohash"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

// geohashPrecision of 7 characters is a cell of roughly 150 m.
const geohashPrecision = 7

// Enricher adds coordinates, landmark distances and labels to listings.
type Enricher struct {
	geocoder Geocoder
	station  models.Landmark
	park     models.Landmark
	suffix   string
	criteria models.SearchCriteria
	logger   *utils.Logger
}

// NewEnricher creates an Enricher. A nil geocoder disables address lookups.
func NewEnricher(geocoder Geocoder, station, park models.Landmark, suffix string,
	criteria models.SearchCriteria, logger *utils.Logger) *Enricher {
	return &Enricher{
		geocoder: geocoder,
		station:  station,
		park:     park,
		suffix:   suffix,
		criteria: criteria,
		logger:   logger,
	}
}

// EnrichAll enriches listings one after another. The output has the same
// length and order as the input.
func (e *Enricher) EnrichAll(ctx context.Context, listings []models.NormalizedListing) []models.EnrichedListing {
	out := make([]models.EnrichedListing, 0, len(listings))
	var geocoded int
	for i, l := range listings {
		en := e.Enrich(ctx, l)
		if en.Geocoded {
			geocoded++
		}
		e.logger.Debug("[enricher] %d/%d done (pros %d, cons %d)", i+1, len(listings), len(en.Pros), len(en.Cons))
		out = append(out, en)
	}
	e.logger.Info("[enricher] Enriched %d listings (%d geocoded)", len(out), geocoded)
	return out
}

// Enrich never fails: a listing that cannot be located keeps nil distances.
func (e *Enricher) Enrich(ctx context.Context, l models.NormalizedListing) models.EnrichedListing {
	en := models.EnrichedListing{NormalizedListing: l}

	if !l.HasCoordinates() && l.Address != nil && e.geocoder != nil {
		if coords, ok := e.geocoder.Lookup(ctx, GeocodeQuery(*l.Address, e.suffix)); ok {
			lat, lon := coords.Lat, coords.Lon
			en.Lat = &lat
			en.Lon = &lon
			en.Geocoded = true
		}
	}

	if en.HasCoordinates() {
		here := models.Coordinates{Lat: *en.Lat, Lon: *en.Lon}
		station := DistanceKm(here, e.station.Coordinates)
		park := DistanceKm(here, e.park.Coordinates)
		en.DistStationKm = &station
		en.DistParkKm = &park
		en.Geohash = geohash.EncodeWithPrecision(here.Lat, here.Lon, geohashPrecision)
	}

	en.Pros, en.Cons = Annotate(en.NormalizedListing, e.criteria)
	return en
}

// GeocodeQuery appends the fixed city/region suffix to an address.
func GeocodeQuery(address, suffix string) string {
	if suffix == "" {
		return address
	}
	return address + ", " + suffix
}
