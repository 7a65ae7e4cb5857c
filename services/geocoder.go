package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

// Geocoder resolves a free-text address. A failed lookup is reported as
// ok == false, never as an error.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (coords models.Coordinates, ok bool)
}

// GeoCache remembers successful lookups between runs.
type GeoCache interface {
	Get(ctx context.Context, query string) (models.Coordinates, bool)
	Set(ctx context.Context, query string, coords models.Coordinates)
}

// NominatimGeocoder looks addresses up against a Nominatim-compatible search
// endpoint, one throttled request per lookup.
type NominatimGeocoder struct {
	endpoint  string
	userAgent string
	http      *retryablehttp.Client
	throttle  *utils.Throttle
	logger    *utils.Logger
}

// NewNominatimGeocoder creates a geocoder for the given endpoint.
func NewNominatimGeocoder(endpoint, userAgent string, client *retryablehttp.Client,
	throttle *utils.Throttle, logger *utils.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		endpoint:  endpoint,
		userAgent: userAgent,
		http:      client,
		throttle:  throttle,
		logger:    logger,
	}
}

// coordValue accepts a coordinate encoded as a JSON string or number.
type coordValue float64

func (c *coordValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*c = coordValue(f)
	return nil
}

type nominatimPlace struct {
	Lat *coordValue `json:"lat"`
	Lon *coordValue `json:"lon"`
}

// Lookup returns the coordinates of the first search hit.
func (g *NominatimGeocoder) Lookup(ctx context.Context, query string) (models.Coordinates, bool) {
	coords, err := g.lookup(ctx, query)
	if err != nil {
		g.logger.Warn("[geocoder] Lookup failed for %q: %v", query, err)
		return models.Coordinates{}, false
	}
	return coords, true
}

func (g *NominatimGeocoder) lookup(ctx context.Context, query string) (models.Coordinates, error) {
	if g.throttle != nil {
		if err := g.throttle.Wait(ctx); err != nil {
			return models.Coordinates{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return models.Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&places); err != nil {
		return models.Coordinates{}, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 || places[0].Lat == nil || places[0].Lon == nil {
		return models.Coordinates{}, fmt.Errorf("no results")
	}

	lat, lon := float64(*places[0].Lat), float64(*places[0].Lon)
	if !inRange(lat, 90) || !inRange(lon, 180) {
		return models.Coordinates{}, fmt.Errorf("coordinates out of range: %v, %v", lat, lon)
	}

	g.logger.Debug("[geocoder] %q → %.6f, %.6f", query, lat, lon)
	return models.Coordinates{Lat: lat, Lon: lon}, nil
}

// CachedGeocoder answers from a GeoCache before falling through to another Geocoder.
type CachedGeocoder struct {
	next  Geocoder
	cache GeoCache
}

// NewCachedGeocoder wraps next with cache.
func NewCachedGeocoder(next Geocoder, cache GeoCache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

// Lookup checks the cache, then the wrapped geocoder. Only hits are stored.
func (c *CachedGeocoder) Lookup(ctx context.Context, query string) (models.Coordinates, bool) {
	key := CacheKey(query)
	if coords, ok := c.cache.Get(ctx, key); ok {
		return coords, true
	}
	coords, ok := c.next.Lookup(ctx, query)
	if ok {
		c.cache.Set(ctx, key, coords)
	}
	return coords, ok
}

// CacheKey normalizes a geocode query for cache lookups.
func CacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
