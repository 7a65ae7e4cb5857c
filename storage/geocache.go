package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

const geocodeKeyPrefix = "geocode:"

// MemoryGeoCache keeps geocode hits for the lifetime of the process.
type MemoryGeoCache struct {
	mu    sync.RWMutex
	items map[string]models.Coordinates
}

// NewMemoryGeoCache creates an empty in-process cache.
func NewMemoryGeoCache() *MemoryGeoCache {
	return &MemoryGeoCache{items: make(map[string]models.Coordinates)}
}

func (c *MemoryGeoCache) Get(_ context.Context, key string) (models.Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	coords, ok := c.items[key]
	return coords, ok
}

func (c *MemoryGeoCache) Set(_ context.Context, key string, coords models.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = coords
}

// Len returns the number of cached entries.
func (c *MemoryGeoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// RedisGeoCache shares geocode hits across runs through Redis.
// Redis errors degrade to cache misses.
type RedisGeoCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *utils.Logger
}

// NewRedisGeoCache connects to Redis and verifies the connection.
func NewRedisGeoCache(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *utils.Logger) (*RedisGeoCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return &RedisGeoCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func (c *RedisGeoCache) Get(ctx context.Context, key string) (models.Coordinates, bool) {
	val, err := c.rdb.Get(ctx, geocodeKeyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("[geocache] Redis get failed: %v", err)
		}
		return models.Coordinates{}, false
	}
	coords, err := DecodeCoordinates(val)
	if err != nil {
		c.logger.Warn("[geocache] Ignoring bad cache entry %q: %v", val, err)
		return models.Coordinates{}, false
	}
	return coords, true
}

func (c *RedisGeoCache) Set(ctx context.Context, key string, coords models.Coordinates) {
	if err := c.rdb.Set(ctx, geocodeKeyPrefix+key, EncodeCoordinates(coords), c.ttl).Err(); err != nil {
		c.logger.Warn("[geocache] Redis set failed: %v", err)
	}
}

func (c *RedisGeoCache) Close() error {
	return c.rdb.Close()
}

// EncodeCoordinates renders coordinates as "lat,lon".
func EncodeCoordinates(c models.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// DecodeCoordinates parses the output of EncodeCoordinates.
func DecodeCoordinates(s string) (models.Coordinates, error) {
	latStr, lonStr, found := strings.Cut(s, ",")
	if !found {
		return models.Coordinates{}, fmt.Errorf("missing separator")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("longitude: %w", err)
	}
	return models.Coordinates{Lat: lat, Lon: lon}, nil
}
