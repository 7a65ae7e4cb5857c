package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
)

// ErrMissingCredentials is returned by Validate when the listing API key or host is unset.
var ErrMissingCredentials = errors.New("RAPIDAPI_KEY and RAPIDAPI_HOST must be set as environment variables")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RapidAPIKey     string
	RapidAPIHost    string
	RapidAPIPath    string
	RapidAPIBaseURL string
	APITimeout      time.Duration
	APIMaxRetries   int

	Suburb       string
	State        string
	MaxPrice     int
	MinBeds      int
	MaxBeds      int
	MinCarSpaces int
	Limit        int

	GeocodeEnabled   bool
	GeocodeURL       string
	GeocodeUserAgent string
	GeocodeSuffix    string
	GeocodeTimeout   time.Duration
	GeocodeRate      float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	GeocodeTTL    time.Duration

	Station models.Landmark
	Park    models.Landmark

	Keys models.FieldKeys

	PDFOutputPath string
	CSVOutputPath string
	PostgresDSN   string
	ChromeBin     string
	LogLevel      string

	// DotEnvErr is set when no .env file could be read.
	DotEnvErr error
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	dotEnvErr := godotenv.Load()

	host := getEnv("RAPIDAPI_HOST", "")
	cfg := &Config{
		RapidAPIKey:     getEnv("RAPIDAPI_KEY", ""),
		RapidAPIHost:    host,
		RapidAPIPath:    getEnv("RAPIDAPI_PATH", "/properties/list-for-sale"),
		RapidAPIBaseURL: getEnv("RAPIDAPI_BASE_URL", ""),
		APITimeout:      time.Duration(getEnvInt("API_TIMEOUT_SEC", 30)) * time.Second,
		APIMaxRetries:   getEnvInt("API_MAX_RETRIES", 0),

		Suburb:       getEnv("SEARCH_SUBURB", "Parramatta"),
		State:        getEnv("SEARCH_STATE", "NSW"),
		MaxPrice:     getEnvInt("SEARCH_MAX_PRICE", 500000),
		MinBeds:      getEnvInt("SEARCH_MIN_BEDS", 1),
		MaxBeds:      getEnvInt("SEARCH_MAX_BEDS", 2),
		MinCarSpaces: getEnvInt("SEARCH_MIN_CARSPACES", 1),
		Limit:        getEnvInt("SEARCH_LIMIT", 40),

		GeocodeEnabled:   getEnvBool("GEOCODE_ENABLED", true),
		GeocodeURL:       getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeUserAgent: getEnv("GEOCODE_USER_AGENT", "parramatta-bot/1.0"),
		GeocodeSuffix:    getEnv("GEOCODE_SUFFIX", "Parramatta NSW"),
		GeocodeTimeout:   time.Duration(getEnvInt("GEOCODE_TIMEOUT_SEC", 10)) * time.Second,
		GeocodeRate:      getEnvFloat("GEOCODE_RATE_PER_SEC", 1),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		GeocodeTTL:    time.Duration(getEnvInt("GEOCODE_CACHE_TTL_HOURS", 720)) * time.Hour,

		Station: models.Landmark{
			Name: getEnv("STATION_NAME", "station"),
			Coordinates: models.Coordinates{
				Lat: getEnvFloat("STATION_LAT", -33.8178),
				Lon: getEnvFloat("STATION_LON", 151.0035),
			},
		},
		Park: models.Landmark{
			Name: getEnv("PARK_NAME", "Parramatta Park"),
			Coordinates: models.Coordinates{
				Lat: getEnvFloat("PARK_LAT", -33.8145),
				Lon: getEnvFloat("PARK_LON", 151.0024),
			},
		},

		Keys: loadFieldKeys(),

		PDFOutputPath: getEnv("PDF_OUTPUT_PATH", "listings.pdf"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ChromeBin:     getEnv("CHROME_BIN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DotEnvErr: dotEnvErr,
	}
	if cfg.RapidAPIBaseURL == "" && host != "" {
		cfg.RapidAPIBaseURL = "https://" + host
	}
	return cfg
}

// Validate checks the settings without which the run is meaningless.
func (c *Config) Validate() error {
	if c.RapidAPIKey == "" || c.RapidAPIHost == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Criteria returns the search parameters of this run.
func (c *Config) Criteria() models.SearchCriteria {
	return models.SearchCriteria{
		Suburb:       c.Suburb,
		State:        c.State,
		MaxPrice:     c.MaxPrice,
		MinBeds:      c.MinBeds,
		MaxBeds:      c.MaxBeds,
		MinCarSpaces: c.MinCarSpaces,
		Limit:        c.Limit,
	}
}

// ListingURL returns the full listing endpoint URL.
func (c *Config) ListingURL() string {
	return strings.TrimRight(c.RapidAPIBaseURL, "/") + c.RapidAPIPath
}

func loadFieldKeys() models.FieldKeys {
	def := models.DefaultFieldKeys()
	return models.FieldKeys{
		Container: getEnvList("LISTING_CONTAINER_KEYS", def.Container),
		Price:     getEnvList("LISTING_KEYS_PRICE", def.Price),
		Beds:      getEnvList("LISTING_KEYS_BEDS", def.Beds),
		Baths:     getEnvList("LISTING_KEYS_BATHS", def.Baths),
		Cars:      getEnvList("LISTING_KEYS_CARS", def.Cars),
		Address:   getEnvList("LISTING_KEYS_ADDRESS", def.Address),
		URL:       getEnvList("LISTING_KEYS_URL", def.URL),
		Lat:       getEnvList("LISTING_KEYS_LAT", def.Lat),
		Lon:       getEnvList("LISTING_KEYS_LON", def.Lon),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
