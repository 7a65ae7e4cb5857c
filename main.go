package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MatthewIrwin123/Parramatta-property-listings/config"
	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/report"
	"github.com/MatthewIrwin123/Parramatta-property-listings/scraper/realty"
	"github.com/MatthewIrwin123/Parramatta-property-listings/services"
	"github.com/MatthewIrwin123/Parramatta-property-listings/storage"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel)

	if cfg.DotEnvErr != nil {
		logger.Debug("No .env file loaded: %v", cfg.DotEnvErr)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := models.NewRun(cfg.Criteria())
	logger.Info("=== Property listings run %s starting ===", run.ID)
	logger.Info("Criteria: %s %s | max $%d | %d-%d beds | %d+ car",
		run.Criteria.Suburb, run.Criteria.State, run.Criteria.MaxPrice,
		run.Criteria.MinBeds, run.Criteria.MaxBeds, run.Criteria.MinCarSpaces)

	if err := execute(ctx, cfg, run, logger); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func execute(ctx context.Context, cfg *config.Config, run *models.Run, logger *utils.Logger) error {
	body, err := realty.New(cfg, logger).Search(ctx, run.Criteria)
	if err != nil {
		return err
	}

	doc, err := services.DecodeDocument(bytes.NewReader(body))
	if err != nil {
		return err
	}
	raw, err := services.FindListings(doc, cfg.Keys.Container)
	if err != nil {
		return err
	}
	logger.Info("Found %d raw listings", len(raw))

	normalized := services.NewNormalizer(cfg.Keys, logger).NormalizeAll(raw)

	geocoder, closeCache := newGeocoder(ctx, cfg, logger)
	defer closeCache()

	enriched := services.NewEnricher(geocoder, cfg.Station, cfg.Park, cfg.GeocodeSuffix, run.Criteria, logger).
		EnrichAll(ctx, normalized)

	pdf := report.BuildDocument(report.Title(run.Criteria), enriched, cfg.Station, cfg.Park)
	renderer := report.NewRenderer(report.NewChromePrinter(cfg.ChromeBin, logger), logger)
	if err := renderer.Write(ctx, pdf, cfg.PDFOutputPath); err != nil {
		return err
	}

	archive(ctx, cfg, run, enriched, logger)

	insights := services.NewInsightService(logger)
	insights.Print(os.Stdout, insights.Generate(enriched))

	fmt.Printf("  Done. PDF → %s\n\n", cfg.PDFOutputPath)
	return nil
}

// newGeocoder builds the cached Nominatim geocoder. GEOCODE_ENABLED=false
// disables address lookups.
func newGeocoder(ctx context.Context, cfg *config.Config, logger *utils.Logger) (services.Geocoder, func()) {
	if !cfg.GeocodeEnabled {
		logger.Warn("Geocoding disabled: listings without coordinates get no distances")
		return nil, func() {}
	}

	nominatim := services.NewNominatimGeocoder(
		cfg.GeocodeURL,
		cfg.GeocodeUserAgent,
		utils.NewHTTPClient(cfg.GeocodeTimeout, 0, logger),
		utils.NewThrottle(cfg.GeocodeRate, 1),
		logger,
	)

	if cfg.RedisAddr != "" {
		cache, err := storage.NewRedisGeoCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.GeocodeTTL, logger)
		if err == nil {
			logger.Info("Geocode cache: redis at %s", cfg.RedisAddr)
			return services.NewCachedGeocoder(nominatim, cache), func() { _ = cache.Close() }
		}
		logger.Warn("Redis unavailable (%v), falling back to in-memory geocode cache", err)
	}

	return services.NewCachedGeocoder(nominatim, storage.NewMemoryGeoCache()), func() {}
}

// archive writes the enriched listings to the optional CSV and PostgreSQL
// sinks. Failures are logged; the PDF has already been written.
func archive(ctx context.Context, cfg *config.Config, run *models.Run, listings []models.EnrichedListing, logger *utils.Logger) {
	var writers []storage.ListingWriter

	if cfg.CSVOutputPath != "" {
		w, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
		} else {
			writers = append(writers, w)
		}
	}

	if cfg.PostgresDSN != "" {
		retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
		w, err := storage.NewPostgresWriter(ctx, cfg.PostgresDSN, retry)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			writers = append(writers, w)
		}
	}

	for _, w := range writers {
		if err := w.Write(run, listings); err != nil {
			logger.Error("Archive write failed: %v", err)
		}
		if err := w.Close(); err != nil {
			logger.Error("Archive close failed: %v", err)
		}
	}
	if len(writers) > 0 {
		logger.Info("Archived %d listings for run %s", len(listings), run.ID)
	}
}
