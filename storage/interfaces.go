package storage

import "github.com/MatthewIrwin123/Parramatta-property-listings/models"

// ListingWriter is the interface any storage backend for enriched listings must satisfy.
type ListingWriter interface {
	Write(run *models.Run, listings []models.EnrichedListing) error
	Close() error
}
