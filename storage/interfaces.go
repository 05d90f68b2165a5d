package storage

import (
	"context"

	"emlak-scraper/models"
)

// ListingWriter is the interface any secondary storage backend must satisfy.
type ListingWriter interface {
	Write(ctx context.Context, listings []*models.Listing) error
	Close() error
}

// ListingAppender adds a run's listings to a persistent collection.
type ListingAppender interface {
	Append(listings []*models.Listing) error
}
