package services

import (
	"context"

	"emlak-scraper/models"
	"emlak-scraper/scraper"
	"emlak-scraper/utils"
)

// Runner drives one strategy through link collection and detail extraction,
// one listing at a time.
type Runner struct {
	logger *utils.Logger
}

// NewRunner creates a Runner with the given logger.
func NewRunner(logger *utils.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run collects the listing links once, then extracts every listing in order.
// A listing that fails is logged and skipped; it never stops the batch.
// Cancelling ctx stops before the next listing and returns what was
// collected so far.
func (r *Runner) Run(ctx context.Context, s scraper.Strategy) []*models.Listing {
	links := s.CollectLinks(ctx)
	r.logger.Info("[runner] %s: total listings found: %d", s.Name(), len(links))

	listings := make([]*models.Listing, 0, len(links))
	failed := 0

	for i, url := range links {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("[runner] Stopping after %d/%d listings: %v", i, len(links), err)
			break
		}

		listing, err := r.extract(ctx, s, url)
		if err != nil {
			failed++
			r.logger.Error("[runner] Error scraping listing from URL: %s: %v", url, err)
			continue
		}

		listings = append(listings, listing)
		r.logger.Info("[runner] Scraped listing %d/%d: %s", i+1, len(links), listing.Name)
	}

	r.logger.Info("[runner] %s: done, %d scraped, %d failed", s.Name(), len(listings), failed)
	return listings
}

// extract shields the batch from a strategy that panics or returns neither a
// listing nor an error.
func (r *Runner) extract(ctx context.Context, s scraper.Strategy, url string) (listing *models.Listing, err error) {
	defer func() {
		if p := recover(); p != nil {
			listing, err = nil, &panicError{value: p}
		}
	}()

	listing, err = s.ExtractDetail(ctx, url)
	if err == nil && listing == nil {
		err = errNoListing
	}
	return listing, err
}
