package scraper

import (
	"context"
	"errors"
	"time"

	"emlak-scraper/models"
)

var (
	// ErrNotFound means a locator matched no element.
	ErrNotFound = errors.New("element not found")
	// ErrNotReady means a wait for an element ran out of time.
	ErrNotReady = errors.New("element not ready before timeout")
)

// Page is the set of browser operations the extraction pipeline relies on.
// Locators are XPath expressions. Implementations drive a single tab and are
// not safe for concurrent use.
type Page interface {
	// Navigate loads url in the current tab.
	Navigate(ctx context.Context, url string) error
	// Texts returns the trimmed visible text of every element matching
	// locator, in document order. No match is an empty slice, not an error.
	Texts(ctx context.Context, locator string) ([]string, error)
	// Attrs returns attribute attr of every element matching locator, in
	// document order. Elements lacking the attribute yield "".
	Attrs(ctx context.Context, locator, attr string) ([]string, error)
	// Exists reports whether at least one element matches locator.
	Exists(ctx context.Context, locator string) (bool, error)
	// Click activates the first element matching locator.
	Click(ctx context.Context, locator string) error
	// WaitFor blocks until locator matches an element or timeout elapses,
	// in which case the error wraps ErrNotReady.
	WaitFor(ctx context.Context, locator string, timeout time.Duration) error
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// Strategy extracts listings from one website.
type Strategy interface {
	Name() string
	// CollectLinks returns the deduplicated listing URLs in discovery order.
	// Failures degrade to a partial or empty result.
	CollectLinks(ctx context.Context) []string
	// ExtractDetail returns a fully populated listing, or an error when any
	// step of the extraction did not complete.
	ExtractDetail(ctx context.Context, url string) (*models.Listing, error)
}
