package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"emlak-scraper/utils"
)

// FieldReader reads single optional values from the current page.
// A missing element and a failed query both read as "".
type FieldReader struct {
	page   Page
	logger *utils.Logger
}

// NewFieldReader creates a FieldReader over page.
func NewFieldReader(page Page, logger *utils.Logger) *FieldReader {
	return &FieldReader{page: page, logger: logger}
}

// Lookup returns the text of the first element matching locator. It returns
// ErrNotFound when nothing matches and the query error otherwise.
func (r *FieldReader) Lookup(ctx context.Context, locator string) (string, error) {
	texts, err := r.page.Texts(ctx, locator)
	if err != nil {
		return "", fmt.Errorf("query %s: %w", locator, err)
	}
	if len(texts) == 0 {
		return "", ErrNotFound
	}
	return strings.TrimSpace(texts[0]), nil
}

// LookupAttr is Lookup for an attribute of the first matching element.
func (r *FieldReader) LookupAttr(ctx context.Context, locator, attr string) (string, error) {
	vals, err := r.page.Attrs(ctx, locator, attr)
	if err != nil {
		return "", fmt.Errorf("query %s@%s: %w", locator, attr, err)
	}
	if len(vals) == 0 {
		return "", ErrNotFound
	}
	return strings.TrimSpace(vals[0]), nil
}

// Read returns the text of the first element matching locator, or "".
func (r *FieldReader) Read(ctx context.Context, locator string) string {
	v, err := r.Lookup(ctx, locator)
	return r.soften(v, err)
}

// ReadAttr returns attribute attr of the first element matching locator, or "".
func (r *FieldReader) ReadAttr(ctx context.Context, locator, attr string) string {
	v, err := r.LookupAttr(ctx, locator, attr)
	return r.soften(v, err)
}

func (r *FieldReader) soften(v string, err error) string {
	if err == nil {
		return v
	}
	if !errors.Is(err, ErrNotFound) && r.logger != nil {
		r.logger.Debug("[reader] %v", err)
	}
	return ""
}
