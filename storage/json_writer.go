package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"emlak-scraper/config"
	"emlak-scraper/models"
	"emlak-scraper/utils"
)

// JSONWriter keeps the scraped listings in a pretty-printed JSON file.
//
// In merge mode the file always holds a single array: the previous content
// and the new listings are written to a temp file that then replaces the
// original. Legacy mode appends a second array after the existing one, which
// is what older versions of the scraper produced.
type JSONWriter struct {
	path   string
	mode   string
	logger *utils.Logger
}

var _ ListingAppender = (*JSONWriter)(nil)

// NewJSONWriter creates a writer for path. mode is config.OutputModeMerge or
// config.OutputModeLegacy.
func NewJSONWriter(path, mode string, logger *utils.Logger) (*JSONWriter, error) {
	switch mode {
	case config.OutputModeMerge, config.OutputModeLegacy:
	default:
		return nil, fmt.Errorf("json: unknown output mode %q", mode)
	}
	return &JSONWriter{path: path, mode: mode, logger: logger}, nil
}

// Check reports whether the existing file can be extended. Call it before
// scraping so a corrupt file fails the run early.
func (w *JSONWriter) Check() error {
	_, err := ReadListings(w.path)
	return err
}

// Append adds listings to the file. The existing content must be valid JSON;
// a corrupt file is reported as an error and left untouched.
func (w *JSONWriter) Append(listings []*models.Listing) error {
	if listings == nil {
		listings = []*models.Listing{}
	}

	prior, err := ReadListings(w.path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("json: create output dir: %w", err)
		}
	}

	if w.mode == config.OutputModeLegacy {
		return w.appendArray(listings)
	}

	merged := make([]*models.Listing, 0, len(prior)+len(listings))
	merged = append(merged, prior...)
	merged = append(merged, listings...)
	if err := w.replace(merged); err != nil {
		return err
	}

	w.logger.Debug("[json] %s now holds %d listings (%d new)", w.path, len(merged), len(listings))
	return nil
}

func (w *JSONWriter) appendArray(listings []*models.Listing) error {
	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("json: open %q: %w", w.path, err)
	}

	if err := encode(f, listings); err != nil {
		_ = f.Close()
		return fmt.Errorf("json: append to %q: %w", w.path, err)
	}
	return f.Close()
}

func (w *JSONWriter) replace(listings []*models.Listing) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(w.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("json: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := encode(tmp, listings); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("json: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("json: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("json: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("json: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("json: replace %q: %w", w.path, err)
	}
	return nil
}

func encode(out io.Writer, listings []*models.Listing) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(listings)
}

// ReadListings loads every listing stored at path. A missing or blank file
// is an empty collection. Files holding several back-to-back arrays are
// flattened in order.
func ReadListings(path string) ([]*models.Listing, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []*models.Listing{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", path, err)
	}

	all := []*models.Listing{}
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var batch []*models.Listing
		err := dec.Decode(&batch)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("json: parse %q: %w", path, err)
		}
		all = append(all, batch...)
	}
	return all, nil
}
