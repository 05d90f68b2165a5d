package scraper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emlak-scraper/scraper"
	"emlak-scraper/scraper/scrapertest"
	"emlak-scraper/utils"
)

const pageURL = "https://example.com/listing/1"

func newReader(t *testing.T, doc *scrapertest.Document) *scraper.FieldReader {
	t.Helper()
	page := scrapertest.NewPage(map[string]*scrapertest.Document{pageURL: doc})
	require.NoError(t, page.Navigate(context.Background(), pageURL))
	return scraper.NewFieldReader(page, utils.NopLogger())
}

func TestReadReturnsFirstMatchTrimmed(t *testing.T) {
	r := newReader(t, &scrapertest.Document{
		Texts: map[string][]string{"//h1": {"  Satılık Daire \n", "second"}},
	})

	assert.Equal(t, "Satılık Daire", r.Read(context.Background(), "//h1"))
}

func TestReadMissingElementIsEmpty(t *testing.T) {
	r := newReader(t, &scrapertest.Document{})

	assert.Equal(t, "", r.Read(context.Background(), "//h1"))

	_, err := r.Lookup(context.Background(), "//h1")
	assert.ErrorIs(t, err, scraper.ErrNotFound)
}

func TestReadQueryErrorIsEmpty(t *testing.T) {
	boom := errors.New("invalid xpath")
	r := newReader(t, &scrapertest.Document{
		Texts:  map[string][]string{"//h1[": {"x"}},
		Errors: map[string]error{"//h1[": boom},
	})

	assert.Equal(t, "", r.Read(context.Background(), "//h1["))

	_, err := r.Lookup(context.Background(), "//h1[")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, scraper.ErrNotFound)
}

func TestReadAttr(t *testing.T) {
	r := newReader(t, &scrapertest.Document{
		Attrs: map[string]map[string][]string{
			"//a": {"href": {"https://example.com/a", "https://example.com/b"}},
		},
	})

	assert.Equal(t, "https://example.com/a", r.ReadAttr(context.Background(), "//a", "href"))
	assert.Equal(t, "", r.ReadAttr(context.Background(), "//a", "title"))
	assert.Equal(t, "", r.ReadAttr(context.Background(), "//img", "src"))
}
