package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emlak-scraper/models"
)

func TestCSVWriterRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "listings.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), []*models.Listing{testListing("1")}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Len(t, rows[1], len(csvHeader))
	assert.Equal(t, "https://emlak.test/ilan/1", rows[1][0])
	assert.Equal(t, "Konut > Satılık", rows[1][5])
	assert.Equal(t, "2", rows[1][16])
	assert.Equal(t, "", rows[1][17])
}
