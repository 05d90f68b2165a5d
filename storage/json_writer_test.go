package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emlak-scraper/config"
	"emlak-scraper/models"
	"emlak-scraper/utils"
)

func testListing(name string) *models.Listing {
	return &models.Listing{
		Name:       name,
		Price:      "1.000.000 TL",
		Categories: []string{"Konut", "Satılık"},
		AdFeatures: map[string]string{"Otopark": "Var"},
		ImageURL:   []string{"https://cdn.emlak.test/a.jpg", "https://cdn.emlak.test/a.jpg"},
		URL:        "https://emlak.test/ilan/" + name,
	}
}

func newJSONWriter(t *testing.T, path, mode string) *JSONWriter {
	t.Helper()
	w, err := NewJSONWriter(path, mode, utils.NopLogger())
	require.NoError(t, err)
	return w
}

func TestAppendFreshFileWritesSingleArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "compiled.json")
	records := []*models.Listing{testListing("1"), testListing("2")}

	require.NoError(t, newJSONWriter(t, path, config.OutputModeMerge).Append(records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw), "file must be one JSON array")
	require.Len(t, raw, 2)
	assert.Equal(t, "1", raw[0]["name"])
	assert.Contains(t, raw[0], "advertisementNumber")
	assert.Contains(t, raw[0], "adFeatures")
	assert.Contains(t, raw[0], "imageUrl")
	assert.Equal(t, "", raw[0]["heating"])
	assert.NotContains(t, raw[0], "url")
	assert.Len(t, raw[0], 27)

	got, err := ReadListings(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, records[1].Name, got[1].Name)
	assert.Equal(t, records[1].Categories, got[1].Categories)
	assert.Equal(t, records[1].AdFeatures, got[1].AdFeatures)
	assert.Equal(t, records[1].ImageURL, got[1].ImageURL)
	assert.Empty(t, got[1].URL)
}

func TestAppendIsPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	require.NoError(t, newJSONWriter(t, path, config.OutputModeMerge).Append([]*models.Listing{testListing("1")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"name\": \"1\""), string(data))
}

func TestAppendMergesWithExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	w := newJSONWriter(t, path, config.OutputModeMerge)

	require.NoError(t, w.Append([]*models.Listing{testListing("1")}))
	require.NoError(t, w.Append([]*models.Listing{testListing("2"), testListing("3")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 3)
	assert.Equal(t, "3", raw[2]["name"])
}

func TestAppendEmptyFileIsEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	require.NoError(t, newJSONWriter(t, path, config.OutputModeMerge).Append([]*models.Listing{testListing("1")}))

	got, err := ReadListings(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAppendNoListingsWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")

	require.NoError(t, newJSONWriter(t, path, config.OutputModeMerge).Append(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestAppendCorruptFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	corrupt := []byte(`[{"name": "half`)
	require.NoError(t, os.WriteFile(path, corrupt, 0644))

	err := newJSONWriter(t, path, config.OutputModeMerge).Append([]*models.Listing{testListing("1")})
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, corrupt, data, "corrupt file must be left untouched")
}

func TestCheckCorruptFileFailsWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	corrupt := []byte("[{\"name\": ")
	require.NoError(t, os.WriteFile(path, corrupt, 0644))

	w := newJSONWriter(t, path, config.OutputModeMerge)
	assert.Error(t, w.Check())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, data)
}

func TestCheckMissingAndValidFiles(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, newJSONWriter(t, filepath.Join(dir, "missing.json"), config.OutputModeMerge).Check())

	path := filepath.Join(dir, "compiled.json")
	w := newJSONWriter(t, path, config.OutputModeLegacy)
	require.NoError(t, w.Append([]*models.Listing{testListing("1")}))
	require.NoError(t, w.Append([]*models.Listing{testListing("2")}))
	assert.NoError(t, w.Check())
}

func TestAppendMergeKeepsFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0600))
	require.NoError(t, os.Chmod(path, 0600))

	require.NoError(t, newJSONWriter(t, path, config.OutputModeMerge).Append([]*models.Listing{testListing("1")}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAppendMergeNewFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")

	require.NoError(t, newJSONWriter(t, path, config.OutputModeMerge).Append([]*models.Listing{testListing("1")}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestAppendLegacyModeConcatenatesArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	w := newJSONWriter(t, path, config.OutputModeLegacy)

	require.NoError(t, w.Append([]*models.Listing{testListing("1")}))
	require.NoError(t, w.Append([]*models.Listing{testListing("2")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var single []map[string]any
	assert.Error(t, json.Unmarshal(data, &single), "legacy output is not a single array")
	assert.Equal(t, 2, strings.Count(string(data), "\n]"))

	got, err := ReadListings(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Name)
	assert.Equal(t, "2", got[1].Name)
}

func TestMergeModeRepairsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.json")
	require.NoError(t, newJSONWriter(t, path, config.OutputModeLegacy).Append([]*models.Listing{testListing("1")}))
	require.NoError(t, newJSONWriter(t, path, config.OutputModeLegacy).Append([]*models.Listing{testListing("2")}))

	require.NoError(t, newJSONWriter(t, path, config.OutputModeMerge).Append([]*models.Listing{testListing("3")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 3)
}

func TestReadListingsMissingFile(t *testing.T) {
	got, err := ReadListings(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewJSONWriterRejectsUnknownMode(t *testing.T) {
	_, err := NewJSONWriter("x.json", "overwrite", utils.NopLogger())
	assert.Error(t, err)
}
