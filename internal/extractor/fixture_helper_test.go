package extractor_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// fixtureDir returns the path to the fixture directory
func fixtureDir() string {
	return filepath.Join(".", "fixture")
}

// loadFixtureDocument reads a fixture file and parses it into a goquery
// document, the same form the fetcher hands to Extract().
func loadFixtureDocument(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	path := filepath.Join(fixtureDir(), filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to read fixture %s", filename)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	require.NoError(t, err, "Failed to parse fixture HTML %s", filename)
	return doc
}
