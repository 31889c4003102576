package fetcher

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/mensa/internal/menu"
)

// HTTP boundary

// FetchResult is a successfully retrieved and parsed menu page. The
// document is the queryable tree handed to the extractor; the content hash
// is the BLAKE3 digest of the raw body, recorded for drift diagnostics.
type FetchResult struct {
	canteen     menu.Canteen
	fetchURL    string
	document    *goquery.Document
	statusCode  int
	contentHash string
}

func (f *FetchResult) Canteen() menu.Canteen {
	return f.canteen
}

func (f *FetchResult) URL() string {
	return f.fetchURL
}

func (f *FetchResult) Document() *goquery.Document {
	return f.document
}

func (f *FetchResult) Code() int {
	return f.statusCode
}

func (f *FetchResult) ContentHash() string {
	return f.contentHash
}

// NewFetchResultForTest creates a FetchResult for testing purposes. This
// allows test packages to construct FetchResult values without accessing
// unexported fields directly.
func NewFetchResultForTest(
	canteen menu.Canteen,
	fetchURL string,
	document *goquery.Document,
	statusCode int,
	contentHash string,
) FetchResult {
	return FetchResult{
		canteen:     canteen,
		fetchURL:    fetchURL,
		document:    document,
		statusCode:  statusCode,
		contentHash: contentHash,
	}
}
