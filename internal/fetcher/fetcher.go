package fetcher

import (
	"context"

	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/pkg/failure"
)

// DocumentFetcher resolves a canteen to its fixed menu page URL and
// retrieves the current document. One URL per canteen, one retrieval per
// call: no retries and no caching at this layer.
type DocumentFetcher interface {
	FetchDocument(
		ctx context.Context,
		canteen menu.Canteen,
	) (FetchResult, failure.ClassifiedError)
}
