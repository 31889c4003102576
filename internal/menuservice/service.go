package menuservice

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/mensa/internal/cache"
	"github.com/rohmanhakim/mensa/internal/fetcher"
	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/rohmanhakim/mensa/pkg/failure"
)

/*
MenuService answers "what does this canteen serve on this date" by
combining the fetcher, the extractor, and the menu store.

Responsibilities

- Serve fresh cached menus without touching the network
- Refresh stale or missing entries with a single fetch-and-extract pass
- Degrade to an uncached fetch when the store lock is unavailable

Fetch and extraction errors pass through unchanged and leave the store
untouched, so a stale entry survives a failed refresh and remains
available for a later attempt.
*/

// MenuExtractor turns a fetched document into the structured menu for one
// date. Satisfied by extractor.MenuExtractor.
type MenuExtractor interface {
	Extract(
		doc *goquery.Document,
		day menu.Date,
		canteen menu.Canteen,
	) (menu.Menu, failure.ClassifiedError)
}

type MenuService struct {
	fetcher      fetcher.DocumentFetcher
	extractor    MenuExtractor
	store        *cache.MenuStore
	metadataSink metadata.MetadataSink
	now          func() time.Time
}

func NewMenuService(
	documentFetcher fetcher.DocumentFetcher,
	menuExtractor MenuExtractor,
	store *cache.MenuStore,
	metadataSink metadata.MetadataSink,
) *MenuService {
	return NewMenuServiceWithClock(documentFetcher, menuExtractor, store, metadataSink, time.Now)
}

// NewMenuServiceWithClock creates a MenuService with an injected clock so
// tests can control freshness decisions.
func NewMenuServiceWithClock(
	documentFetcher fetcher.DocumentFetcher,
	menuExtractor MenuExtractor,
	store *cache.MenuStore,
	metadataSink metadata.MetadataSink,
	now func() time.Time,
) *MenuService {
	return &MenuService{
		fetcher:      documentFetcher,
		extractor:    menuExtractor,
		store:        store,
		metadataSink: metadataSink,
		now:          now,
	}
}

// FetchDailyMenu returns the menu for one canteen and date, from the
// store when fresh, otherwise from the live page.
func (s *MenuService) FetchDailyMenu(
	ctx context.Context,
	day menu.Date,
	canteen menu.Canteen,
) (menu.Menu, failure.ClassifiedError) {
	key := cache.Key{Canteen: canteen, Date: day}

	cached, outcome, lookupErr := s.store.Lookup(key, s.now())
	if lookupErr != nil {
		// The store is busy. Serving uncached is preferable to failing
		// the request or waiting out the lock holder.
		s.recordDegraded(key, lookupErr)
		return s.fetchAndExtract(ctx, day, canteen)
	}

	if outcome == cache.OutcomeHit {
		return cached, nil
	}

	result, err := s.fetchAndExtract(ctx, day, canteen)
	if err != nil {
		return menu.Menu{}, err
	}

	if putErr := s.store.Put(key, result, s.now()); putErr != nil {
		// The menu is already in hand; losing the cache write only costs
		// a future refetch.
		s.recordDegraded(key, putErr)
	}

	return result, nil
}

func (s *MenuService) fetchAndExtract(
	ctx context.Context,
	day menu.Date,
	canteen menu.Canteen,
) (menu.Menu, failure.ClassifiedError) {
	result, err := s.fetcher.FetchDocument(ctx, canteen)
	if err != nil {
		return menu.Menu{}, err
	}

	return s.extractor.Extract(result.Document(), day, canteen)
}

func (s *MenuService) recordDegraded(key cache.Key, cause failure.ClassifiedError) {
	s.metadataSink.RecordCache(key.String(), metadata.CacheBypass)
	s.metadataSink.RecordError(
		s.now(),
		"menuservice",
		"MenuService.FetchDailyMenu",
		metadata.CauseCacheDegraded,
		cause.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrCacheKey, key.String()),
		},
	)
}
