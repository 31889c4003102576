package menuservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/mensa/internal/cache"
	"github.com/rohmanhakim/mensa/internal/extractor"
	"github.com/rohmanhakim/mensa/internal/fetcher"
	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/internal/menuservice"
	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/rohmanhakim/mensa/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMetadataSink is a test spy for metadata.MetadataSink
type mockMetadataSink struct {
	errorCauses   []metadata.ErrorCause
	cacheOutcomes []metadata.CacheOutcome
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	errorString string,
	attrs []metadata.Attribute,
) {
	m.errorCauses = append(m.errorCauses, cause)
}

func (m *mockMetadataSink) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentHash string,
) {
}

func (m *mockMetadataSink) RecordCache(key string, outcome metadata.CacheOutcome) {
	m.cacheOutcomes = append(m.cacheOutcomes, outcome)
}

func (m *mockMetadataSink) degradedCount() int {
	count := 0
	for _, cause := range m.errorCauses {
		if cause == metadata.CauseCacheDegraded {
			count++
		}
	}
	return count
}

// stubFetcher returns a canned document, or a canned error when set.
type stubFetcher struct {
	calls int
	err   failure.ClassifiedError
}

func (f *stubFetcher) FetchDocument(
	ctx context.Context,
	canteen menu.Canteen,
) (fetcher.FetchResult, failure.ClassifiedError) {
	f.calls++
	if f.err != nil {
		return fetcher.FetchResult{}, f.err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		panic(err)
	}
	return fetcher.NewFetchResultForTest(canteen, "https://menus.test/page.html", doc, 200, "hash"), nil
}

// stubExtractor returns a canned menu, or a canned error when set.
type stubExtractor struct {
	calls  int
	result menu.Menu
	err    failure.ClassifiedError
}

func (e *stubExtractor) Extract(
	doc *goquery.Document,
	day menu.Date,
	canteen menu.Canteen,
) (menu.Menu, failure.ClassifiedError) {
	e.calls++
	if e.err != nil {
		return menu.Menu{}, e.err
	}
	return e.result, nil
}

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func testMenu(dishName string) menu.Menu {
	return menu.NewMenu(
		map[string][]menu.Dish{
			"Klassiker": {menu.NewDish(dishName, nil, nil, nil)},
		},
		nil,
	)
}

type serviceFixture struct {
	service   *menuservice.MenuService
	fetcher   *stubFetcher
	extractor *stubExtractor
	store     *cache.MenuStore
	clock     *fakeClock
	sink      *mockMetadataSink
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	mockSink := &mockMetadataSink{}
	store, err := cache.NewMenuStore(16, 10*time.Minute, 10*time.Millisecond, mockSink)
	require.NoError(t, err)

	clock := &fakeClock{current: time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC)}
	stubF := &stubFetcher{}
	stubE := &stubExtractor{result: testMenu("Gulasch")}

	return &serviceFixture{
		service:   menuservice.NewMenuServiceWithClock(stubF, stubE, store, mockSink, clock.Now),
		fetcher:   stubF,
		extractor: stubE,
		store:     store,
		clock:     clock,
		sink:      mockSink,
	}
}

func TestFetchDailyMenu_ServesFreshEntryWithoutRefetch(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	day := menu.NewDate(2024, time.March, 7)

	// Act: first call populates the store, second is served from it
	first, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)

	f.clock.Advance(9 * time.Minute)
	second, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, f.fetcher.calls, "A fresh entry should be served without refetching")
	assert.Equal(t, first.Dishes("Klassiker")[0].Name(), second.Dishes("Klassiker")[0].Name())
	assert.Equal(t, 1, f.store.Len())
}

func TestFetchDailyMenu_RefreshesStaleEntry(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	day := menu.NewDate(2024, time.March, 7)

	_, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)

	f.clock.Advance(10*time.Minute + time.Second)
	f.extractor.result = testMenu("Backfisch")

	// Act
	refreshed, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, f.fetcher.calls, "A stale entry should trigger exactly one refetch")
	assert.Equal(t, "Backfisch", refreshed.Dishes("Klassiker")[0].Name())

	// The refresh started a new freshness window
	_, err = f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)
	assert.Equal(t, 2, f.fetcher.calls)
}

func TestFetchDailyMenu_DistinctKeysAreCachedSeparately(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	day := menu.NewDate(2024, time.March, 7)

	// Act
	_, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)
	_, err = f.service.FetchDailyMenu(context.Background(), day, menu.Vita)
	require.NoError(t, err)
	_, err = f.service.FetchDailyMenu(context.Background(), menu.NewDate(2024, time.March, 8), menu.Academica)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 3, f.fetcher.calls)
	assert.Equal(t, 3, f.store.Len())
}

func TestFetchDailyMenu_FailedRefreshLeavesStaleEntry(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	day := menu.NewDate(2024, time.March, 7)

	_, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)

	f.clock.Advance(10*time.Minute + time.Second)
	f.fetcher.err = &fetcher.TransportError{
		Message:   "connection refused",
		Cause:     fetcher.ErrCauseNetworkFailure,
		Temporary: true,
	}

	// Act
	_, err = f.service.FetchDailyMenu(context.Background(), day, menu.Academica)

	// Assert: the fetch error passes through unchanged
	require.Error(t, err)
	var transportErr *fetcher.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, fetcher.TransportErrorCause(fetcher.ErrCauseNetworkFailure), transportErr.Cause)

	// The stale entry survived the failed refresh
	key := cache.Key{Canteen: menu.Academica, Date: day}
	cached, outcome, lookupErr := f.store.Lookup(key, f.clock.Now())
	require.NoError(t, lookupErr)
	assert.Equal(t, cache.OutcomeStale, outcome)
	assert.Equal(t, "Gulasch", cached.Dishes("Klassiker")[0].Name())
}

func TestFetchDailyMenu_ExtractionErrorPassesThrough(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	day := menu.NewDate(2024, time.March, 7)
	f.extractor.err = &extractor.CanteenClosedError{Canteen: menu.Academica, Date: day}

	// Act
	_, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)

	// Assert
	require.Error(t, err)
	var closedErr *extractor.CanteenClosedError
	require.True(t, errors.As(err, &closedErr))
	assert.Equal(t, menu.Academica, closedErr.Canteen)
	assert.Equal(t, 0, f.store.Len(), "A failed extraction must not populate the store")
}

func TestFetchDailyMenu_BusyStoreFallsBackToUncachedFetch(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	day := menu.NewDate(2024, time.March, 7)

	release := f.store.LockForTest()

	// Act: every call under a held lock fetches uncached
	_, err := f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)
	_, err = f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, f.fetcher.calls)
	assert.GreaterOrEqual(t, f.sink.degradedCount(), 2, "Each degraded lookup should be recorded")

	release()

	// Nothing was cached while degraded; the next call populates the store
	_, err = f.service.FetchDailyMenu(context.Background(), day, menu.Academica)
	require.NoError(t, err)
	assert.Equal(t, 3, f.fetcher.calls)
	assert.Equal(t, 1, f.store.Len())
}
