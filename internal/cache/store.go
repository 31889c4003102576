package cache

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/rohmanhakim/mensa/pkg/failure"
)

/*
MenuStore is a bounded LRU cache of extracted menus.

Responsibilities

- Answer lookups with a hit, stale, or miss verdict based on the shared
  freshness window
- Evict the least-recently-used entry once capacity is reached
- Degrade instead of blocking: a caller that cannot acquire the store
  lock within the configured wait gets StoreBusyError and is expected to
  fetch uncached

The store is guarded by a single lock with a bounded acquire wait, so a
slow holder cannot stall every other request indefinitely. Staleness is
judged lazily at lookup time; stale entries occupy capacity until
refreshed or evicted.
*/

type MenuStore struct {
	// sem is a capacity-1 semaphore guarding lru. Acquisition is bounded
	// by acquireWait.
	sem          chan struct{}
	lru          *simplelru.LRU[Key, entry]
	freshFor     time.Duration
	acquireWait  time.Duration
	metadataSink metadata.MetadataSink
}

func NewMenuStore(
	capacity int,
	freshFor time.Duration,
	acquireWait time.Duration,
	metadataSink metadata.MetadataSink,
) (*MenuStore, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("menu store capacity must be positive, got %d", capacity)
	}
	if freshFor <= 0 {
		return nil, fmt.Errorf("menu store freshness window must be positive, got %s", freshFor)
	}
	if acquireWait <= 0 {
		return nil, fmt.Errorf("menu store acquire wait must be positive, got %s", acquireWait)
	}

	store := &MenuStore{
		sem:          make(chan struct{}, 1),
		freshFor:     freshFor,
		acquireWait:  acquireWait,
		metadataSink: metadataSink,
	}

	lru, err := simplelru.NewLRU(capacity, func(key Key, _ entry) {
		store.metadataSink.RecordCache(key.String(), metadata.CacheEvict)
	})
	if err != nil {
		return nil, fmt.Errorf("create menu store lru: %w", err)
	}
	store.lru = lru

	return store, nil
}

// Lookup reports whether key holds a usable menu at time now. The menu is
// only meaningful when the outcome is OutcomeHit or OutcomeStale. A
// non-nil error means the store lock could not be acquired; the outcome
// is OutcomeMiss in that case.
func (s *MenuStore) Lookup(key Key, now time.Time) (menu.Menu, Outcome, failure.ClassifiedError) {
	release, ok := s.acquire()
	if !ok {
		return menu.Menu{}, OutcomeMiss, &StoreBusyError{Wait: s.acquireWait}
	}
	defer release()

	cached, found := s.lru.Get(key)
	if !found {
		s.metadataSink.RecordCache(key.String(), metadata.CacheMiss)
		return menu.Menu{}, OutcomeMiss, nil
	}

	if !cached.fresh(now, s.freshFor) {
		s.metadataSink.RecordCache(key.String(), metadata.CacheStale)
		return cached.value, OutcomeStale, nil
	}

	s.metadataSink.RecordCache(key.String(), metadata.CacheHit)
	return cached.value, OutcomeHit, nil
}

// Put stores a freshly extracted menu under key, replacing any previous
// entry and evicting the least-recently-used entry when full.
func (s *MenuStore) Put(key Key, value menu.Menu, now time.Time) failure.ClassifiedError {
	release, ok := s.acquire()
	if !ok {
		return &StoreBusyError{Wait: s.acquireWait}
	}
	defer release()

	s.lru.Add(key, entry{value: value, created: now})
	s.metadataSink.RecordCache(key.String(), metadata.CacheInsert)
	return nil
}

// Len reports the number of cached entries, fresh or stale.
func (s *MenuStore) Len() int {
	release, ok := s.acquire()
	if !ok {
		return 0
	}
	defer release()

	return s.lru.Len()
}

func (s *MenuStore) acquire() (func(), bool) {
	timer := time.NewTimer(s.acquireWait)
	defer timer.Stop()

	select {
	case s.sem <- struct{}{}:
		return func() { <-s.sem }, true
	case <-timer.C:
		return nil, false
	}
}

// LockForTest holds the store lock until the returned release function is
// called. Tests use it to exercise the busy path.
func (s *MenuStore) LockForTest() func() {
	s.sem <- struct{}{}
	return func() { <-s.sem }
}
