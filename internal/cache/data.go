package cache

import (
	"fmt"
	"time"

	"github.com/rohmanhakim/mensa/internal/menu"
)

// Key identifies one cached menu. Comparable so it can serve as the LRU
// map key directly.
type Key struct {
	Canteen menu.Canteen
	Date    menu.Date
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Canteen, k.Date)
}

// Outcome classifies a store lookup.
type Outcome int

const (
	// OutcomeHit means a fresh entry was found and its menu returned.
	OutcomeHit Outcome = iota
	// OutcomeStale means an entry was found but its freshness window has
	// elapsed; the caller must refresh before serving.
	OutcomeStale
	// OutcomeMiss means no entry exists for the key.
	OutcomeMiss
)

// entry pairs a menu with its creation time. Entries are never mutated;
// a refresh replaces the entry wholesale.
type entry struct {
	value   menu.Menu
	created time.Time
}

// An entry aged exactly the window is still fresh.
func (e entry) fresh(now time.Time, window time.Duration) bool {
	return now.Sub(e.created) <= window
}
