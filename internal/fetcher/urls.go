package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/mensa/internal/menu"
)

// DefaultBaseURL is the production host serving the weekly menu pages.
// Tests point the fetcher at an httptest server instead.
const DefaultBaseURL = "https://www.studierendenwerk-aachen.de"

// canteenSlugs maps every canteen to its path slug on the Studierendenwerk
// site. The table is static configuration baked in; it is not sourced from
// the environment.
var canteenSlugs = [menu.CanteenCount]string{
	menu.Academica:   "academica",
	menu.Ahorn:       "ahornstrasse",
	menu.Bayernallee: "bayernallee",
	menu.Bistro:      "templergraben",
	menu.Eupener:     "eupenerstrasse",
	menu.Juelich:     "juelich",
	menu.KMAC:        "kmac",
	menu.Suedpark:    "suedpark",
	menu.Vita:        "vita",
}

// MenuURL returns the fixed source URL of a canteen's current menu page.
func MenuURL(baseURL string, canteen menu.Canteen) string {
	return fmt.Sprintf("%s/speiseplaene/%s-w.html", baseURL, canteenSlugs[canteen])
}
