package menu

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Domain model of a daily canteen menu.
//
// All types in this package are value types. A Menu is immutable once
// constructed: the constructor copies its inputs and the accessors return
// copies, so no caller can mutate cached state through a returned Menu.

// Canteen is the closed set of the 9 Studierendenwerk Aachen dining
// locations. The set is fixed at compile time and never extended at runtime.
type Canteen int

const (
	Academica Canteen = iota
	Ahorn
	Bayernallee
	Bistro
	Eupener
	Juelich
	KMAC
	Suedpark
	Vita
)

// CanteenCount is the number of known canteens.
const CanteenCount = 9

var canteenNames = [CanteenCount]string{
	Academica:   "Academica",
	Ahorn:       "Ahornstraße",
	Bayernallee: "Bayernallee",
	Bistro:      "Bistro Templergraben",
	Eupener:     "Eupener Straße",
	Juelich:     "Jülich",
	KMAC:        "KMAC",
	Suedpark:    "Südpark",
	Vita:        "Vita",
}

// canteenKeys are the compact ASCII lookup keys accepted by ParseCanteen
// in addition to the display names.
var canteenKeys = map[string]Canteen{
	"academica":      Academica,
	"ahornstrasse":   Ahorn,
	"bayernallee":    Bayernallee,
	"templergraben":  Bistro,
	"eupenerstrasse": Eupener,
	"juelich":        Juelich,
	"kmac":           KMAC,
	"suedpark":       Suedpark,
	"vita":           Vita,
}

func (c Canteen) String() string {
	if c < 0 || int(c) >= CanteenCount {
		return fmt.Sprintf("Canteen(%d)", int(c))
	}
	return canteenNames[c]
}

// Canteens returns all known canteens in declaration order.
func Canteens() []Canteen {
	all := make([]Canteen, CanteenCount)
	for i := range all {
		all[i] = Canteen(i)
	}
	return all
}

// ParseCanteen resolves a canteen by its display name or its compact ASCII
// key (e.g. "ahornstrasse"), case-insensitively. This is exact-name lookup
// for startup glue; fuzzy free-text recognition lives with the callers.
func ParseCanteen(name string) (Canteen, bool) {
	trimmed := strings.TrimSpace(name)
	if c, ok := canteenKeys[strings.ToLower(trimmed)]; ok {
		return c, true
	}
	for i, display := range canteenNames {
		if strings.EqualFold(trimmed, display) {
			return Canteen(i), true
		}
	}
	return Canteen(0), false
}

// CanteenKeys returns the accepted compact lookup keys, sorted. Used for
// help output.
func CanteenKeys() []string {
	keys := make([]string, 0, len(canteenKeys))
	for k := range canteenKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Date is a calendar date without a time of day. It is comparable and is
// used as part of the cache key.
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{year: year, month: month, day: day}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses an ISO "2006-01-02" date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Label is the closed set of dietary and ingredient markers a dish row can
// carry. Unrecognized markers on a row are ignored during extraction.
type Label int

const (
	Fish Label = iota
	Vegetarian
	Vegan
	Chicken
	Pork
	Beef
)

var labelNames = [...]string{
	Fish:       "Fish",
	Vegetarian: "Vegetarian",
	Vegan:      "Vegan",
	Chicken:    "Chicken",
	Pork:       "Pork",
	Beef:       "Beef",
}

var labelMarkers = [...]string{
	Fish:       "🐟",
	Vegetarian: "🌱",
	Vegan:      "🥑",
	Chicken:    "🐔",
	Pork:       "🐷",
	Beef:       "🐮",
}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Marker returns the decorative marker rendered for the label.
func (l Label) Marker() string {
	if l < 0 || int(l) >= len(labelMarkers) {
		return ""
	}
	return labelMarkers[l]
}

// Dish is one menu row: a name, the ordered ingredient fragments that
// followed it on the source row, the recognized labels in the order found,
// and an optional free-form price.
type Dish struct {
	name        string
	ingredients []string
	labels      []Label
	price       string
	priced      bool
}

// NewDish constructs a Dish. A nil price means the source row carried no
// price element; this is a legitimate state, not an error.
func NewDish(name string, ingredients []string, labels []Label, price *string) Dish {
	d := Dish{
		name:        name,
		ingredients: append([]string(nil), ingredients...),
		labels:      append([]Label(nil), labels...),
	}
	if price != nil {
		d.price = *price
		d.priced = true
	}
	return d
}

func (d Dish) Name() string { return d.name }

func (d Dish) Ingredients() []string {
	return append([]string(nil), d.ingredients...)
}

func (d Dish) Labels() []Label {
	return append([]Label(nil), d.labels...)
}

// Price returns the price text and whether the source row carried one.
func (d Dish) Price() (string, bool) {
	return d.price, d.priced
}

// Extra is a supplementary offering listed apart from the categorized
// dishes. The category may legitimately be empty; the description may be an
// "oder"-joined choice between options.
type Extra struct {
	category    string
	description string
}

func NewExtra(category, description string) Extra {
	return Extra{category: category, description: description}
}

func (e Extra) Category() string    { return e.category }
func (e Extra) Description() string { return e.description }

// Menu is the structured result of extracting one day-section of a canteen
// page: dishes grouped by free-form category name (insertion order is the
// source row order within a category) plus the ordered extras.
type Menu struct {
	dishes map[string][]Dish
	extras []Extra
}

func NewMenu(dishes map[string][]Dish, extras []Extra) Menu {
	copied := make(map[string][]Dish, len(dishes))
	for category, categoryDishes := range dishes {
		copied[category] = append([]Dish(nil), categoryDishes...)
	}
	return Menu{
		dishes: copied,
		extras: append([]Extra(nil), extras...),
	}
}

// Categories returns the category names in lexicographic order.
func (m Menu) Categories() []string {
	categories := make([]string, 0, len(m.dishes))
	for category := range m.dishes {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Dishes returns the dishes of a category in source row order.
func (m Menu) Dishes(category string) []Dish {
	return append([]Dish(nil), m.dishes[category]...)
}

func (m Menu) Extras() []Extra {
	return append([]Extra(nil), m.extras...)
}
