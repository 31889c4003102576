package extractor

import (
	"regexp"

	"github.com/rohmanhakim/mensa/internal/menu"
)

// Selectors for the Studierendenwerk weekly menu pages. The page is one
// accordion of day-sections; each section title carries the date, and the
// section body holds one dish table and one extras table.
const (
	selDaySection  = "body div.accordion > div"
	selDateTitle   = "h3 > a"
	selDishRow     = "tbody > tr"
	selCategory    = "span.menue-category"
	selDescription = "span.menue-desc > .expand-nutr"
	selPrice       = "span.menue-price"
	selExtraRow    = "tbody tr .menue-wrapper"
	selExtraCell   = "span.menue-item.extra"
)

// Class markers distinguishing the two tables inside a day-section and the
// two cell kinds inside a row.
const (
	markerDishTable    = "menues"
	markerExtrasTable  = "extras"
	markerCategoryCell = "menue-category"
	markerDescCell     = "menue-desc"
)

// dateInTitle finds the DD.MM.YYYY date embedded in a day-section title.
var dateInTitle = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`)

const dateLayout = "02.01.2006"

// rowLabelClasses is the closed set of recognized row class markers. Any
// other class on a dish row is ignored.
var rowLabelClasses = map[string]menu.Label{
	"Fisch":    menu.Fish,
	"OLV":      menu.Vegetarian,
	"vegan":    menu.Vegan,
	"Geflügel": menu.Chicken,
	"Schwein":  menu.Pork,
	"Rind":     menu.Beef,
}
