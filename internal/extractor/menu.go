package extractor

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/rohmanhakim/mensa/pkg/failure"
	"golang.org/x/net/html"
)

/*
Responsibilities

- Select the day-section matching the target date
- Validate the section holds the dish table and the extras table
- Parse dish rows into categorized dishes and extras rows into extras

Extraction is all-or-nothing: a malformed row invalidates the whole
request instead of being skipped, because a partially populated menu is
worse than an explicit failure.
*/

type MenuExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewMenuExtractor(metadataSink metadata.MetadataSink) MenuExtractor {
	return MenuExtractor{
		metadataSink: metadataSink,
	}
}

// Extract produces the structured menu for one date from a parsed menu
// page, or fails with CanteenClosedError (no day-section for the date) or
// ElementNotFoundError (unexpected markup shape).
func (e *MenuExtractor) Extract(
	doc *goquery.Document,
	day menu.Date,
	canteen menu.Canteen,
) (menu.Menu, failure.ClassifiedError) {
	result, err := extract(doc, day, canteen)
	if err != nil {
		e.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"MenuExtractor.Extract",
			mapExtractionErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrCanteen, canteen.String()),
				metadata.NewAttr(metadata.AttrDate, day.String()),
			},
		)
		return menu.Menu{}, err
	}
	return result, nil
}

func extract(doc *goquery.Document, day menu.Date, canteen menu.Canteen) (menu.Menu, failure.ClassifiedError) {
	container := findDayContainer(doc, day)
	if container == nil {
		// A day without a section, or a section without a menu block, is
		// how the page expresses "closed".
		return menu.Menu{}, &CanteenClosedError{Canteen: canteen, Date: day}
	}

	dishTable := container.ChildrenFiltered("table." + markerDishTable).First()
	if dishTable.Length() == 0 {
		return menu.Menu{}, &ElementNotFoundError{Tag: "table", Marker: markerDishTable}
	}

	extrasTable := container.ChildrenFiltered("table." + markerExtrasTable).First()
	if extrasTable.Length() == 0 {
		return menu.Menu{}, &ElementNotFoundError{Tag: "table", Marker: markerExtrasTable}
	}

	dishes, err := parseDishTable(dishTable)
	if err != nil {
		return menu.Menu{}, err
	}

	extras, err := parseExtrasTable(extrasTable)
	if err != nil {
		return menu.Menu{}, err
	}

	return menu.NewMenu(dishes, extras), nil
}

// findDayContainer returns the menu block of the first day-section whose
// title date equals day, or nil when no section matches.
func findDayContainer(doc *goquery.Document, day menu.Date) *goquery.Selection {
	var container *goquery.Selection

	doc.Find(selDaySection).EachWithBreak(func(_ int, section *goquery.Selection) bool {
		title := section.Find(selDateTitle).First()
		if title.Length() == 0 {
			return true
		}

		match := dateInTitle.FindString(title.Text())
		if match == "" {
			return true
		}

		sectionDate, err := time.Parse(dateLayout, match)
		if err != nil || menu.DateOf(sectionDate) != day {
			return true
		}

		block := section.ChildrenFiltered("div").First()
		if block.Length() == 0 {
			return true
		}

		container = block
		return false
	})

	return container
}

func parseDishTable(table *goquery.Selection) (map[string][]menu.Dish, failure.ClassifiedError) {
	dishes := make(map[string][]menu.Dish)

	var rowErr failure.ClassifiedError
	table.Find(selDishRow).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		category, dish, err := parseDishRow(row)
		if err != nil {
			rowErr = err
			return false
		}
		dishes[category] = append(dishes[category], dish)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return dishes, nil
}

func parseDishRow(row *goquery.Selection) (string, menu.Dish, failure.ClassifiedError) {
	categoryCell := row.Find(selCategory).First()
	if categoryCell.Length() == 0 {
		return "", menu.Dish{}, &ElementNotFoundError{Tag: "span", Marker: markerCategoryCell}
	}

	categoryText, ok := firstTextFragment(categoryCell)
	if !ok {
		return "", menu.Dish{}, &ElementNotFoundError{Tag: "span", Marker: markerCategoryCell}
	}

	// The category label may carry a trailing remark ("Klassiker des
	// Tages"); only the first whitespace-delimited token names the
	// category.
	fields := strings.Fields(categoryText)
	if len(fields) == 0 {
		return "", menu.Dish{}, &ElementNotFoundError{Tag: "span", Marker: markerCategoryCell}
	}
	category := fields[0]

	descCell := row.Find(selDescription).First()
	if descCell.Length() == 0 {
		return "", menu.Dish{}, &ElementNotFoundError{Tag: "span", Marker: markerDescCell}
	}

	description := directText(descCell)
	if strings.TrimSpace(description) == "" {
		return "", menu.Dish{}, &ElementNotFoundError{Tag: "span", Marker: markerDescCell}
	}

	// The first |-segment is the dish name. The rest is the ingredient
	// list, with entries delimited by | or by commas within a segment.
	segments := strings.Split(description, "|")
	name := strings.TrimSpace(segments[0])
	var ingredients []string
	for _, segment := range segments[1:] {
		for _, entry := range strings.Split(segment, ",") {
			if trimmed := strings.TrimSpace(entry); trimmed != "" {
				ingredients = append(ingredients, trimmed)
			}
		}
	}

	var price *string
	if priceCell := row.Find(selPrice).First(); priceCell.Length() > 0 {
		if text, hasText := firstTextFragment(priceCell); hasText {
			trimmed := strings.TrimSpace(text)
			price = &trimmed
		}
	}

	labels := rowLabels(row)

	return category, menu.NewDish(name, ingredients, labels, price), nil
}

// rowLabels maps the row's recognized class markers to labels in the order
// found. Unrecognized classes are ignored.
func rowLabels(row *goquery.Selection) []menu.Label {
	classAttr, _ := row.Attr("class")

	var labels []menu.Label
	for _, class := range strings.Fields(classAttr) {
		if label, ok := rowLabelClasses[class]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

func parseExtrasTable(table *goquery.Selection) ([]menu.Extra, failure.ClassifiedError) {
	var extras []menu.Extra

	var rowErr failure.ClassifiedError
	table.Find(selExtraRow).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		extra, err := parseExtrasRow(row)
		if err != nil {
			rowErr = err
			return false
		}
		extras = append(extras, extra)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return extras, nil
}

func parseExtrasRow(row *goquery.Selection) (menu.Extra, failure.ClassifiedError) {
	cells := row.Find(selExtraCell)

	// A missing category cell is legitimate; the category is then empty.
	category := ""
	if cell := cells.Filter("." + markerCategoryCell).First(); cell.Length() > 0 {
		if text, ok := firstTextFragment(cell); ok {
			category = strings.TrimSpace(text)
		}
	}

	descCell := cells.Filter("." + markerDescCell).First()
	if descCell.Length() == 0 {
		return menu.Extra{}, &ElementNotFoundError{Tag: "span", Marker: markerDescCell}
	}

	return menu.NewExtra(category, joinChoices(directTextLines(descCell))), nil
}

// joinChoices renders a list of offered options as an "oder" choice:
// all but the last joined with ", ", then " oder " before the last.
func joinChoices(lines []string) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return lines[0]
	default:
		return strings.Join(lines[:len(lines)-1], ", ") + " oder " + lines[len(lines)-1]
	}
}

// directText concatenates the direct child text nodes of the selection's
// first element, ignoring text nested inside child elements.
func directText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}

	var b strings.Builder
	for child := s.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return b.String()
}

// directTextLines collects the direct child text nodes of the selection's
// first element, trimmed, dropping fragments that were pure whitespace
// (formatting noise between markup).
func directTextLines(s *goquery.Selection) []string {
	if len(s.Nodes) == 0 {
		return nil
	}

	var lines []string
	for child := s.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.TextNode {
			continue
		}
		if trimmed := strings.TrimSpace(child.Data); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// firstTextFragment returns the first text node in document order under
// the selection's first element.
func firstTextFragment(s *goquery.Selection) (string, bool) {
	if len(s.Nodes) == 0 {
		return "", false
	}

	var walk func(*html.Node) (string, bool)
	walk = func(n *html.Node) (string, bool) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				return child.Data, true
			}
			if text, ok := walk(child); ok {
				return text, ok
			}
		}
		return "", false
	}
	return walk(s.Nodes[0])
}
