package menu

import (
	"fmt"
	"strings"
)

/*
Rendering contract

- Categories render in lexicographic order of their name, independent of
  the order in which they were extracted.
- A category with zero dishes is skipped entirely, including its share of
  blank-line separation.
- A dish renders as name, then " | " and the comma-joined ingredients when
  any exist, then the space-joined label markers in recorded order, then
  " – <strong>price</strong>" when the row carried a price. An absent price
  renders nothing; there is no placeholder.
- Extras render after all categories, one line each, as
  "<em>category</em>: description".

The output format targets chat transports that accept a small HTML subset
(em/strong). Rendering is pure: same Menu in, same string out.
*/

// categoryMarkers decorates the six well-known category names. Unknown
// categories render without a marker.
var categoryMarkers = map[string]string{
	"Klassiker":     "🍴",
	"Vegetarisch":   "🥦",
	"Tellergericht": "🍲",
	"Burger":        "🍔",
	"Wok":           "🥡",
	"Pizza":         "🍕",
}

// FormatHTML renders the menu into the chat-HTML format described above.
func (m Menu) FormatHTML() string {
	var b strings.Builder

	var populated []string
	for _, category := range m.Categories() {
		if len(m.dishes[category]) > 0 {
			populated = append(populated, category)
		}
	}

	for i, category := range populated {
		fmt.Fprintf(&b, "<em>%s</em>", category)
		if marker, ok := categoryMarkers[category]; ok {
			fmt.Fprintf(&b, " %s", marker)
		}
		b.WriteString("\n")

		for _, dish := range m.dishes[category] {
			b.WriteString(dish.formatHTML())
			b.WriteString("\n")
		}

		if i+1 < len(populated) {
			b.WriteString("\n")
		}
	}

	for _, extra := range m.extras {
		fmt.Fprintf(&b, "\n<em>%s</em>: %s", extra.category, extra.description)
	}

	return b.String()
}

func (d Dish) formatHTML() string {
	var b strings.Builder

	fmt.Fprintf(&b, "<strong>%s</strong>", d.name)

	if len(d.ingredients) > 0 {
		b.WriteString(" | ")
		b.WriteString(strings.Join(d.ingredients, ", "))
	}

	if len(d.labels) > 0 {
		markers := make([]string, len(d.labels))
		for i, label := range d.labels {
			markers[i] = label.Marker()
		}
		fmt.Fprintf(&b, " %s", strings.Join(markers, " "))
	}

	if d.priced {
		fmt.Fprintf(&b, " – <strong>%s</strong>", d.price)
	}

	return b.String()
}
