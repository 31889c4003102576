package menu_test

import (
	"strings"
	"testing"

	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/stretchr/testify/assert"
)

func TestFormatHTML_CategoriesInLexicographicOrder(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Wok":    {menu.NewDish("Gebratene Nudeln", nil, nil, nil)},
		"Burger": {menu.NewDish("Cheeseburger", nil, nil, nil)},
		"Pasta":  {menu.NewDish("Penne", nil, nil, nil)},
	}, nil)

	out := m.FormatHTML()

	burger := strings.Index(out, "<em>Burger</em>")
	pasta := strings.Index(out, "<em>Pasta</em>")
	wok := strings.Index(out, "<em>Wok</em>")

	assert.GreaterOrEqual(t, burger, 0)
	assert.Greater(t, pasta, burger)
	assert.Greater(t, wok, pasta)
}

func TestFormatHTML_SkipsEmptyCategories(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Klassiker":   {menu.NewDish("Gulasch", nil, nil, nil)},
		"Vegetarisch": {},
	}, nil)

	out := m.FormatHTML()

	assert.Contains(t, out, "<em>Klassiker</em>")
	assert.NotContains(t, out, "Vegetarisch")
	// A single populated category carries no trailing separator line.
	assert.Equal(t, "<em>Klassiker</em> 🍴\n<strong>Gulasch</strong>\n", out)
}

func TestFormatHTML_KnownCategoryMarkers(t *testing.T) {
	cases := []struct {
		category string
		marker   string
	}{
		{"Klassiker", "🍴"},
		{"Vegetarisch", "🥦"},
		{"Tellergericht", "🍲"},
		{"Burger", "🍔"},
		{"Wok", "🥡"},
		{"Pizza", "🍕"},
	}

	for _, tc := range cases {
		t.Run(tc.category, func(t *testing.T) {
			m := menu.NewMenu(map[string][]menu.Dish{
				tc.category: {menu.NewDish("Etwas", nil, nil, nil)},
			}, nil)

			assert.Contains(t, m.FormatHTML(), "<em>"+tc.category+"</em> "+tc.marker+"\n")
		})
	}
}

func TestFormatHTML_UnknownCategoryHasNoMarker(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Suppenbar": {menu.NewDish("Tomatensuppe", nil, nil, nil)},
	}, nil)

	assert.Contains(t, m.FormatHTML(), "<em>Suppenbar</em>\n")
}

func TestFormatHTML_DishWithEverything(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Klassiker": {menu.NewDish(
			"Gulasch",
			[]string{"Rind", "Sauce", "Kartoffeln"},
			[]menu.Label{menu.Beef, menu.Pork},
			strPtr("3,30 €"),
		)},
	}, nil)

	assert.Contains(t, m.FormatHTML(),
		"<strong>Gulasch</strong> | Rind, Sauce, Kartoffeln 🐮 🐷 – <strong>3,30 €</strong>")
}

func TestFormatHTML_DishWithoutPriceRendersNoPriceSegment(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Klassiker": {menu.NewDish("Gulasch", []string{"Rind"}, nil, nil)},
	}, nil)

	out := m.FormatHTML()

	assert.Contains(t, out, "<strong>Gulasch</strong> | Rind\n")
	assert.NotContains(t, out, "–")
}

func TestFormatHTML_DishWithoutIngredientsOrLabels(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Pizza": {menu.NewDish("Margherita", nil, nil, strPtr("4,00 €"))},
	}, nil)

	assert.Contains(t, m.FormatHTML(),
		"<strong>Margherita</strong> – <strong>4,00 €</strong>\n")
}

func TestFormatHTML_ExtrasAfterCategories(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Klassiker": {menu.NewDish("Gulasch", nil, nil, nil)},
	}, []menu.Extra{
		menu.NewExtra("Hauptbeilagen", "Pommes frites oder Reis"),
		menu.NewExtra("", "Gemüse"),
	})

	out := m.FormatHTML()

	assert.Contains(t, out, "\n<em>Hauptbeilagen</em>: Pommes frites oder Reis")
	assert.Contains(t, out, "\n<em></em>: Gemüse")
	assert.Greater(t,
		strings.Index(out, "Hauptbeilagen"),
		strings.Index(out, "Gulasch"),
		"extras render after all categories")
}

func TestFormatHTML_BlankLineBetweenPopulatedCategoriesOnly(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Burger":      {menu.NewDish("Cheeseburger", nil, nil, nil)},
		"Klassiker":   {menu.NewDish("Gulasch", nil, nil, nil)},
		"Vegetarisch": {},
	}, nil)

	out := m.FormatHTML()

	// Exactly one blank line separates the two populated categories; the
	// empty category contributes nothing.
	assert.Equal(t,
		"<em>Burger</em> 🍔\n<strong>Cheeseburger</strong>\n\n<em>Klassiker</em> 🍴\n<strong>Gulasch</strong>\n",
		out)
}

func TestFormatHTML_Deterministic(t *testing.T) {
	m := menu.NewMenu(map[string][]menu.Dish{
		"Wok":       {menu.NewDish("Nudeln", []string{"Gemüse"}, []menu.Label{menu.Vegan}, strPtr("2,80 €"))},
		"Klassiker": {menu.NewDish("Schnitzel", nil, []menu.Label{menu.Pork}, nil)},
	}, []menu.Extra{menu.NewExtra("Dessert", "Pudding")})

	first := m.FormatHTML()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.FormatHTML())
	}
}
