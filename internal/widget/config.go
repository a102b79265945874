// Package widget resolves the per-render configuration and produces the
// widget's markup fragment. Configuration is a three-tier merge: documented
// defaults, then stored settings, then per-instance override parameters —
// later tiers win, missing keys always fall back, never to empty.
package widget

import "strings"

// Config is the resolved per-render configuration. Immutable for the life
// of one widget instance.
type Config struct {
	Title         string
	ShowPriceZero bool
	ShowCart      bool
	ShowSelected  bool
	ShowTotal     bool
	ShowVat       bool
	ShowAddToCart bool

	// Styling carries no behavioral invariant.
	CartColor      string
	SelectedColor  string
	TotalColor     string
	AddToCartColor string
	TitleSize      string
	TextSize       string
}

// Option keys shared by stored settings and per-instance overrides.
const (
	KeyTitle          = "title"
	KeyShowPriceZero  = "show_price_zero"
	KeyShowCart       = "show_cart"
	KeyShowSelected   = "show_selected"
	KeyShowTotal      = "show_total"
	KeyShowVat        = "show_vat"
	KeyShowAddToCart  = "show_add_to_cart"
	KeyAutoAdd        = "auto_add_pages"
	KeyCartColor      = "cart_color"
	KeySelectedColor  = "selected_color"
	KeyTotalColor     = "total_color"
	KeyAddToCartColor = "add_to_cart_color"
	KeyTitleSize      = "title_size"
	KeyTextSize       = "text_size"
)

// Defaults is tier one of the merge.
func Defaults() map[string]string {
	return map[string]string{
		KeyTitle:          "Riepilogo Completo Prodotto",
		KeyShowPriceZero:  "no",
		KeyShowCart:       "yes",
		KeyShowSelected:   "yes",
		KeyShowTotal:      "yes",
		KeyShowVat:        "no",
		KeyShowAddToCart:  "no",
		KeyAutoAdd:        "yes",
		KeyCartColor:      "#e3f2fd",
		KeySelectedColor:  "#fff8e1",
		KeyTotalColor:     "#e8f5e8",
		KeyAddToCartColor: "#4caf50",
		KeyTitleSize:      "20",
		KeyTextSize:       "14",
	}
}

// Resolve merges the tiers in order and materializes a Config. Empty values
// in a later tier do not shadow earlier tiers.
func Resolve(tiers ...map[string]string) Config {
	merged := map[string]string{}
	for _, tier := range tiers {
		for k, v := range tier {
			if strings.TrimSpace(v) == "" {
				continue
			}
			merged[k] = v
		}
	}
	return Config{
		Title:          merged[KeyTitle],
		ShowPriceZero:  yes(merged[KeyShowPriceZero]),
		ShowCart:       yes(merged[KeyShowCart]),
		ShowSelected:   yes(merged[KeyShowSelected]),
		ShowTotal:      yes(merged[KeyShowTotal]),
		ShowVat:        yes(merged[KeyShowVat]),
		ShowAddToCart:  yes(merged[KeyShowAddToCart]),
		CartColor:      merged[KeyCartColor],
		SelectedColor:  merged[KeySelectedColor],
		TotalColor:     merged[KeyTotalColor],
		AddToCartColor: merged[KeyAddToCartColor],
		TitleSize:      merged[KeyTitleSize],
		TextSize:       merged[KeyTextSize],
	}
}

// ResolveWithDefaults applies the canonical tier order for a render:
// defaults, stored settings, shortcode-style overrides.
func ResolveWithDefaults(stored, overrides map[string]string) Config {
	return Resolve(Defaults(), stored, overrides)
}

// AutoAddEnabled reports whether stored settings request automatic widget
// injection on every product page.
func AutoAddEnabled(stored map[string]string) bool {
	merged := map[string]string{}
	for k, v := range Defaults() {
		merged[k] = v
	}
	for k, v := range stored {
		if strings.TrimSpace(v) != "" {
			merged[k] = v
		}
	}
	return yes(merged[KeyAutoAdd])
}

func yes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}
