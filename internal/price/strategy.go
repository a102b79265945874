package price

import (
	"github.com/shopspring/decimal"

	"github.com/shopglance/cart-summary/internal/page"
)

// dynamicStrategy trusts a computed-price element rendered by a third-party
// pricing extension. It outranks every other signal: the widget cannot model
// the extension's rules, only read its output.
type dynamicStrategy struct {
	sel Selectors
}

func (dynamicStrategy) Name() string { return "dynamic" }

func (s dynamicStrategy) Resolve(doc *page.Document, _ *Context) (decimal.Decimal, bool) {
	txt := doc.FirstText(s.sel.Dynamic...)
	if txt == "" {
		return decimal.Zero, false
	}
	if v := ParseAmount(txt); v.IsPositive() {
		return v, true
	}
	return decimal.Zero, false
}

// areaStrategy computes price from user-entered width and height. It only
// engages when both dimension fields exist and no dynamic-computation marker
// is on the page (those defer to dynamicStrategy).
type areaStrategy struct {
	sel Selectors
}

func (areaStrategy) Name() string { return "area" }

func (s areaStrategy) Resolve(doc *page.Document, _ *Context) (decimal.Decimal, bool) {
	if !doc.HasField(s.sel.WidthField) || !doc.HasField(s.sel.HeightField) {
		return decimal.Zero, false
	}
	for _, dyn := range s.sel.Dynamic {
		if doc.Find(dyn) != nil {
			return decimal.Zero, false
		}
	}

	width := ParseAmount(doc.FieldValue(s.sel.WidthField))
	height := ParseAmount(doc.FieldValue(s.sel.HeightField))
	hundred := decimal.NewFromInt(100)
	area := width.Div(hundred).Mul(height.Div(hundred))
	if !area.IsPositive() {
		return decimal.Zero, false
	}

	// A totalized element already rendered by the area extension wins over
	// our own multiplication.
	if txt := doc.FirstText(s.sel.AreaTotal...); txt != "" {
		if v := ParseAmount(txt); v.IsPositive() {
			return v, true
		}
	}

	unit := ParseAmount(doc.FirstText(s.sel.AreaUnitPrice...))
	if !unit.IsPositive() {
		return decimal.Zero, false
	}
	return unit.Mul(area).Round(2), true
}

// staticStrategy reads the active variation's declared price, else the first
// non-empty match in the prioritized price-display selector list.
type staticStrategy struct {
	sel Selectors
}

func (staticStrategy) Name() string { return "static" }

func (s staticStrategy) Resolve(doc *page.Document, ctx *Context) (decimal.Decimal, bool) {
	if ctx != nil && ctx.Variation != nil && ctx.Variation.DisplayPrice.IsPositive() {
		return ctx.Variation.DisplayPrice, true
	}
	txt := doc.FirstText(s.sel.Static...)
	if txt == "" {
		return decimal.Zero, false
	}
	if v := ParseAmount(txt); v.IsPositive() {
		return v, true
	}
	return decimal.Zero, false
}
