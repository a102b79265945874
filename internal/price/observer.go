// Package price resolves the unit price currently displayed on a product
// page. The price display may be produced by any of several uncoordinated
// extensions (computed-price widgets, area-based calculators, variation
// prices), so resolution is a best-effort walk over an ordered strategy list:
// the first strategy that produces a price wins.
package price

import (
	"github.com/shopspring/decimal"

	"github.com/shopglance/cart-summary/internal/page"
)

// Snapshot is the outcome of one resolution pass. It is recomputed on every
// reconciliation and never persisted.
type Snapshot struct {
	Base      decimal.Decimal
	Options   decimal.Decimal
	Total     decimal.Decimal
	Formatted string
	AreaBased bool
	Strategy  string
}

// Variation is the storefront's payload for the currently selected
// product variation, if any.
type Variation struct {
	ID           int64
	DisplayPrice decimal.Decimal
	PriceHTML    string
}

// Context carries per-widget state the strategies consult.
type Context struct {
	Variation *Variation
}

// Strategy attempts to resolve a base price from the page. Returning false
// means the strategy found no usable signal and the next one is tried.
type Strategy interface {
	Name() string
	Resolve(doc *page.Document, ctx *Context) (decimal.Decimal, bool)
}

// Selectors names the page elements each strategy inspects. Zero values fall
// back to the storefront defaults below.
type Selectors struct {
	// Computed-price display rendered by a dynamic pricing extension.
	Dynamic []string
	// Dimension fields and companion elements for area-based pricing.
	WidthField    string
	HeightField   string
	AreaTotal     []string
	AreaUnitPrice []string
	// Static / variation price displays in priority order.
	Static []string
	// Checkbox options carrying price deltas.
	Options string
}

// DefaultSelectors mirrors the selector lists the storefront script scans.
func DefaultSelectors() Selectors {
	return Selectors{
		Dynamic:       []string{".computed-price", ".price-calculator .calculated-price"},
		WidthField:    "width_cm",
		HeightField:   "height_cm",
		AreaTotal:     []string{".area-price-total .amount", ".area-price-total"},
		AreaUnitPrice: []string{".price-per-unit .amount", ".price .amount"},
		Static:        []string{".variation-price .amount", ".price .amount", ".product-price-amount"},
		Options:       "input[data-price-method]",
	}
}

// Observer resolves the current unit price from a page snapshot. Resolve is
// idempotent, synchronous and side-effect free.
type Observer struct {
	Doc        *page.Document
	Ctx        *Context
	Strategies []Strategy
	Sel        Selectors
	Fmt        Formatter
}

// NewObserver wires the default strategy order: dynamic display, area
// computation, static/variation price.
func NewObserver(doc *page.Document, ctx *Context, fmtr Formatter) *Observer {
	sel := DefaultSelectors()
	return &Observer{
		Doc: doc,
		Ctx: ctx,
		Sel: sel,
		Fmt: fmtr,
		Strategies: []Strategy{
			dynamicStrategy{sel: sel},
			areaStrategy{sel: sel},
			staticStrategy{sel: sel},
		},
	}
}

// Resolve runs the strategy chain and layers checked option deltas on top.
func (o *Observer) Resolve() Snapshot {
	var snap Snapshot
	snap.Strategy = "none"
	for _, s := range o.Strategies {
		if base, ok := s.Resolve(o.Doc, o.Ctx); ok {
			snap.Base = base
			snap.Strategy = s.Name()
			snap.AreaBased = s.Name() == "area"
			break
		}
	}
	snap.Options = o.optionsDelta()
	snap.Total = snap.Base.Add(snap.Options)
	if snap.Total.IsPositive() {
		snap.Formatted = o.Fmt.Format(snap.Total)
	} else {
		snap.Formatted = o.Fmt.Zero()
	}
	return snap
}

// optionsDelta sums the deltas of checked add-ons whose pricing method is
// "increase". Other method tags (percentage, decrease) contribute zero; the
// storefront behaves the same way and the limitation is deliberate.
func (o *Observer) optionsDelta() decimal.Decimal {
	total := decimal.Zero
	for _, n := range o.Doc.CheckedAll(o.Sel.Options) {
		if n.Attr("data-price-method") != "increase" {
			continue
		}
		total = total.Add(ParseAmount(n.Attr("data-price")))
	}
	return total
}
