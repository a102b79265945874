// Package summary turns the widget's observed inputs into one consistent
// view. Reconcile is pure: every caller-visible rule about section
// visibility, totals, and VAT lines lives here so it can be tested without
// a page or a server.
package summary

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopglance/cart-summary/internal/price"
	"github.com/shopglance/cart-summary/internal/vat"
	"github.com/shopglance/cart-summary/internal/widget"
)

// CartState is the cart's contribution for the current product, already
// aggregated across matching lines.
type CartState struct {
	Quantity int
	Total    decimal.Decimal
}

// Selection is the shopper's pending choice on the page.
type Selection struct {
	Quantity int
	Price    price.Snapshot
}

// Section is one rendered block of the summary.
type Section struct {
	Visible   bool
	Quantity  int
	Total     string
	UnitPrice string
	Vat       string
	ShowVat   bool
}

// View is the reconciled widget state handed to the renderer.
type View struct {
	HasContent bool

	Cart     Section
	Selected Section
	Overall  Section

	AddToCartEnabled bool
	AddToCartLabel   string
}

const (
	addToCartLabel     = "Aggiungi al carrello"
	addToCartBusyLabel = "Aggiunta in corso..."
)

// Reconcile computes the complete widget view from its inputs. At quantity
// zero with the price-zero flag off the unit price is zeroed in the view's
// arithmetic only; the observer snapshot stays untouched. Monetary cells
// always carry a formatted value, so an unresolved price reads as the
// zero-currency string rather than a blank.
func Reconcile(cart CartState, sel Selection, rate vat.Rate, cfg widget.Config, fmtr price.Formatter) View {
	unit := sel.Price.Total
	if sel.Quantity == 0 && !cfg.ShowPriceZero {
		unit = decimal.Zero
	}
	selectedTotal := unit.Mul(decimal.NewFromInt(int64(sel.Quantity)))
	grandQty := cart.Quantity + sel.Quantity
	grandTotal := cart.Total.Add(selectedTotal)

	showVat := cfg.ShowVat && rate.ShowsLine()

	view := View{
		AddToCartEnabled: sel.Quantity > 0,
		AddToCartLabel:   addLabel(sel.Quantity),
	}

	money := func(d decimal.Decimal) string {
		return fmtr.Format(d)
	}
	vatLine := func(total decimal.Decimal) string {
		if !showVat {
			return ""
		}
		return fmtr.Format(rate.ExtractFrom(total))
	}

	view.Cart = Section{
		Visible:  cfg.ShowCart && cart.Quantity > 0,
		Quantity: cart.Quantity,
		Total:    money(cart.Total),
	}
	view.Selected = Section{
		Visible:   cfg.ShowSelected && sel.Quantity > 0,
		Quantity:  sel.Quantity,
		UnitPrice: money(unit),
		Total:     money(selectedTotal),
		Vat:       vatLine(selectedTotal),
		ShowVat:   showVat,
	}
	view.Overall = Section{
		Visible:  cfg.ShowTotal,
		Quantity: grandQty,
		Total:    money(grandTotal),
		Vat:      vatLine(grandTotal),
		ShowVat:  showVat,
	}

	view.HasContent = view.Cart.Visible || view.Selected.Visible ||
		(view.Overall.Visible && grandQty > 0)
	return view
}

// addLabel reflects the pending quantity on the button once one is chosen.
func addLabel(qty int) string {
	if qty <= 0 {
		return addToCartLabel
	}
	return fmt.Sprintf("Aggiungi %d al carrello", qty)
}

// BusyLabel is the add-to-cart label while a submission is in flight.
func BusyLabel() string { return addToCartBusyLabel }
