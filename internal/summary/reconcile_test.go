package summary_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopglance/cart-summary/internal/price"
	"github.com/shopglance/cart-summary/internal/summary"
	"github.com/shopglance/cart-summary/internal/vat"
	"github.com/shopglance/cart-summary/internal/widget"
)

func defaultConfig(extra map[string]string) widget.Config {
	return widget.ResolveWithDefaults(extra, nil)
}

func snapshot(total string) price.Snapshot {
	return price.Snapshot{Total: decimal.RequireFromString(total)}
}

func TestReconcileSectionsFollowQuantities(t *testing.T) {
	cfg := defaultConfig(nil)
	fmtr := price.DefaultFormatter()

	view := summary.Reconcile(
		summary.CartState{Quantity: 3, Total: decimal.RequireFromString("29.85")},
		summary.Selection{Quantity: 2, Price: snapshot("9.95")},
		vat.Zero(), cfg, fmtr,
	)

	require.True(t, view.HasContent)
	assert.True(t, view.Cart.Visible)
	assert.Equal(t, 3, view.Cart.Quantity)
	assert.Equal(t, "29,85 €", view.Cart.Total)

	assert.True(t, view.Selected.Visible)
	assert.Equal(t, "9,95 €", view.Selected.UnitPrice)
	assert.Equal(t, "19,90 €", view.Selected.Total)

	assert.True(t, view.Overall.Visible)
	assert.Equal(t, 5, view.Overall.Quantity)
	assert.Equal(t, "49,75 €", view.Overall.Total)

	assert.True(t, view.AddToCartEnabled)
	assert.Equal(t, "Aggiungi 2 al carrello", view.AddToCartLabel, "label reflects the pending quantity")
}

func TestReconcileEmptySectionsHidden(t *testing.T) {
	cfg := defaultConfig(nil)
	fmtr := price.DefaultFormatter()

	view := summary.Reconcile(
		summary.CartState{},
		summary.Selection{Quantity: 0, Price: snapshot("9.95")},
		vat.Zero(), cfg, fmtr,
	)

	assert.False(t, view.Cart.Visible)
	assert.False(t, view.Selected.Visible)
	assert.False(t, view.HasContent, "no quantities anywhere shows the placeholder")
	assert.False(t, view.AddToCartEnabled)
	assert.Equal(t, "Aggiungi al carrello", view.AddToCartLabel)
}

func TestReconcileUnresolvedPriceRendersZeroCurrency(t *testing.T) {
	fmtr := price.DefaultFormatter()
	cart := summary.CartState{Quantity: 2}
	sel := summary.Selection{Quantity: 4, Price: snapshot("0")}

	view := summary.Reconcile(cart, sel, vat.Zero(), defaultConfig(nil), fmtr)
	assert.Equal(t, "0,00 €", view.Selected.UnitPrice, "unresolved price reads as the zero-currency string")
	assert.Equal(t, "0,00 €", view.Selected.Total)
	assert.Equal(t, 4, view.Selected.Quantity)
	assert.Equal(t, 6, view.Overall.Quantity)
	assert.True(t, view.HasContent)
}

func TestReconcileZeroQuantityPriceDisplay(t *testing.T) {
	fmtr := price.DefaultFormatter()
	sel := summary.Selection{Quantity: 0, Price: snapshot("9.95")}

	view := summary.Reconcile(summary.CartState{}, sel, vat.Zero(), defaultConfig(nil), fmtr)
	assert.Equal(t, "0,00 €", view.Selected.UnitPrice, "price zeroed until a quantity is chosen")
	assert.Equal(t, "0,00 €", view.Selected.Total)

	view = summary.Reconcile(summary.CartState{}, sel, vat.Zero(),
		defaultConfig(map[string]string{widget.KeyShowPriceZero: "yes"}), fmtr)
	assert.Equal(t, "9,95 €", view.Selected.UnitPrice, "flag shows the live price at quantity zero")
	assert.Equal(t, "0,00 €", view.Selected.Total)
}

func TestReconcileCartTotalSurvivesZeroQuantity(t *testing.T) {
	view := summary.Reconcile(
		summary.CartState{Quantity: 3, Total: decimal.RequireFromString("29.85")},
		summary.Selection{Quantity: 0, Price: snapshot("9.95")},
		vat.Zero(), defaultConfig(nil), price.DefaultFormatter(),
	)
	assert.Equal(t, "29,85 €", view.Cart.Total, "cart money is never suppressed")
	assert.Equal(t, "29,85 €", view.Overall.Total)
}

func TestReconcileVatLines(t *testing.T) {
	fmtr := price.DefaultFormatter()
	cfg := defaultConfig(map[string]string{widget.KeyShowVat: "yes"})
	sel := summary.Selection{Quantity: 1, Price: snapshot("122.00")}

	view := summary.Reconcile(summary.CartState{}, sel, vat.KnownRate(decimal.NewFromInt(22)), cfg, fmtr)
	assert.True(t, view.Selected.ShowVat)
	assert.Equal(t, "22,00 €", view.Selected.Vat, "VAT extracted from gross total")
	assert.Equal(t, "22,00 €", view.Overall.Vat)

	view = summary.Reconcile(summary.CartState{}, sel, vat.Zero(), cfg, fmtr)
	assert.False(t, view.Selected.ShowVat, "zero-rated hides the VAT line")
	assert.Empty(t, view.Selected.Vat)

	view = summary.Reconcile(summary.CartState{}, sel, vat.Unresolved(), cfg, fmtr)
	assert.False(t, view.Selected.ShowVat, "unresolved rate never shows a guessed line")
}

func TestReconcileVatRequiresConfig(t *testing.T) {
	view := summary.Reconcile(
		summary.CartState{},
		summary.Selection{Quantity: 1, Price: snapshot("122.00")},
		vat.KnownRate(decimal.NewFromInt(22)),
		defaultConfig(nil), price.DefaultFormatter(),
	)
	assert.False(t, view.Selected.ShowVat)
}

func TestReconcileConfigHidesSections(t *testing.T) {
	cfg := defaultConfig(map[string]string{
		widget.KeyShowCart:     "no",
		widget.KeyShowSelected: "no",
		widget.KeyShowTotal:    "no",
	})
	view := summary.Reconcile(
		summary.CartState{Quantity: 3, Total: decimal.RequireFromString("29.85")},
		summary.Selection{Quantity: 2, Price: snapshot("9.95")},
		vat.Zero(), cfg, price.DefaultFormatter(),
	)
	assert.False(t, view.Cart.Visible)
	assert.False(t, view.Selected.Visible)
	assert.False(t, view.Overall.Visible)
	assert.False(t, view.HasContent)
}

func TestReconcileDeterministic(t *testing.T) {
	cart := summary.CartState{Quantity: 3, Total: decimal.RequireFromString("29.85")}
	sel := summary.Selection{Quantity: 2, Price: snapshot("9.95")}
	cfg := defaultConfig(map[string]string{widget.KeyShowVat: "yes"})
	rate := vat.KnownRate(decimal.NewFromInt(10))
	fmtr := price.DefaultFormatter()

	first := summary.Reconcile(cart, sel, rate, cfg, fmtr)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, summary.Reconcile(cart, sel, rate, cfg, fmtr))
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var fired atomic.Int32
	d := summary.NewDebouncer(func() { fired.Add(1) })
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger(30 * time.Millisecond)
	}
	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "burst fires exactly once")
}

func TestDebouncerStop(t *testing.T) {
	var fired atomic.Int32
	d := summary.NewDebouncer(func() { fired.Add(1) })
	d.Trigger(20 * time.Millisecond)
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
