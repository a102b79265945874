package widget_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopglance/cart-summary/internal/widget"
)

func TestResolveDefaultsOnly(t *testing.T) {
	cfg := widget.ResolveWithDefaults(nil, nil)

	assert.Equal(t, "Riepilogo Completo Prodotto", cfg.Title)
	assert.True(t, cfg.ShowCart)
	assert.True(t, cfg.ShowSelected)
	assert.True(t, cfg.ShowTotal)
	assert.False(t, cfg.ShowPriceZero)
	assert.False(t, cfg.ShowVat)
	assert.False(t, cfg.ShowAddToCart)
	assert.Equal(t, "#e3f2fd", cfg.CartColor)
	assert.Equal(t, "20", cfg.TitleSize)
}

func TestResolveTierOrder(t *testing.T) {
	stored := map[string]string{
		widget.KeyTitle:    "Riepilogo Ordine",
		widget.KeyShowVat:  "yes",
		widget.KeyShowCart: "no",
	}
	overrides := map[string]string{
		widget.KeyShowCart: "yes",
		widget.KeyTextSize: "16",
	}

	cfg := widget.ResolveWithDefaults(stored, overrides)

	assert.Equal(t, "Riepilogo Ordine", cfg.Title, "stored tier overrides defaults")
	assert.True(t, cfg.ShowVat)
	assert.True(t, cfg.ShowCart, "override tier wins over stored")
	assert.Equal(t, "16", cfg.TextSize)
	assert.Equal(t, "14", widget.Defaults()[widget.KeyTextSize], "defaults untouched")
}

func TestResolveEmptyValueDoesNotShadow(t *testing.T) {
	stored := map[string]string{widget.KeyTitle: "Custom"}
	overrides := map[string]string{widget.KeyTitle: "  "}

	cfg := widget.ResolveWithDefaults(stored, overrides)

	assert.Equal(t, "Custom", cfg.Title)
}

func TestAutoAddEnabled(t *testing.T) {
	assert.True(t, widget.AutoAddEnabled(nil))
	assert.True(t, widget.AutoAddEnabled(map[string]string{widget.KeyAutoAdd: ""}))
	assert.False(t, widget.AutoAddEnabled(map[string]string{widget.KeyAutoAdd: "no"}))
}

func TestRenderFragment(t *testing.T) {
	cfg := widget.ResolveWithDefaults(map[string]string{
		widget.KeyShowVat:       "yes",
		widget.KeyShowAddToCart: "yes",
	}, nil)

	var sb strings.Builder
	require.NoError(t, widget.Render(&sb, widget.RenderInput{ProductID: 321, Config: cfg}))
	out := sb.String()

	assert.Contains(t, out, `data-product-id="321"`)
	assert.Contains(t, out, `data-show-vat="yes"`)
	assert.Contains(t, out, `data-show-price-zero="no"`)
	assert.Contains(t, out, "Riepilogo Completo Prodotto")
	assert.Contains(t, out, `class="summary-add-to-cart"`)
	assert.Contains(t, out, "Seleziona una quantità per vedere il riepilogo completo")
	assert.Contains(t, out, "vat-amount")
}

func TestRenderSectionsFollowFlags(t *testing.T) {
	cfg := widget.ResolveWithDefaults(map[string]string{
		widget.KeyShowCart:     "no",
		widget.KeyShowSelected: "no",
	}, nil)

	var sb strings.Builder
	require.NoError(t, widget.Render(&sb, widget.RenderInput{ProductID: 7, Config: cfg}))
	out := sb.String()

	assert.NotContains(t, out, "cart-section")
	assert.NotContains(t, out, "selected-section")
	assert.Contains(t, out, "total-section")
	assert.NotContains(t, out, "summary-add-to-cart")
}

func TestRenderOutsideProductContext(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, widget.Render(&sb, widget.RenderInput{Config: widget.ResolveWithDefaults(nil, nil)}))
	assert.Empty(t, sb.String())
}
