package price_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopglance/cart-summary/internal/page"
	"github.com/shopglance/cart-summary/internal/price"
)

func newObserver(markup string, ctx *price.Context) *price.Observer {
	return price.NewObserver(page.MustParse(markup), ctx, price.DefaultFormatter())
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"49,90 €":     "49.9",
		"€1.234,56":   "1234.56",
		"$1,234.56":   "1234.56",
		"20.00":       "20",
		"1.234":       "1234",
		"free":        "0",
		"":            "0",
		"da 12,50 €":  "12.5",
	}
	for in, want := range cases {
		assert.True(t, price.ParseAmount(in).Equal(decimal.RequireFromString(want)), "input %q", in)
	}
}

func TestStaticFallbackChain(t *testing.T) {
	obs := newObserver(`<div class="price"><span class="amount">49,90 €</span></div>`, &price.Context{})

	snap := obs.Resolve()
	require.Equal(t, "static", snap.Strategy)
	require.True(t, snap.Total.Equal(decimal.RequireFromString("49.90")), "got %s", snap.Total)
	require.False(t, snap.AreaBased)
}

func TestVariationPriceWins(t *testing.T) {
	ctx := &price.Context{Variation: &price.Variation{ID: 12, DisplayPrice: decimal.RequireFromString("15.50")}}
	obs := newObserver(`<div class="price"><span class="amount">49,90 €</span></div>`, ctx)

	snap := obs.Resolve()
	require.True(t, snap.Total.Equal(decimal.RequireFromString("15.50")))
}

func TestDynamicDisplayOutranksEverything(t *testing.T) {
	markup := `
	<span class="computed-price">199,00 €</span>
	<input name="width_cm" value="150"><input name="height_cm" value="80">
	<div class="price"><span class="amount">49,90 €</span></div>`
	obs := newObserver(markup, &price.Context{})

	snap := obs.Resolve()
	require.Equal(t, "dynamic", snap.Strategy)
	require.True(t, snap.Total.Equal(decimal.RequireFromString("199")))
}

func TestAreaPricing(t *testing.T) {
	markup := `
	<input name="width_cm" value="150"><input name="height_cm" value="80">
	<div class="price"><span class="amount">20,00 €</span></div>`
	obs := newObserver(markup, &price.Context{})

	snap := obs.Resolve()
	require.Equal(t, "area", snap.Strategy)
	require.True(t, snap.AreaBased)
	// 1.5m x 0.8m = 1.2 m² at 20.00/m².
	require.True(t, snap.Total.Equal(decimal.RequireFromString("24")), "got %s", snap.Total)
	require.Equal(t, "24,00 €", snap.Formatted)
}

func TestAreaTrustsRenderedTotal(t *testing.T) {
	markup := `
	<input name="width_cm" value="150"><input name="height_cm" value="80">
	<div class="area-price-total"><span class="amount">30,00 €</span></div>
	<div class="price"><span class="amount">20,00 €</span></div>`
	obs := newObserver(markup, &price.Context{})

	snap := obs.Resolve()
	require.True(t, snap.Total.Equal(decimal.RequireFromString("30")))
}

func TestAreaZeroFallsThrough(t *testing.T) {
	markup := `
	<input name="width_cm" value="0"><input name="height_cm" value="80">
	<div class="price"><span class="amount">20,00 €</span></div>`
	obs := newObserver(markup, &price.Context{})

	snap := obs.Resolve()
	require.Equal(t, "static", snap.Strategy)
	require.True(t, snap.Total.Equal(decimal.RequireFromString("20")))
}

func TestUserEditedDimensions(t *testing.T) {
	doc := page.MustParse(`
	<input name="width_cm" value=""><input name="height_cm" value="">
	<div class="price"><span class="amount">20,00 €</span></div>`)
	obs := price.NewObserver(doc, &price.Context{}, price.DefaultFormatter())

	require.Equal(t, "static", obs.Resolve().Strategy)

	doc.SetFieldValue("width_cm", "150")
	doc.SetFieldValue("height_cm", "80")
	snap := obs.Resolve()
	require.Equal(t, "area", snap.Strategy)
	require.True(t, snap.Total.Equal(decimal.RequireFromString("24")))
}

func TestOptionsOnlyIncreaseMethodCounts(t *testing.T) {
	doc := page.MustParse(`
	<div class="price"><span class="amount">10,00 €</span></div>
	<input type="checkbox" name="opt_a" data-price="5,00" data-price-method="increase" checked>
	<input type="checkbox" name="opt_b" data-price="2,50" data-price-method="percentage" checked>
	<input type="checkbox" name="opt_c" data-price="1,00" data-price-method="increase">`)
	obs := price.NewObserver(doc, &price.Context{}, price.DefaultFormatter())

	snap := obs.Resolve()
	require.True(t, snap.Base.Equal(decimal.RequireFromString("10")))
	require.True(t, snap.Options.Equal(decimal.RequireFromString("5")))
	require.True(t, snap.Total.Equal(decimal.RequireFromString("15")))

	doc.SetChecked("opt_c", true)
	snap = obs.Resolve()
	require.True(t, snap.Options.Equal(decimal.RequireFromString("6")))
}

func TestNoSignalYieldsZero(t *testing.T) {
	obs := newObserver(`<div class="unrelated">hello</div>`, &price.Context{})

	snap := obs.Resolve()
	require.Equal(t, "none", snap.Strategy)
	require.True(t, snap.Total.IsZero())
	require.Equal(t, "0,00 €", snap.Formatted)
}

func TestResolveIsIdempotent(t *testing.T) {
	obs := newObserver(`<div class="price"><span class="amount">49,90 €</span></div>`, &price.Context{})

	first := obs.Resolve()
	second := obs.Resolve()
	require.Equal(t, first, second)
}

func TestFormatter(t *testing.T) {
	f := price.DefaultFormatter()
	require.Equal(t, "1.234,56 €", f.Format(decimal.RequireFromString("1234.56")))
	require.Equal(t, "0,00 €", f.Zero())

	usd := price.NewFormatter("en-US", "$", true)
	require.Equal(t, "$1,234.56", usd.Format(decimal.RequireFromString("1234.56")))
}
