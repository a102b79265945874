// Package cartdata fetches cart and VAT state from the storefront's ajax
// endpoint. Every fetch degrades instead of failing the widget: a cart
// lookup that errors reads as an empty cart, a VAT lookup that errors reads
// as unresolved.
package cartdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopglance/cart-summary/internal/summary"
	"github.com/shopglance/cart-summary/internal/vat"
)

// SettleDelay is how long a cart refresh waits after an add-to-cart event
// before re-querying, giving the backend time to commit the new line.
const SettleDelay = 1000 * time.Millisecond

const (
	actionCartQuantity = "get_cart_quantity"
	actionVatRate      = "get_product_vat_rate"
)

// Fetcher talks to the widget ajax endpoint. Nonces are bound to one
// action each, so the fetcher carries the pair the render fragment issued.
type Fetcher struct {
	Endpoint  string
	CartNonce string
	VatNonce  string
	Client    *http.Client
	Log       zerolog.Logger
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type cartPayload struct {
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

type vatPayload struct {
	Rate string `json:"vat_rate"`
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) post(ctx context.Context, action, nonce string, productID, variationID int64) (json.RawMessage, error) {
	form := url.Values{}
	form.Set("action", action)
	form.Set("product_id", strconv.FormatInt(productID, 10))
	if variationID > 0 {
		form.Set("variation_id", strconv.FormatInt(variationID, 10))
	}
	form.Set("nonce", nonce)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", action, resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", action, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%s: server reported failure", action)
	}
	return env.Data, nil
}

// CartState queries the aggregated cart quantity and total for a product.
// Any failure reads as an empty cart.
func (f *Fetcher) CartState(ctx context.Context, productID, variationID int64) summary.CartState {
	raw, err := f.post(ctx, actionCartQuantity, f.CartNonce, productID, variationID)
	if err != nil {
		f.Log.Warn().Err(err).Int64("product_id", productID).Msg("cart lookup degraded to empty")
		return summary.CartState{}
	}
	var payload cartPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		f.Log.Warn().Err(err).Msg("cart payload malformed, degraded to empty")
		return summary.CartState{}
	}
	total, err := decimal.NewFromString(payload.Total)
	if err != nil || payload.Quantity < 0 || total.IsNegative() {
		return summary.CartState{}
	}
	return summary.CartState{Quantity: payload.Quantity, Total: total}
}

// VatRate queries the product's VAT rate. Any failure reads as unresolved,
// never as zero-rated.
func (f *Fetcher) VatRate(ctx context.Context, productID, variationID int64) vat.Rate {
	raw, err := f.post(ctx, actionVatRate, f.VatNonce, productID, variationID)
	if err != nil {
		f.Log.Warn().Err(err).Int64("product_id", productID).Msg("vat lookup unresolved")
		return vat.Unresolved()
	}
	var payload vatPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return vat.Unresolved()
	}
	pct, err := decimal.NewFromString(payload.Rate)
	if err != nil {
		return vat.Unresolved()
	}
	return vat.KnownRate(pct)
}

// FetchCartAsync runs the cart lookup on its own goroutine and hands the
// result to cb. The callback always runs, with the degraded value on error.
func (f *Fetcher) FetchCartAsync(ctx context.Context, productID, variationID int64, cb func(summary.CartState)) {
	go func() {
		cb(f.CartState(ctx, productID, variationID))
	}()
}
