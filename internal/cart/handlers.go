package cart

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopglance/cart-summary/internal/common"
	"github.com/shopglance/cart-summary/internal/obs"
	"github.com/shopglance/cart-summary/internal/security"
	"github.com/shopglance/cart-summary/internal/vat"
)

// Ajax actions the widget endpoint dispatches on.
const (
	ActionCartQuantity = "get_cart_quantity"
	ActionVatRate      = "get_product_vat_rate"
)

// DefaultCartCookie identifies the guest cart.
const DefaultCartCookie = "cart_key"

// RateSource abstracts the VAT store for testing.
type RateSource interface {
	RateForProduct(ctx context.Context, productID, variationID int64) (vat.Lookup, error)
}

// Handler serves the widget's single ajax dispatch endpoint.
type Handler struct {
	Svc        *Service
	Vat        RateSource
	Nonces     *security.Nonces
	CookieName string
	Metrics    *obs.WidgetMetrics
	Log        zerolog.Logger
}

func (h *Handler) cookieName() string {
	if h.CookieName == "" {
		return DefaultCartCookie
	}
	return h.CookieName
}

// EnsureCartKey reads the guest cart cookie, minting one when absent. The
// key doubles as the nonce session.
func EnsureCartKey(w http.ResponseWriter, r *http.Request, name string) string {
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		return c.Value
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    key,
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

// Ajax dispatches on the form's action field. The nonce is verified before
// any cart or tax state is touched.
func (h *Handler) Ajax(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		common.Failure(w, http.StatusBadRequest, "malformed form")
		return
	}
	action := r.FormValue("action")
	cartKey := EnsureCartKey(w, r, h.cookieName())

	if !h.Nonces.Verify(r.FormValue("nonce"), action, cartKey) {
		h.Metrics.NonceRejected(action)
		h.Log.Warn().Str("action", action).Msg("nonce rejected")
		common.Failure(w, http.StatusForbidden, "invalid nonce")
		return
	}

	switch action {
	case ActionCartQuantity:
		h.cartQuantity(w, r, cartKey)
	case ActionVatRate:
		h.vatRate(w, r)
	default:
		common.Failure(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *Handler) cartQuantity(w http.ResponseWriter, r *http.Request, cartKey string) {
	productID := common.ParseID(r.FormValue("product_id"))
	if productID <= 0 {
		common.Failure(w, http.StatusBadRequest, "invalid product id")
		return
	}
	q, err := h.Svc.QuantityForProduct(r.Context(), cartKey, productID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			common.Failure(w, http.StatusBadRequest, "invalid input")
			return
		}
		h.Log.Error().Err(err).Int64("product_id", productID).Msg("cart lookup failed")
		common.Failure(w, http.StatusInternalServerError, "cart unavailable")
		return
	}
	h.Metrics.CartQueried()
	common.Success(w, map[string]any{
		"quantity": q.Quantity,
		"total":    q.Total.StringFixed(2),
	})
}

func (h *Handler) vatRate(w http.ResponseWriter, r *http.Request) {
	productID := common.ParseID(r.FormValue("product_id"))
	if productID <= 0 {
		common.Failure(w, http.StatusBadRequest, "invalid product id")
		return
	}
	variationID := common.ParseID(r.FormValue("variation_id"))

	lookup, err := h.Vat.RateForProduct(r.Context(), productID, variationID)
	if err != nil {
		h.Log.Error().Err(err).Int64("product_id", productID).Msg("vat lookup failed")
		common.Failure(w, http.StatusInternalServerError, "vat unavailable")
		return
	}

	rate := "0"
	if pct, ok := lookup.Rate.Percent(); ok {
		rate = pct.String()
	}
	switch lookup.Rate.Kind() {
	case vat.Known:
		h.Metrics.VatLookup("known")
	case vat.ZeroRated:
		h.Metrics.VatLookup("zero")
	default:
		h.Metrics.VatLookup("unknown")
	}
	common.Success(w, map[string]any{
		"vat_rate": rate,
		"debug": map[string]any{
			"product_id":   productID,
			"variation_id": variationID,
			"tax_class":    lookup.TaxClass,
			"resolved":     lookup.Rate.Kind() != vat.Unknown,
		},
	})
}
