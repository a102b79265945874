package widget

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/shopglance/cart-summary/internal/cart"
	"github.com/shopglance/cart-summary/internal/common"
	"github.com/shopglance/cart-summary/internal/security"
)

// Handler serves the widget markup fragment.
type Handler struct {
	Settings   *SettingsStore
	Nonces     *security.Nonces
	Engine     Engine
	AjaxPath   string
	CookieName string
	Log        zerolog.Logger
}

func (h *Handler) ajaxPath() string {
	if h.AjaxPath == "" {
		return "/widget/ajax"
	}
	return h.AjaxPath
}

func (h *Handler) cookieName() string {
	if h.CookieName == "" {
		return cart.DefaultCartCookie
	}
	return h.CookieName
}

// Render serves GET /widget/render?product_id=N. Overrides arrive as query
// parameters and sit on top of stored settings; outside a product context
// the fragment is empty.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	productID := common.ParseID(r.URL.Query().Get("product_id"))

	overrides := map[string]string{}
	for _, key := range []string{
		KeyTitle, KeyShowPriceZero, KeyShowCart, KeyShowSelected,
		KeyShowTotal, KeyShowVat, KeyShowAddToCart,
		KeyCartColor, KeySelectedColor, KeyTotalColor, KeyAddToCartColor,
		KeyTitleSize, KeyTextSize,
	} {
		if v := r.URL.Query().Get(key); v != "" {
			overrides[key] = v
		}
	}
	if err := ValidateSettings(overrides); err != nil {
		common.Failure(w, http.StatusBadRequest, "invalid override parameters")
		return
	}

	stored, err := h.Settings.Load(r.Context())
	if err != nil {
		h.Log.Warn().Err(err).Msg("settings unavailable, rendering with defaults")
		stored = map[string]string{}
	}

	cartKey := cart.EnsureCartKey(w, r, h.cookieName())
	in := RenderInput{
		ProductID: productID,
		Config:    ResolveWithDefaults(stored, overrides),
		Engine:    h.Engine,
		AjaxURL:   h.ajaxPath(),
		CartNonce: h.Nonces.Issue(cart.ActionCartQuantity, cartKey),
		VatNonce:  h.Nonces.Issue(cart.ActionVatRate, cartKey),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Render(w, in); err != nil {
		h.Log.Error().Err(err).Msg("render failed")
	}
}
