package widget

import (
	"html/template"
	"io"
	"time"
)

// Engine is the client-engine tuning the fragment exposes alongside the
// display configuration: how money is written and how eagerly the engine
// re-queries the page and the cart.
type Engine struct {
	Locale         string
	CurrencySymbol string
	SymbolBefore   bool
	SettleDelay    time.Duration
	PollInterval   time.Duration
}

func (e Engine) withDefaults() Engine {
	if e.Locale == "" {
		e.Locale = "it-IT"
	}
	if e.CurrencySymbol == "" {
		e.CurrencySymbol = "€"
	}
	if e.SettleDelay <= 0 {
		e.SettleDelay = time.Second
	}
	if e.PollInterval <= 0 {
		e.PollInterval = 500 * time.Millisecond
	}
	return e
}

// RenderInput is everything the markup fragment needs. ProductID of zero
// means the render was requested outside a product context: the entry point
// produces no output at all.
type RenderInput struct {
	ProductID int64
	Config    Config
	Engine    Engine

	// Ajax wiring the client engine reads back from the fragment.
	AjaxURL   string
	CartNonce string
	VatNonce  string
}

const fragmentTemplate = `{{- if .ProductID -}}
<div class="cart-product-summary"
     data-product-id="{{ .ProductID }}"
     data-show-price-zero="{{ yn .Config.ShowPriceZero }}"
     data-show-cart="{{ yn .Config.ShowCart }}"
     data-show-selected="{{ yn .Config.ShowSelected }}"
     data-show-total="{{ yn .Config.ShowTotal }}"
     data-show-vat="{{ yn .Config.ShowVat }}"
     data-show-add-to-cart="{{ yn .Config.ShowAddToCart }}"
     data-locale="{{ .Engine.Locale }}"
     data-currency-symbol="{{ .Engine.CurrencySymbol }}"
     data-symbol-before="{{ yn .Engine.SymbolBefore }}"
     data-settle-delay-ms="{{ .Engine.SettleDelay.Milliseconds }}"
     data-poll-interval-ms="{{ .Engine.PollInterval.Milliseconds }}"
     data-ajax-url="{{ .AjaxURL }}"
     data-cart-nonce="{{ .CartNonce }}"
     data-vat-nonce="{{ .VatNonce }}">
  <h4 class="summary-title" style="font-size:{{ .Config.TitleSize }}px">{{ .Config.Title }}</h4>
  <div class="summary-content" style="display:none">
{{- if .Config.ShowCart }}
    <div class="summary-section cart-section" style="display:none;background-color:{{ .Config.CartColor }}">
      <div class="section-title">Nel Carrello</div>
      <div class="summary-row"><span class="summary-label">Quantità:</span><span class="summary-value cart-quantity">0</span></div>
      <div class="summary-row"><span class="summary-label">Totale:</span><span class="summary-value cart-total">0,00 €</span></div>
    </div>
{{- end }}
{{- if .Config.ShowSelected }}
    <div class="summary-section selected-section" style="display:none;background-color:{{ .Config.SelectedColor }}">
      <div class="section-title">Stai Aggiungendo</div>
      <div class="summary-row"><span class="summary-label">Quantità:</span><span class="summary-value selected-quantity">0</span></div>
      <div class="summary-row"><span class="summary-label">Prezzo unitario:</span><span class="summary-value summary-unit-price">0,00 €</span></div>
      <div class="summary-row"><span class="summary-label">Subtotale:</span><span class="summary-value selected-total">0,00 €</span></div>
{{- if .Config.ShowVat }}
      <div class="vat-info">di cui IVA <span class="vat-amount-selected">0,00 €</span></div>
{{- end }}
    </div>
{{- end }}
{{- if .Config.ShowTotal }}
    <div class="summary-section total-section" style="background-color:{{ .Config.TotalColor }}">
      <div class="section-title">Totale Complessivo</div>
      <div class="summary-row"><span class="summary-label">Quantità totale:</span><span class="summary-value total-quantity">0</span></div>
      <div class="summary-row"><span class="summary-label">Valore totale:</span><span class="summary-value grand-total">0,00 €</span></div>
{{- if .Config.ShowVat }}
      <div class="vat-info">di cui IVA <span class="vat-amount">0,00 €</span></div>
{{- end }}
    </div>
{{- end }}
{{- if .Config.ShowAddToCart }}
    <button type="button" class="summary-add-to-cart" disabled style="background-color:{{ .Config.AddToCartColor }}">Aggiungi al carrello</button>
{{- end }}
  </div>
  <div class="no-quantity"><p>Seleziona una quantità per vedere il riepilogo completo</p></div>
</div>
{{- end -}}`

var fragment = template.Must(template.New("cart-summary").Funcs(template.FuncMap{
	"yn": func(v bool) string {
		if v {
			return "yes"
		}
		return "no"
	},
}).Parse(fragmentTemplate))

// Render writes the widget markup fragment. The data attributes expose the
// resolved configuration for the client engine to read back.
func Render(w io.Writer, in RenderInput) error {
	in.Engine = in.Engine.withDefaults()
	return fragment.Execute(w, in)
}
