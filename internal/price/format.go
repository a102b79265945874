package price

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders monetary values with locale-appropriate grouping, two
// fractional digits and the storefront's currency symbol.
type Formatter struct {
	printer *message.Printer
	symbol  string
	prefix  bool
}

// NewFormatter builds a formatter for the given BCP 47 locale tag. An
// unknown tag falls back to Italian, matching the storefront default.
func NewFormatter(locale, symbol string, symbolBefore bool) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Italian
	}
	if symbol == "" {
		symbol = "€"
	}
	return Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
		prefix:  symbolBefore,
	}
}

// DefaultFormatter matches the storefront's it-IT / trailing euro display.
func DefaultFormatter() Formatter {
	return NewFormatter("it-IT", "€", false)
}

// Format renders the amount, e.g. "1.234,56 €" for it-IT.
func (f Formatter) Format(d decimal.Decimal) string {
	p := f.printer
	if p == nil {
		p = message.NewPrinter(language.Italian)
	}
	number := p.Sprintf("%.2f", d.Round(2).InexactFloat64())
	symbol := f.symbol
	if symbol == "" {
		symbol = "€"
	}
	if f.prefix {
		return symbol + number
	}
	return number + " " + symbol
}

// Zero renders the zero-currency string used when no price resolves.
func (f Formatter) Zero() string {
	return f.Format(decimal.Zero)
}

// ParseLocaleTag reports whether the locale string parses cleanly. Used by
// configuration validation.
func ParseLocaleTag(locale string) bool {
	if strings.TrimSpace(locale) == "" {
		return false
	}
	_, err := language.Parse(locale)
	return err == nil
}
