// Package vat models product VAT rates. A plain zero is structurally
// ambiguous between "confirmed zero-rated" and "lookup failed", so the rate
// is an explicit tri-state: callers may retry an Unknown lookup but must
// treat a ZeroRated product as final.
package vat

import "github.com/shopspring/decimal"

// Kind discriminates the tri-state.
type Kind int

const (
	// Unknown means the rate could not be resolved (network failure,
	// unconfigured store). Renders no VAT line; eligible for re-lookup.
	Unknown Kind = iota
	// ZeroRated means the product is confirmed tax-free.
	ZeroRated
	// Known carries a confirmed positive percentage.
	Known
)

// Rate is an immutable VAT rate value.
type Rate struct {
	kind Kind
	pct  decimal.Decimal
}

// KnownRate builds a confirmed rate. Non-positive percentages collapse to
// ZeroRated.
func KnownRate(pct decimal.Decimal) Rate {
	if !pct.IsPositive() {
		return Rate{kind: ZeroRated}
	}
	return Rate{kind: Known, pct: pct}
}

// Zero returns the confirmed zero-rated value.
func Zero() Rate { return Rate{kind: ZeroRated} }

// Unresolved returns the Unknown value.
func Unresolved() Rate { return Rate{kind: Unknown} }

// Kind returns the discriminator.
func (r Rate) Kind() Kind { return r.kind }

// Percent returns the percentage and whether it is confirmed positive.
func (r Rate) Percent() (decimal.Decimal, bool) {
	return r.pct, r.kind == Known
}

// ShowsLine reports whether a VAT line should render for this rate.
func (r Rate) ShowsLine() bool { return r.kind == Known }

// ExtractFrom derives the tax component of a tax-inclusive total:
// total × rate/(100+rate). Unknown and zero-rated extract nothing.
func (r Rate) ExtractFrom(total decimal.Decimal) decimal.Decimal {
	if r.kind != Known {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return total.Mul(r.pct).Div(hundred.Add(r.pct)).Round(2)
}
