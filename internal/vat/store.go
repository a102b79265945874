package vat

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Querier is the subset of pgx the store needs, satisfied by *pgxpool.Pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store resolves VAT rates from the platform's tax tables. The tables are
// owned by the e-commerce platform; the store only reads them.
type Store struct {
	DB Querier
}

// Lookup is the resolution result plus the debug payload the boundary
// response exposes.
type Lookup struct {
	Rate     Rate
	TaxClass string
}

// RateForProduct resolves the rate for a product, preferring the variation's
// tax classification when a variation id is given. A product without a
// configured rate is confirmed zero-rated; a query failure is Unknown.
func (s *Store) RateForProduct(ctx context.Context, productID, variationID int64) (Lookup, error) {
	if s == nil || s.DB == nil {
		return Lookup{Rate: Unresolved()}, errors.New("vat store not configured")
	}
	subject := productID
	if variationID > 0 {
		subject = variationID
	}

	var taxClass string
	err := s.DB.QueryRow(ctx,
		`SELECT tax_class FROM products WHERE id = $1`, subject).Scan(&taxClass)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lookup{Rate: Zero()}, nil
		}
		return Lookup{Rate: Unresolved()}, fmt.Errorf("load tax class: %w", err)
	}

	var pct decimal.Decimal
	err = s.DB.QueryRow(ctx,
		`SELECT rate FROM tax_rates WHERE tax_class = $1 ORDER BY priority, id LIMIT 1`,
		taxClass).Scan(&pct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lookup{Rate: Zero(), TaxClass: taxClass}, nil
		}
		return Lookup{Rate: Unresolved(), TaxClass: taxClass}, fmt.Errorf("load tax rate: %w", err)
	}
	return Lookup{Rate: KnownRate(pct), TaxClass: taxClass}, nil
}
