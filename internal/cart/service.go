package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when the provided identifiers are unusable.
var ErrInvalidInput = errors.New("invalid input")

// LineSource abstracts the store for testing.
type LineSource interface {
	LinesForCart(ctx context.Context, cartKey string) ([]Line, error)
}

// Service answers the widget's cart questions.
type Service struct {
	Lines LineSource
}

// Quantity is the aggregated cart state for one product.
type Quantity struct {
	Quantity int
	Total    decimal.Decimal
}

// QuantityForProduct aggregates the cart's lines for the product, counting
// both direct lines and variation lines.
func (s *Service) QuantityForProduct(ctx context.Context, cartKey string, productID int64) (Quantity, error) {
	if s == nil || s.Lines == nil {
		return Quantity{}, errors.New("cart service not configured")
	}
	if cartKey == "" || productID <= 0 {
		return Quantity{}, ErrInvalidInput
	}
	lines, err := s.Lines.LinesForCart(ctx, cartKey)
	if err != nil {
		return Quantity{}, fmt.Errorf("load cart %s: %w", cartKey, err)
	}
	qty, total := Aggregate(lines, productID)
	return Quantity{Quantity: qty, Total: total}, nil
}
