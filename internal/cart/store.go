// Package cart backs the widget's ajax boundary: it reads cart lines for a
// guest cart key and aggregates them per product.
package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Line is one cart row as seen by the widget.
type Line struct {
	ProductID   int64
	VariationID int64
	Quantity    int
	LineTotal   decimal.Decimal
}

// Querier is the pgx surface the store needs; *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store reads cart lines from Postgres.
type Store struct {
	DB Querier
}

// LinesForCart returns every line for the cart key, newest first not
// required; order is irrelevant to aggregation.
func (s *Store) LinesForCart(ctx context.Context, cartKey string) ([]Line, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT product_id, variation_id, quantity, line_total::text
		FROM cart_lines
		WHERE cart_key = $1`, cartKey)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var (
			l     Line
			total string
		)
		if err := rows.Scan(&l.ProductID, &l.VariationID, &l.Quantity, &total); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		l.LineTotal, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse line total %q: %w", total, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return lines, nil
}

// Aggregate sums quantity and total over every line belonging to the
// product: a line counts when its product id matches or when it is a
// variation of the product. The parent widget therefore reflects all
// variants together.
func Aggregate(lines []Line, productID int64) (int, decimal.Decimal) {
	qty := 0
	total := decimal.Zero
	for _, l := range lines {
		if l.ProductID != productID && l.VariationID != productID {
			continue
		}
		qty += l.Quantity
		total = total.Add(l.LineTotal)
	}
	return qty, total
}
