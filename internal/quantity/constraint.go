// Package quantity implements the shopper-facing quantity stepper and its
// externally configured min/max/step constraints.
package quantity

import (
	"strconv"

	"github.com/shopglance/cart-summary/internal/page"
)

// Constraint bounds accepted quantities. Max of zero means unlimited. Any
// accepted value v satisfies min <= v <= max and (v-min) mod step == 0.
type Constraint struct {
	Min  int
	Max  int
	Step int
}

// DefaultConstraint accepts any positive integer quantity.
func DefaultConstraint() Constraint {
	return Constraint{Min: 1, Max: 0, Step: 1}
}

// ConstraintFromField reads min/max/step attributes off a quantity input.
// Absent or malformed attributes fall back to the defaults.
func ConstraintFromField(n *page.Node) Constraint {
	c := DefaultConstraint()
	if n == nil {
		return c
	}
	if v, err := strconv.Atoi(n.Attr("min")); err == nil {
		c.Min = v
	}
	if v, err := strconv.Atoi(n.Attr("max")); err == nil {
		c.Max = v
	}
	if v, err := strconv.Atoi(n.Attr("step")); err == nil {
		c.Step = v
	}
	return c.normalized()
}

func (c Constraint) normalized() Constraint {
	if c.Min < 1 {
		c.Min = 1
	}
	if c.Step < 1 {
		c.Step = 1
	}
	if c.Max < 0 {
		c.Max = 0
	}
	if c.Max > 0 && c.Max < c.Min {
		c.Max = c.Min
	}
	return c
}

// Validate clamps raw into [Min, Max-or-unbounded] and snaps it to the
// nearest step-aligned value relative to Min, stepping back into range when
// rounding would exceed Max. Validate is idempotent.
func (c Constraint) Validate(raw int) int {
	c = c.normalized()
	if raw < c.Min {
		raw = c.Min
	}
	if c.Max > 0 && raw > c.Max {
		raw = c.Max
	}
	// Nearest step index, rounding half up.
	steps := (raw - c.Min + c.Step/2) / c.Step
	v := c.Min + steps*c.Step
	for c.Max > 0 && v > c.Max && v-c.Step >= c.Min {
		v -= c.Step
	}
	return v
}
