package quantity

import (
	"strconv"
	"strings"
)

// State tracks the stepper lifecycle. There is no terminal state; the
// stepper lives as long as the page.
type State int

const (
	Unset State = iota
	Initialized
	Valid
)

// Mirror receives every accepted value synchronously, keeping the hidden
// native quantity field in lockstep. The native add-to-cart submission path
// reads that field, so mirroring must never lag behind.
type Mirror interface {
	SetQuantity(v int)
}

// MirrorFunc adapts a function to the Mirror interface.
type MirrorFunc func(int)

// SetQuantity implements Mirror.
func (f MirrorFunc) SetQuantity(v int) { f(v) }

// Stepper owns the visible numeric quantity field. Every mutation re-enters
// through Validate, and button enablement is recomputed after each change.
type Stepper struct {
	c        Constraint
	state    State
	value    int
	mirror   Mirror
	onChange func(int)
}

// NewStepper binds a stepper to its constraint. onChange fires after every
// accepted transition, mirror first.
func NewStepper(c Constraint, mirror Mirror, onChange func(int)) *Stepper {
	return &Stepper{c: c.normalized(), mirror: mirror, onChange: onChange}
}

// Init performs the first read of the field. Empty or below-minimum input
// initializes to the constraint minimum.
func (s *Stepper) Init(raw string) int {
	raw = strings.TrimSpace(raw)
	v, err := strconv.Atoi(raw)
	if raw == "" || err != nil || v < s.c.Min {
		v = s.c.Min
	}
	s.state = Initialized
	return s.apply(v)
}

// Set re-validates a raw numeric value from an edit or arrow-key event.
func (s *Stepper) Set(raw int) int {
	if s.state == Unset {
		return s.Init(strconv.Itoa(raw))
	}
	return s.apply(raw)
}

// SetText handles text-field edits; non-numeric input coerces to the minimum.
func (s *Stepper) SetText(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v = s.c.Min
	}
	return s.Set(v)
}

// Increment moves up exactly one step, clamped at the upper bound.
func (s *Stepper) Increment() int {
	if s.state == Unset {
		return s.Init("")
	}
	return s.apply(s.value + s.c.Step)
}

// Decrement moves down exactly one step, clamped at the lower bound.
func (s *Stepper) Decrement() int {
	if s.state == Unset {
		return s.Init("")
	}
	return s.apply(s.value - s.c.Step)
}

// Value returns the current accepted quantity.
func (s *Stepper) Value() int { return s.value }

// State returns the lifecycle state.
func (s *Stepper) State() State { return s.state }

// Constraint returns the bound constraint.
func (s *Stepper) Constraint() Constraint { return s.c }

// CanIncrement reports whether the plus button should be enabled.
func (s *Stepper) CanIncrement() bool {
	return s.c.Max == 0 || s.value+s.c.Step <= s.c.Max
}

// CanDecrement reports whether the minus button should be enabled.
func (s *Stepper) CanDecrement() bool {
	return s.value-s.c.Step >= s.c.Min
}

func (s *Stepper) apply(raw int) int {
	v := s.c.Validate(raw)
	changed := v != s.value || s.state != Valid
	s.value = v
	if s.state == Initialized || s.state == Unset {
		s.state = Valid
	}
	if s.mirror != nil {
		s.mirror.SetQuantity(v)
	}
	if changed && s.onChange != nil {
		s.onChange(v)
	}
	return v
}
