package summary

import (
	"sync"
	"time"
)

// Trailing-edge delays for the two input shapes: typed quantity edits settle
// faster than stepper clicks, which tend to arrive in bursts.
const (
	InputDelay   = 100 * time.Millisecond
	StepperDelay = 200 * time.Millisecond
)

// Debouncer coalesces bursts of triggers into one callback after the
// trailing delay. Safe for concurrent use; Stop cancels any pending fire.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	fn    func()
}

func NewDebouncer(fn func()) *Debouncer {
	return &Debouncer{fn: fn}
}

// Trigger schedules the callback after delay, resetting any pending fire.
func (d *Debouncer) Trigger(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, d.fn)
}

// Stop cancels a pending fire, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
