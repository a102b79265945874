// Package bridge submits the widget's selected quantity through the page's
// own add-to-cart machinery, so theme and plugin hooks observing that path
// keep firing. It never builds its own cart request.
package bridge

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ReenableDelay is how long the widget button stays disabled after a
// submission before it is armed again.
const ReenableDelay = 1500 * time.Millisecond

const (
	idleLabel = "Aggiungi al carrello"
	busyLabel = "Aggiunta in corso..."
)

// PageControls is the slice of the product page the bridge drives.
type PageControls interface {
	// SetQuantityField writes the quantity into the page's native input.
	SetQuantityField(qty int) error
	// ClickAddToCart triggers the native button. Returns false when no
	// native button exists on the page.
	ClickAddToCart() (bool, error)
	// SubmitCartForm posts the cart form directly, the fallback path.
	SubmitCartForm() error
}

// Button is the widget's own add-to-cart control.
type Button interface {
	SetEnabled(enabled bool)
	SetLabel(label string)
}

// Bridge coordinates one widget button against one page.
type Bridge struct {
	page   PageControls
	button Button
	log    zerolog.Logger

	mu      sync.Mutex
	busy    bool
	rearm   *time.Timer
	onAdded func()
}

func New(page PageControls, button Button, log zerolog.Logger) *Bridge {
	return &Bridge{page: page, button: button, log: log}
}

// OnAdded registers a callback fired after every accepted submission.
func (b *Bridge) OnAdded(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onAdded = fn
}

// Submit pushes qty through the native path. Non-positive quantities are
// ignored, as are submissions while a prior one is still settling.
func (b *Bridge) Submit(qty int) error {
	if qty <= 0 {
		return nil
	}
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return nil
	}
	b.busy = true
	added := b.onAdded
	b.mu.Unlock()

	b.button.SetEnabled(false)
	b.button.SetLabel(busyLabel)

	if err := b.page.SetQuantityField(qty); err != nil {
		b.release()
		return err
	}
	clicked, err := b.page.ClickAddToCart()
	if err != nil {
		b.release()
		return err
	}
	if !clicked {
		if err := b.page.SubmitCartForm(); err != nil {
			b.release()
			return err
		}
		b.log.Debug().Int("qty", qty).Msg("no native button, submitted cart form")
	}

	if added != nil {
		added()
	}
	b.scheduleRearm()
	return nil
}

// Busy reports whether a submission is still settling.
func (b *Bridge) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// Stop cancels a pending re-arm. Used on widget teardown.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rearm != nil {
		b.rearm.Stop()
		b.rearm = nil
	}
}

func (b *Bridge) scheduleRearm() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rearm != nil {
		b.rearm.Stop()
	}
	b.rearm = time.AfterFunc(ReenableDelay, b.release)
}

func (b *Bridge) release() {
	b.mu.Lock()
	b.busy = false
	b.mu.Unlock()
	b.button.SetLabel(idleLabel)
	b.button.SetEnabled(true)
}
