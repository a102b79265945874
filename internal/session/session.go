// Package session runs one widget instance: it owns the quantity stepper,
// the price observer, the cached cart and VAT state, and the debounced
// reconcile that feeds the render sink. All mutable state is confined to a
// single event-loop goroutine; public methods enqueue commands onto it.
package session

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopglance/cart-summary/internal/bridge"
	"github.com/shopglance/cart-summary/internal/cartdata"
	"github.com/shopglance/cart-summary/internal/events"
	"github.com/shopglance/cart-summary/internal/page"
	"github.com/shopglance/cart-summary/internal/price"
	"github.com/shopglance/cart-summary/internal/quantity"
	"github.com/shopglance/cart-summary/internal/summary"
	"github.com/shopglance/cart-summary/internal/vat"
	"github.com/shopglance/cart-summary/internal/widget"
)

// DefaultPollInterval is how often the observer re-reads the page price, a
// safety net for price changes no event announces.
const DefaultPollInterval = 500 * time.Millisecond

// Sink receives every reconciled view.
type Sink func(summary.View)

// Options configures a Session.
type Options struct {
	ProductID    int64
	Doc          *page.Document
	Config       widget.Config
	Formatter    price.Formatter
	Fetcher      *cartdata.Fetcher
	Bridge       *bridge.Bridge
	Bus          *events.Bus
	Sink         Sink
	PollInterval time.Duration
	SettleDelay  time.Duration
	Log          zerolog.Logger
}

// Session orchestrates one widget instance.
type Session struct {
	opts     Options
	stepper  *quantity.Stepper
	observer *price.Observer
	priceCtx *price.Context

	cmds   chan func()
	cancel context.CancelFunc
	done   chan struct{}

	// Loop-confined state. Touched only from run().
	variation *price.Variation
	cart      summary.CartState
	rate      vat.Rate
	vatAsked  bool
	debounce  *summary.Debouncer
	lastView  summary.View
	hasView   bool
	lastPrice string
}

// New builds and starts a session. The returned session is already
// reconciling; call Close to tear it down.
func New(opts Options) *Session {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = cartdata.SettleDelay
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}

	s := &Session{
		opts:     opts,
		cmds:     make(chan func(), 16),
		done:     make(chan struct{}),
		rate:     vat.Unresolved(),
		priceCtx: &price.Context{},
	}
	s.observer = price.NewObserver(opts.Doc, s.priceCtx, opts.Formatter)

	constraint := quantity.DefaultConstraint()
	if field := opts.Doc.Find("input.qty"); field != nil {
		constraint = quantity.ConstraintFromField(field)
	}
	s.stepper = quantity.NewStepper(constraint,
		quantity.MirrorFunc(func(v int) {
			opts.Doc.SetFieldValue("quantity", strconv.Itoa(v))
		}),
		func(int) {
			_ = opts.Bus.Emit(context.Background(), events.TopicQuantityChanged, nil)
		},
	)
	s.debounce = summary.NewDebouncer(func() {
		s.enqueue(func() { s.reconcile() })
	})

	s.subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)

	s.enqueue(func() { s.reconcile() })
	s.refreshCart(0)
	return s
}

func (s *Session) subscribe() {
	bus := s.opts.Bus
	debounced := func(delay time.Duration) events.Handler {
		return func(context.Context, events.Event) error {
			s.debounce.Trigger(delay)
			return nil
		}
	}
	bus.Subscribe(events.TopicQuantityChanged, debounced(summary.StepperDelay))
	bus.Subscribe(events.TopicOptionsChanged, debounced(summary.InputDelay))
	bus.Subscribe(events.TopicDimensionsChanged, debounced(summary.InputDelay))
	bus.Subscribe(events.TopicVariationFound, func(_ context.Context, ev events.Event) error {
		v, _ := ev.Payload.(*price.Variation)
		s.enqueue(func() {
			s.variation = v
			s.vatAsked = false
			s.reconcile()
		})
		return nil
	})
	bus.Subscribe(events.TopicVariationReset, func(context.Context, events.Event) error {
		s.enqueue(func() {
			s.variation = nil
			s.reconcile()
		})
		return nil
	})
	bus.Subscribe(events.TopicCartAdded, func(context.Context, events.Event) error {
		s.refreshCart(s.opts.SettleDelay)
		return nil
	})
	bus.Subscribe(events.TopicCartUpdated, func(context.Context, events.Event) error {
		s.refreshCart(s.opts.SettleDelay)
		return nil
	})
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.cmds:
			cmd()
		case <-ticker.C:
			s.pollPrice()
		}
	}
}

func (s *Session) enqueue(cmd func()) {
	select {
	case s.cmds <- cmd:
	case <-s.done:
	}
}

// reconcile recomputes the view and pushes it to the sink when it changed.
func (s *Session) reconcile() {
	s.priceCtx.Variation = s.variation
	snap := s.observer.Resolve()
	s.lastPrice = s.opts.Formatter.Format(snap.Total)
	sel := summary.Selection{Quantity: s.selectedQuantity(), Price: snap}

	if s.opts.Config.ShowVat && s.rate.Kind() == vat.Unknown && !s.vatAsked {
		s.vatAsked = true
		s.fetchVat()
	}

	view := summary.Reconcile(s.cart, sel, s.rate, s.opts.Config, s.opts.Formatter)
	if s.hasView && view == s.lastView {
		return
	}
	s.lastView = view
	s.hasView = true
	if s.opts.Sink != nil {
		s.opts.Sink(view)
	}
}

func (s *Session) selectedQuantity() int {
	if s.stepper.State() == quantity.Unset {
		return 0
	}
	return s.stepper.Value()
}

func (s *Session) pollPrice() {
	s.priceCtx.Variation = s.variation
	snap := s.observer.Resolve()
	// Re-reconcile only when the page price drifted since the last run.
	if s.hasView && s.opts.Formatter.Format(snap.Total) == s.lastPrice {
		return
	}
	s.reconcile()
}

func (s *Session) refreshCart(after time.Duration) {
	fetch := func() {
		if s.opts.Fetcher == nil {
			return
		}
		var variationID int64
		if s.variation != nil {
			variationID = s.variation.ID
		}
		s.opts.Fetcher.FetchCartAsync(context.Background(), s.opts.ProductID, variationID,
			func(state summary.CartState) {
				s.enqueue(func() {
					s.cart = state
					s.reconcile()
				})
			})
	}
	if after <= 0 {
		s.enqueue(fetch)
		return
	}
	time.AfterFunc(after, func() { s.enqueue(fetch) })
}

func (s *Session) fetchVat() {
	if s.opts.Fetcher == nil {
		return
	}
	var variationID int64
	if s.variation != nil {
		variationID = s.variation.ID
	}
	productID := s.opts.ProductID
	go func() {
		rate := s.opts.Fetcher.VatRate(context.Background(), productID, variationID)
		s.enqueue(func() {
			s.rate = rate
			s.reconcile()
		})
	}()
}

// SetQuantityText feeds a typed quantity edit through the stepper.
func (s *Session) SetQuantityText(text string) {
	s.enqueue(func() { s.stepper.SetText(text) })
}

// Increment steps the quantity up.
func (s *Session) Increment() {
	s.enqueue(func() { s.stepper.Increment() })
}

// Decrement steps the quantity down.
func (s *Session) Decrement() {
	s.enqueue(func() { s.stepper.Decrement() })
}

// InitQuantity seeds the stepper from the page's current field value.
func (s *Session) InitQuantity(raw string) {
	s.enqueue(func() { s.stepper.Init(raw) })
}

// SelectVariation announces a resolved variation.
func (s *Session) SelectVariation(v *price.Variation) {
	_ = s.opts.Bus.Emit(context.Background(), events.TopicVariationFound, v)
}

// ResetVariation clears the active variation.
func (s *Session) ResetVariation() {
	_ = s.opts.Bus.Emit(context.Background(), events.TopicVariationReset, nil)
}

// AddToCart submits the current quantity through the page's native path.
func (s *Session) AddToCart() {
	s.enqueue(func() {
		if s.opts.Bridge == nil {
			return
		}
		qty := s.selectedQuantity()
		if err := s.opts.Bridge.Submit(qty); err != nil {
			s.opts.Log.Warn().Err(err).Msg("add to cart failed")
			return
		}
		if qty > 0 {
			_ = s.opts.Bus.Emit(context.Background(), events.TopicCartAdded, nil)
		}
	})
}

// Close stops the event loop and cancels pending timers.
func (s *Session) Close() {
	s.debounce.Stop()
	s.cancel()
	<-s.done
}
