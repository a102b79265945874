// Package events provides the in-process event channel the widget's input
// sources dispatch into. Subscribers run synchronously on the emitting
// goroutine; the session loop is the only emitter, which preserves the
// page's single-threaded, cooperative scheduling model.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Event is one state-change notification.
type Event struct {
	Topic      string
	Payload    any
	OccurredAt time.Time
}

// Handler reacts to an emitted event. Handler errors never abort the fanout.
type Handler func(ctx context.Context, ev Event) error

// Bus fans events out to topic subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
	now  func() time.Time
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: map[string][]Handler{}, now: time.Now}
}

// Subscribe registers a handler for the topic.
func (b *Bus) Subscribe(topic string, h Handler) {
	if b == nil || h == nil {
		return
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Emit dispatches the event to every subscriber of its topic. Individual
// handler errors are joined and returned, never fatal.
func (b *Bus) Emit(ctx context.Context, topic string, payload any) error {
	if b == nil {
		return errors.New("events: bus not configured")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("events: topic is required")
	}
	ev := Event{Topic: topic, Payload: payload, OccurredAt: b.now()}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.subs[topic]...)
	b.mu.RUnlock()

	var joined error
	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			joined = errors.Join(joined, fmt.Errorf("events: %s: %w", topic, err))
		}
	}
	return joined
}
