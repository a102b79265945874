package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopglance/cart-summary/internal/events"
)

func TestEmitFansOutToTopicSubscribers(t *testing.T) {
	bus := events.NewBus()
	var got []events.Event
	bus.Subscribe(events.TopicQuantityChanged, func(_ context.Context, ev events.Event) error {
		got = append(got, ev)
		return nil
	})
	bus.Subscribe(events.TopicCartAdded, func(_ context.Context, ev events.Event) error {
		t.Fatal("wrong topic delivered")
		return nil
	})

	err := bus.Emit(context.Background(), events.TopicQuantityChanged, 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, events.TopicQuantityChanged, got[0].Topic)
	require.Equal(t, 4, got[0].Payload)
	require.False(t, got[0].OccurredAt.IsZero())
}

func TestEmitJoinsHandlerErrors(t *testing.T) {
	bus := events.NewBus()
	boom := errors.New("boom")
	var secondRan bool
	bus.Subscribe(events.TopicCartUpdated, func(context.Context, events.Event) error { return boom })
	bus.Subscribe(events.TopicCartUpdated, func(context.Context, events.Event) error {
		secondRan = true
		return nil
	})

	err := bus.Emit(context.Background(), events.TopicCartUpdated, nil)
	require.ErrorIs(t, err, boom)
	require.True(t, secondRan, "a failing handler must not abort the fanout")
}

func TestEmitRequiresTopic(t *testing.T) {
	bus := events.NewBus()
	require.Error(t, bus.Emit(context.Background(), "  ", nil))
}
