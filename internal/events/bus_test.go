// internal/events/bus_test.go
package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var got []Event
	bus.SubscribeFunc(TradeExecuted, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	ev := TradeExecutedEvent{
		BaseEvent: BaseEvent{EventType: TradeExecuted, EventTime: time.Now()},
		CurveID:   "curve-1",
		AmountIn:  100,
		AmountOut: 90,
	}
	require.NoError(t, bus.Publish(context.Background(), ev))
	require.Len(t, got, 1)
	assert.Equal(t, TradeExecuted, got[0].Type())
}

func TestPublishSkipsOtherTypes(t *testing.T) {
	bus := NewBus(zap.NewNop())

	called := false
	bus.SubscribeFunc(CurveCompleted, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	ev := TradeExecutedEvent{BaseEvent: BaseEvent{EventType: TradeExecuted, EventTime: time.Now()}}
	require.NoError(t, bus.Publish(context.Background(), ev))
	assert.False(t, called)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())

	count := 0
	sub := bus.SubscribeFunc(TradeExecuted, func(_ context.Context, _ Event) error {
		count++
		return nil
	})

	ev := TradeExecutedEvent{BaseEvent: BaseEvent{EventType: TradeExecuted, EventTime: time.Now()}}
	require.NoError(t, bus.Publish(context.Background(), ev))
	sub.Unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), ev))
	assert.Equal(t, 1, count)
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())

	delivered := 0
	bus.SubscribeFunc(TradeExecuted, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	bus.SubscribeFunc(TradeExecuted, func(_ context.Context, _ Event) error {
		delivered++
		return nil
	})

	ev := TradeExecutedEvent{BaseEvent: BaseEvent{EventType: TradeExecuted, EventTime: time.Now()}}
	err := bus.Publish(context.Background(), ev)
	assert.Error(t, err)
	assert.Equal(t, 1, delivered)
}
