// internal/events/types.go
package events

import (
	"time"

	"github.com/launchforge/curve-engine/internal/types"
)

// EventType represents the type of event.
type EventType string

const (
	// CurveLaunched is emitted when a new curve is registered.
	CurveLaunched EventType = "curve.launched"

	// TradeExecuted is emitted after a trade commits.
	TradeExecuted EventType = "curve.trade_executed"

	// CurveCompleted is emitted exactly once per curve, on the trade that
	// crosses the graduation threshold.
	CurveCompleted EventType = "curve.completed"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// CurveLaunchedEvent is emitted when a curve is registered with the book.
type CurveLaunchedEvent struct {
	BaseEvent
	CurveID  string
	Strategy types.Strategy
}

// TradeExecutedEvent is emitted after a trade commits to the book.
type TradeExecutedEvent struct {
	BaseEvent
	CurveID   string
	Direction types.Direction
	AmountIn  uint64
	AmountOut uint64
	FeeAmount uint64
	// Post-trade reserves, for downstream consumers that track depth.
	VirtualBaseReserves  uint64
	VirtualQuoteReserves uint64
	RealQuoteReserves    uint64
}

// CurveCompletedEvent carries the final real reserves for the one-shot
// liquidity handoff.
type CurveCompletedEvent struct {
	BaseEvent
	CurveID            string
	FinalBaseReserves  uint64
	FinalQuoteReserves uint64
}
