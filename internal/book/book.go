// internal/book/book.go
package book

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/launchforge/curve-engine/internal/curve"
	"github.com/launchforge/curve-engine/internal/events"
	"github.com/launchforge/curve-engine/internal/storage"
	"github.com/launchforge/curve-engine/internal/storage/models"
	"github.com/launchforge/curve-engine/internal/types"
)

// Settler moves the real assets for a committed trade. The book calls it
// before committing the new snapshot, so a settlement failure leaves the
// prior snapshot canonical.
type Settler interface {
	Settle(ctx context.Context, curveID string, direction types.Direction, amountIn, amountOut uint64) error
}

// Migrator receives the final real reserves exactly once per curve, on the
// trade that completes it, to bootstrap external liquidity.
type Migrator interface {
	Migrate(ctx context.Context, curveID string, realBase, realQuote uint64) error
}

// Book hosts curve instances around the pure engine. It owns the
// serialization the engine requires: one mutex per curve keeps applies
// against a given snapshot from interleaving, while distinct curves trade
// in parallel with no coordination.
type Book struct {
	mu     sync.RWMutex
	curves map[string]*curveEntry

	engine   *curve.Engine
	store    storage.Storage
	bus      *events.Bus
	settler  Settler
	migrator Migrator
	logger   *zap.Logger
}

type curveEntry struct {
	mu       sync.Mutex
	snap     curve.Snapshot
	migrated bool
}

// Options configures the optional collaborators. Nil fields are skipped.
type Options struct {
	Settler  Settler
	Migrator Migrator
}

func New(store storage.Storage, bus *events.Bus, logger *zap.Logger, opts Options) *Book {
	return &Book{
		curves:   make(map[string]*curveEntry),
		engine:   curve.NewEngine(),
		store:    store,
		bus:      bus,
		settler:  opts.Settler,
		migrator: opts.Migrator,
		logger:   logger.Named("book"),
	}
}

// Launch validates launch parameters, registers the curve, and persists
// its initial snapshot.
func (b *Book) Launch(ctx context.Context, curveID string, params curve.LaunchParams) (curve.Snapshot, error) {
	snap, err := curve.NewSnapshot(params)
	if err != nil {
		return curve.Snapshot{}, fmt.Errorf("failed to validate launch params: %w", err)
	}

	b.mu.Lock()
	if _, exists := b.curves[curveID]; exists {
		b.mu.Unlock()
		return curve.Snapshot{}, fmt.Errorf("curve %s already launched", curveID)
	}
	b.curves[curveID] = &curveEntry{snap: snap}
	b.mu.Unlock()

	if err := b.store.SaveCurve(ctx, models.NewCurveRecord(curveID, snap)); err != nil {
		b.mu.Lock()
		delete(b.curves, curveID)
		b.mu.Unlock()
		return curve.Snapshot{}, fmt.Errorf("failed to persist curve: %w", err)
	}

	curvesLaunched.Inc()
	b.logger.Info("Curve launched",
		zap.String("curve_id", curveID),
		zap.String("strategy", params.Strategy.String()),
		zap.Uint64("graduation_threshold", params.GraduationThreshold),
		zap.Uint16("fee_basis_points", params.FeeBasisPoints))

	b.publish(ctx, events.CurveLaunchedEvent{
		BaseEvent: events.BaseEvent{EventType: events.CurveLaunched, EventTime: time.Now()},
		CurveID:   curveID,
		Strategy:  params.Strategy,
	})

	return snap, nil
}

// Trade runs one serialized quote -> apply -> gate -> settle -> persist
// cycle against a curve. The in-memory snapshot advances only after
// settlement and persistence both succeed.
func (b *Book) Trade(ctx context.Context, curveID string, req curve.TradeRequest) (curve.TradeResult, error) {
	entry, err := b.entry(curveID)
	if err != nil {
		return curve.TradeResult{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	start := time.Now()
	res, err := b.engine.Trade(entry.snap, req)
	if err != nil {
		observeTrade(req.Direction.String(), start, err)
		return curve.TradeResult{}, err
	}

	if b.settler != nil {
		if err := b.settler.Settle(ctx, curveID, req.Direction, res.AmountIn, res.AmountOut); err != nil {
			observeTrade(req.Direction.String(), start, err)
			return curve.TradeResult{}, fmt.Errorf("settlement failed: %w", err)
		}
	}

	if err := b.persist(ctx, curveID, req.Direction, res); err != nil {
		observeTrade(req.Direction.String(), start, err)
		return curve.TradeResult{}, err
	}

	entry.snap = res.NewSnapshot
	observeTrade(req.Direction.String(), start, nil)

	b.logger.Debug("Trade committed",
		zap.String("curve_id", curveID),
		zap.String("direction", req.Direction.String()),
		zap.Uint64("amount_in", res.AmountIn),
		zap.Uint64("amount_out", res.AmountOut),
		zap.Uint64("fee_amount", res.FeeAmount),
		zap.Bool("completed", res.CompletedThisTrade))

	b.publish(ctx, events.TradeExecutedEvent{
		BaseEvent:            events.BaseEvent{EventType: events.TradeExecuted, EventTime: time.Now()},
		CurveID:              curveID,
		Direction:            req.Direction,
		AmountIn:             res.AmountIn,
		AmountOut:            res.AmountOut,
		FeeAmount:            res.FeeAmount,
		VirtualBaseReserves:  res.NewSnapshot.VirtualBaseReserves,
		VirtualQuoteReserves: res.NewSnapshot.VirtualQuoteReserves,
		RealQuoteReserves:    res.NewSnapshot.RealQuoteReserves,
	})

	if res.CompletedThisTrade {
		b.handleCompletion(ctx, curveID, entry, res.NewSnapshot)
	}

	return res, nil
}

// Quote prices a trade without applying it.
func (b *Book) Quote(curveID string, req curve.TradeRequest) (curve.TradeQuote, error) {
	entry, err := b.entry(curveID)
	if err != nil {
		return curve.TradeQuote{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return b.engine.Quote(entry.snap, req)
}

// MaxAffordableAmount proxies the polynomial budget search.
func (b *Book) MaxAffordableAmount(curveID string, budget uint64) (uint64, error) {
	entry, err := b.entry(curveID)
	if err != nil {
		return 0, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return b.engine.MaxAffordableAmount(entry.snap, budget)
}

// Snapshot returns the current committed snapshot of a curve.
func (b *Book) Snapshot(curveID string) (curve.Snapshot, error) {
	entry, err := b.entry(curveID)
	if err != nil {
		return curve.Snapshot{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.snap, nil
}

func (b *Book) entry(curveID string) (*curveEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.curves[curveID]
	if !ok {
		return nil, fmt.Errorf("unknown curve %s", curveID)
	}
	return entry, nil
}

func (b *Book) persist(ctx context.Context, curveID string, direction types.Direction, res curve.TradeResult) error {
	if err := b.store.SaveCurve(ctx, models.NewCurveRecord(curveID, res.NewSnapshot)); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	trade := &models.TradeRecord{
		CurveID:        curveID,
		Direction:      direction.String(),
		AmountIn:       res.AmountIn,
		AmountOut:      res.AmountOut,
		FeeAmount:      res.FeeAmount,
		CompletedCurve: res.CompletedThisTrade,
		ExecutedAt:     time.Now().UTC(),
	}
	if err := b.store.SaveTrade(ctx, trade); err != nil {
		// The snapshot is already durable; a missing history row is
		// recoverable, so the trade still commits.
		b.logger.Warn("Failed to persist trade history",
			zap.String("curve_id", curveID), zap.Error(err))
	}
	return nil
}

// handleCompletion runs under the curve's lock, so the one-shot guard
// needs no extra synchronization.
func (b *Book) handleCompletion(ctx context.Context, curveID string, entry *curveEntry, snap curve.Snapshot) {
	completionsTotal.Inc()
	b.logger.Info("Curve completed",
		zap.String("curve_id", curveID),
		zap.Uint64("final_base_reserves", snap.RealBaseReserves),
		zap.Uint64("final_quote_reserves", snap.RealQuoteReserves))

	b.publish(ctx, events.CurveCompletedEvent{
		BaseEvent:          events.BaseEvent{EventType: events.CurveCompleted, EventTime: time.Now()},
		CurveID:            curveID,
		FinalBaseReserves:  snap.RealBaseReserves,
		FinalQuoteReserves: snap.RealQuoteReserves,
	})

	if b.migrator != nil && !entry.migrated {
		entry.migrated = true
		if err := b.migrator.Migrate(ctx, curveID, snap.RealBaseReserves, snap.RealQuoteReserves); err != nil {
			// The curve stays complete either way; migration is a
			// downstream concern and can be retried out of band.
			b.logger.Error("Liquidity migration failed",
				zap.String("curve_id", curveID), zap.Error(err))
		}
	}
}

func (b *Book) publish(ctx context.Context, event events.Event) {
	if b.bus == nil {
		return
	}
	if err := b.bus.Publish(ctx, event); err != nil {
		b.logger.Warn("Event delivery failed",
			zap.String("event_type", string(event.Type())), zap.Error(err))
	}
}
