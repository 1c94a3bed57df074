// internal/sim/worker.go
package sim

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/launchforge/curve-engine/internal/book"
	"github.com/launchforge/curve-engine/internal/curve"
	"github.com/launchforge/curve-engine/internal/types"
)

// tradeTask is one unit of simulated flow: a buy of Amount against a
// curve, optionally followed by selling half of the received tokens back.
type tradeTask struct {
	CurveID      string
	Amount       uint64
	SellBackHalf bool
}

type WorkerPool struct {
	wg       sync.WaitGroup
	ctx      context.Context
	tasks    <-chan tradeTask
	logger   *zap.Logger
	book     *book.Book
	slippage types.SlippageConfig
}

func NewWorkerPool(ctx context.Context, logger *zap.Logger, b *book.Book, tasks <-chan tradeTask) *WorkerPool {
	return &WorkerPool{
		ctx:    ctx,
		logger: logger,
		book:   b,
		tasks:  tasks,
		// Concurrent flow moves the price between quote and trade, so
		// buys tolerate a percent of drift.
		slippage: types.SlippageConfig{Type: types.SlippageBps, Value: 100},
	}
}

func (wp *WorkerPool) Start(n int) {
	for i := 0; i < n; i++ {
		wp.wg.Add(1)
		go wp.worker(i + 1)
	}
}

func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	logger := wp.logger.With(zap.Int("worker_id", id))
	logger.Debug("Worker started")

	for {
		select {
		case <-wp.ctx.Done():
			logger.Debug("Worker shutting down due to context cancellation")
			return
		case t, ok := <-wp.tasks:
			if !ok {
				logger.Debug("Task channel closed")
				return
			}
			wp.handleTask(wp.ctx, t, logger)
		}
	}
}

func (wp *WorkerPool) handleTask(ctx context.Context, t tradeTask, logger *zap.Logger) {
	res, err := wp.buyWithSlippage(ctx, t, logger)
	if err != nil {
		// Curves graduate mid-run; remaining flow against them is expected
		// to bounce.
		if errors.Is(err, curve.ErrCurveComplete) {
			logger.Debug("Buy rejected, curve already complete",
				zap.String("curve_id", t.CurveID))
			return
		}
		logger.Warn("Buy failed",
			zap.String("curve_id", t.CurveID),
			zap.Uint64("amount", t.Amount),
			zap.Error(err))
		return
	}

	if !t.SellBackHalf || res.AmountOut < 2 || res.CompletedThisTrade {
		return
	}

	if _, err := wp.book.Trade(ctx, t.CurveID, curve.TradeRequest{
		Direction: types.Sell,
		Amount:    res.AmountOut / 2,
	}); err != nil {
		if errors.Is(err, curve.ErrCurveComplete) {
			return
		}
		logger.Warn("Sell failed",
			zap.String("curve_id", t.CurveID),
			zap.Uint64("amount", res.AmountOut/2),
			zap.Error(err))
	}
}

// buyWithSlippage quotes the buy, bounds its output with the pool's
// slippage policy, and retries with a fresh quote whenever concurrent flow
// moved the price past the bound. A rejection means another trade
// committed in between, so with finite flow the loop terminates.
func (wp *WorkerPool) buyWithSlippage(ctx context.Context, t tradeTask, logger *zap.Logger) (curve.TradeResult, error) {
	for {
		if err := ctx.Err(); err != nil {
			return curve.TradeResult{}, err
		}

		var minOut uint64
		if quote, err := wp.book.Quote(t.CurveID, curve.TradeRequest{
			Direction: types.Buy,
			Amount:    t.Amount,
		}); err == nil {
			minOut = wp.slippage.MinAmountOut(quote.NetAmountOut)
		}

		res, err := wp.book.Trade(ctx, t.CurveID, curve.TradeRequest{
			Direction:    types.Buy,
			Amount:       t.Amount,
			MinAmountOut: minOut,
		})
		if errors.Is(err, curve.ErrSlippageExceeded) {
			logger.Debug("Buy rejected by slippage bound, requoting",
				zap.String("curve_id", t.CurveID))
			continue
		}
		return res, err
	}
}
