// internal/curve/engine.go
package curve

import (
	"github.com/launchforge/curve-engine/internal/types"
)

// TradeRequest is the caller's trade intent against one curve.
type TradeRequest struct {
	Direction types.Direction
	// Amount is the quote spent on a constant-product buy, the base
	// returned on a sell, and the base amount traded for the polynomial
	// strategy in both directions.
	Amount uint64
	// MinAmountOut, when nonzero, bounds the net output from below.
	MinAmountOut uint64
	// MaxAmountIn, when nonzero, bounds the derived input from above
	// (meaningful for polynomial buys, where the input is computed).
	MaxAmountIn uint64
}

// TradeQuote is the priced form of a request. It lives only for one
// quote->apply cycle and is never persisted.
type TradeQuote struct {
	Direction      types.Direction
	AmountIn       uint64
	GrossAmountOut uint64
	FeeAmount      uint64
	NetAmountOut   uint64
}

// TradeResult is returned to the caller on success. The caller settles the
// asset movement and persists NewSnapshot; the engine does neither.
type TradeResult struct {
	AmountIn           uint64
	AmountOut          uint64
	FeeAmount          uint64
	NewSnapshot        Snapshot
	CompletedThisTrade bool
}

// Engine prices and settles trades against a single curve snapshot per
// call. It is a pure computation: no locks, no I/O, no internal state. The
// host must serialize applies per curve; distinct curves need no
// coordination.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Quote prices a trade without applying it.
func (e *Engine) Quote(s Snapshot, req TradeRequest) (TradeQuote, error) {
	if err := guardActive(s); err != nil {
		return TradeQuote{}, err
	}
	if req.Amount == 0 {
		return TradeQuote{}, ErrInvalidAmount
	}
	if err := s.validateForTrade(); err != nil {
		return TradeQuote{}, err
	}

	switch s.Strategy {
	case types.ConstantProduct:
		return quoteConstantProduct(s, req)
	case types.Polynomial:
		return quotePolynomial(s, req)
	default:
		return TradeQuote{}, ErrDegenerateCurve
	}
}

// Trade runs the full quote -> apply -> completion-gate chain and returns
// the result with the committed snapshot. On any error the caller's
// snapshot remains canonical; nothing was mutated.
func (e *Engine) Trade(s Snapshot, req TradeRequest) (TradeResult, error) {
	q, err := e.Quote(s, req)
	if err != nil {
		return TradeResult{}, err
	}

	if req.MinAmountOut > 0 && q.NetAmountOut < req.MinAmountOut {
		return TradeResult{}, ErrSlippageExceeded
	}
	if req.MaxAmountIn > 0 && q.AmountIn > req.MaxAmountIn {
		return TradeResult{}, ErrSlippageExceeded
	}

	next, err := applyQuote(s, q)
	if err != nil {
		return TradeResult{}, err
	}

	next, completed := evaluateCompletion(next)

	return TradeResult{
		AmountIn:           q.AmountIn,
		AmountOut:          q.NetAmountOut,
		FeeAmount:          q.FeeAmount,
		NewSnapshot:        next,
		CompletedThisTrade: completed,
	}, nil
}

// MaxAffordableAmount returns the largest polynomial buy amount whose cost
// fits the budget. Only meaningful for the polynomial strategy.
func (e *Engine) MaxAffordableAmount(s Snapshot, budget uint64) (uint64, error) {
	if err := guardActive(s); err != nil {
		return 0, err
	}
	if s.Strategy != types.Polynomial {
		return 0, ErrDegenerateCurve
	}
	return polynomialMaxAffordable(s.CurrentSupply, s.BasePrice, s.MaxSupply, budget)
}
