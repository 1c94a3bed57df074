// internal/curve/constant_product.go
package curve

import (
	"github.com/launchforge/curve-engine/internal/fixedpoint"
	"github.com/launchforge/curve-engine/internal/types"
)

// Constant-product pricing: virtualBase * virtualQuote = k. A buy adds the
// quote input to one side and removes base output from the other so that
// the product never decreases; a sell mirrors it.
//
// The output is computed as
//
//	grossOut = floor(reserveOut * amountIn / (reserveIn + amountIn))
//
// which is the truncating form of reserveOut - k/(reserveIn+amountIn).
// Truncation rounds in the curve's favor: the post-trade product is >= k,
// with equality when the division is exact.
func constantProductOut(reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrInvalidAmount
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrDegenerateCurve
	}

	newReserveIn, err := fixedpoint.Add(reserveIn, amountIn)
	if err != nil {
		return 0, err
	}

	grossOut, err := fixedpoint.MulDiv(reserveOut, amountIn, newReserveIn)
	if err != nil {
		return 0, err
	}

	if grossOut == 0 || grossOut >= reserveOut {
		return 0, ErrInsufficientReserves
	}
	return grossOut, nil
}

// quoteConstantProduct prices a trade request against the virtual reserves.
// The fee is taken from the gross output of either direction.
func quoteConstantProduct(s Snapshot, req TradeRequest) (TradeQuote, error) {
	var grossOut uint64
	var err error

	switch req.Direction {
	case types.Buy:
		grossOut, err = constantProductOut(s.VirtualQuoteReserves, s.VirtualBaseReserves, req.Amount)
	case types.Sell:
		grossOut, err = constantProductOut(s.VirtualBaseReserves, s.VirtualQuoteReserves, req.Amount)
	default:
		return TradeQuote{}, ErrInvalidAmount
	}
	if err != nil {
		return TradeQuote{}, err
	}

	feeAmount, err := Fee(grossOut, s.FeeBasisPoints)
	if err != nil {
		return TradeQuote{}, err
	}
	netOut, err := fixedpoint.Sub(grossOut, feeAmount)
	if err != nil {
		return TradeQuote{}, err
	}

	return TradeQuote{
		Direction:      req.Direction,
		AmountIn:       req.Amount,
		GrossAmountOut: grossOut,
		FeeAmount:      feeAmount,
		NetAmountOut:   netOut,
	}, nil
}
