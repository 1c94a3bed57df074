// internal/curve/ledger.go
package curve

import (
	"github.com/holiman/uint256"

	"github.com/launchforge/curve-engine/internal/fixedpoint"
	"github.com/launchforge/curve-engine/internal/types"
)

// The ledger turns a priced trade into the next snapshot. It re-derives the
// trade's deltas from the same pricing formula instead of trusting the
// numbers carried in the quote, so a quote produced against a different
// snapshot can never drift the reserves. The snapshot is built on a local
// copy; any failure returns the zero Snapshot and the caller's state is
// untouched.
func applyQuote(s Snapshot, q TradeQuote) (Snapshot, error) {
	switch s.Strategy {
	case types.ConstantProduct:
		return applyConstantProduct(s, q)
	case types.Polynomial:
		return applyPolynomial(s, q)
	default:
		return Snapshot{}, ErrDegenerateCurve
	}
}

func applyConstantProduct(s Snapshot, q TradeQuote) (Snapshot, error) {
	fresh, err := quoteConstantProduct(s, TradeRequest{Direction: q.Direction, Amount: q.AmountIn})
	if err != nil {
		return Snapshot{}, err
	}

	next := s
	switch q.Direction {
	case types.Buy:
		// Quote flows in; gross base leaves the virtual side, net base
		// leaves custody (the fee stays custodied).
		if next.VirtualQuoteReserves, err = fixedpoint.Add(s.VirtualQuoteReserves, fresh.AmountIn); err != nil {
			return Snapshot{}, err
		}
		if next.VirtualBaseReserves, err = fixedpoint.Sub(s.VirtualBaseReserves, fresh.GrossAmountOut); err != nil {
			return Snapshot{}, err
		}
		if next.RealQuoteReserves, err = fixedpoint.Add(s.RealQuoteReserves, fresh.AmountIn); err != nil {
			return Snapshot{}, err
		}
		if next.RealBaseReserves, err = fixedpoint.Sub(s.RealBaseReserves, fresh.NetAmountOut); err != nil {
			return Snapshot{}, err
		}
	case types.Sell:
		if next.VirtualBaseReserves, err = fixedpoint.Add(s.VirtualBaseReserves, fresh.AmountIn); err != nil {
			return Snapshot{}, err
		}
		if next.VirtualQuoteReserves, err = fixedpoint.Sub(s.VirtualQuoteReserves, fresh.GrossAmountOut); err != nil {
			return Snapshot{}, err
		}
		if next.RealBaseReserves, err = fixedpoint.Add(s.RealBaseReserves, fresh.AmountIn); err != nil {
			return Snapshot{}, err
		}
		if next.RealQuoteReserves, err = fixedpoint.Sub(s.RealQuoteReserves, fresh.NetAmountOut); err != nil {
			return Snapshot{}, err
		}
	default:
		return Snapshot{}, ErrInvalidAmount
	}

	if err := validateProductInvariant(s, next); err != nil {
		return Snapshot{}, err
	}
	return next, nil
}

func applyPolynomial(s Snapshot, q TradeQuote) (Snapshot, error) {
	next := s

	switch q.Direction {
	case types.Buy:
		fresh, err := quotePolynomial(s, TradeRequest{Direction: types.Buy, Amount: q.GrossAmountOut})
		if err != nil {
			return Snapshot{}, err
		}
		if next.CurrentSupply, err = fixedpoint.Add(s.CurrentSupply, fresh.GrossAmountOut); err != nil {
			return Snapshot{}, err
		}
		if next.RealQuoteReserves, err = fixedpoint.Add(s.RealQuoteReserves, fresh.AmountIn); err != nil {
			return Snapshot{}, err
		}
		// The token-side fee stays custodied by the curve.
		if next.RealBaseReserves, err = fixedpoint.Add(s.RealBaseReserves, fresh.FeeAmount); err != nil {
			return Snapshot{}, err
		}
	case types.Sell:
		fresh, err := quotePolynomial(s, TradeRequest{Direction: types.Sell, Amount: q.AmountIn})
		if err != nil {
			return Snapshot{}, err
		}
		if next.CurrentSupply, err = fixedpoint.Sub(s.CurrentSupply, fresh.AmountIn); err != nil {
			return Snapshot{}, err
		}
		if next.RealQuoteReserves, err = fixedpoint.Sub(s.RealQuoteReserves, fresh.NetAmountOut); err != nil {
			return Snapshot{}, err
		}
	default:
		return Snapshot{}, ErrInvalidAmount
	}

	return next, nil
}

// validateProductInvariant confirms the constant product did not decrease
// across the apply. With a retained fee it strictly grows; at zero fee the
// truncating output formula keeps it at least equal.
func validateProductInvariant(prev, next Snapshot) error {
	oldK := new(uint256.Int).Mul(
		fixedpoint.Wide(prev.VirtualBaseReserves),
		fixedpoint.Wide(prev.VirtualQuoteReserves),
	)
	newK := new(uint256.Int).Mul(
		fixedpoint.Wide(next.VirtualBaseReserves),
		fixedpoint.Wide(next.VirtualQuoteReserves),
	)
	if newK.Lt(oldK) {
		return ErrInvariantViolated
	}
	return nil
}
