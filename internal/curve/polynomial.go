// internal/curve/polynomial.go
package curve

import (
	"github.com/holiman/uint256"

	"github.com/launchforge/curve-engine/internal/fixedpoint"
	"github.com/launchforge/curve-engine/internal/types"
)

// Polynomial pricing: the spot price at supply s is
//
//	price(s) = basePrice * (1 + s/maxSupply)^2
//
// and the cost of trading an amount is the definite integral of price over
// the traded supply range. Expanding the integral binomially,
//
//	integral(s) = basePrice*s + basePrice*s^2/maxSupply + basePrice*s^3/(3*maxSupply^2)
//
// which is exact for this cubic; each term is evaluated in 256-bit space so
// the only loss is the final truncating division per term.

// curveIntegral evaluates integral(s) in wide space. The result stays wide
// so a difference of integrals narrows only once.
func curveIntegral(supply, basePrice, maxSupply uint64) (*uint256.Int, error) {
	if maxSupply == 0 {
		return nil, ErrDegenerateCurve
	}
	if supply == 0 {
		return uint256.NewInt(0), nil
	}

	p := fixedpoint.Wide(basePrice)
	s := fixedpoint.Wide(supply)
	m := fixedpoint.Wide(maxSupply)

	// basePrice * s
	linear := new(uint256.Int).Mul(p, s)

	// basePrice * s^2 / maxSupply
	s2 := new(uint256.Int).Mul(s, s)
	quadratic := new(uint256.Int).Mul(p, s2)
	quadratic.Div(quadratic, m)

	// basePrice * s^3 / (3 * maxSupply^2)
	s3 := new(uint256.Int).Mul(s2, s)
	cubic := new(uint256.Int).Mul(p, s3)
	m2 := new(uint256.Int).Mul(m, m)
	cubic.Div(cubic, new(uint256.Int).Mul(m2, uint256.NewInt(3)))

	total := new(uint256.Int).Add(linear, quadratic)
	total.Add(total, cubic)
	return total, nil
}

// polynomialBuyCost returns the quote cost of buying amount base tokens at
// currentSupply. Fails with ErrSupplyExceeded when the resulting supply
// would pass maxSupply.
func polynomialBuyCost(currentSupply, amount, basePrice, maxSupply uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	if maxSupply == 0 {
		return 0, ErrDegenerateCurve
	}
	if currentSupply > maxSupply {
		return 0, ErrSupplyExceeded
	}

	newSupply, err := fixedpoint.Add(currentSupply, amount)
	if err != nil {
		return 0, err
	}
	if newSupply > maxSupply {
		return 0, ErrSupplyExceeded
	}

	end, err := curveIntegral(newSupply, basePrice, maxSupply)
	if err != nil {
		return 0, err
	}
	start, err := curveIntegral(currentSupply, basePrice, maxSupply)
	if err != nil {
		return 0, err
	}
	return fixedpoint.Narrow(end.Sub(end, start))
}

// polynomialSellRefund returns the quote refund for returning amount base
// tokens at currentSupply.
func polynomialSellRefund(currentSupply, amount, basePrice, maxSupply uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	if maxSupply == 0 {
		return 0, ErrDegenerateCurve
	}
	if amount > currentSupply {
		return 0, ErrSupplyExceeded
	}

	newSupply := currentSupply - amount
	end, err := curveIntegral(currentSupply, basePrice, maxSupply)
	if err != nil {
		return 0, err
	}
	start, err := curveIntegral(newSupply, basePrice, maxSupply)
	if err != nil {
		return 0, err
	}
	return fixedpoint.Narrow(end.Sub(end, start))
}

// polynomialSpotPrice returns basePrice * (1 + supply/maxSupply)^2 scaled
// by scale, evaluated as basePrice * (maxSupply+supply)^2 * scale /
// maxSupply^2 entirely in wide space so the scaling costs no precision.
func polynomialSpotPrice(supply, basePrice, maxSupply, scale uint64) (uint64, error) {
	if maxSupply == 0 {
		return 0, ErrDegenerateCurve
	}
	if supply > maxSupply {
		return 0, ErrSupplyExceeded
	}

	shifted, err := fixedpoint.Add(maxSupply, supply)
	if err != nil {
		return 0, err
	}
	n := fixedpoint.Wide(shifted)
	n.Mul(n, fixedpoint.Wide(shifted))
	n.Mul(n, fixedpoint.Wide(basePrice))
	n.Mul(n, fixedpoint.Wide(scale))
	m2 := new(uint256.Int).Mul(fixedpoint.Wide(maxSupply), fixedpoint.Wide(maxSupply))
	return fixedpoint.Narrow(n.Div(n, m2))
}

// polynomialMaxAffordable finds the largest buy amount whose cost does not
// exceed budget. The buy integral is monotone in amount, so a binary search
// over [0, maxSupply-currentSupply] is exact and terminates in
// O(log maxSupply) steps.
func polynomialMaxAffordable(currentSupply, basePrice, maxSupply, budget uint64) (uint64, error) {
	if maxSupply == 0 {
		return 0, ErrDegenerateCurve
	}
	if currentSupply > maxSupply {
		return 0, ErrSupplyExceeded
	}

	lo := uint64(1)
	hi := maxSupply - currentSupply
	var best uint64

	for lo <= hi {
		mid := lo + (hi-lo)/2
		cost, err := polynomialBuyCost(currentSupply, mid, basePrice, maxSupply)
		if err == nil && cost <= budget {
			best = mid
			lo = mid + 1
		} else {
			// Too expensive, or the cost overflowed entirely.
			hi = mid - 1
		}
	}
	return best, nil
}

// quotePolynomial prices a trade request against the supply curve. A buy
// receives base tokens and pays the integral cost in quote; a sell returns
// base tokens for the integral refund. The fee comes off the gross output
// of either direction: tokens on a buy, quote on a sell.
func quotePolynomial(s Snapshot, req TradeRequest) (TradeQuote, error) {
	switch req.Direction {
	case types.Buy:
		cost, err := polynomialBuyCost(s.CurrentSupply, req.Amount, s.BasePrice, s.MaxSupply)
		if err != nil {
			return TradeQuote{}, err
		}
		feeAmount, err := Fee(req.Amount, s.FeeBasisPoints)
		if err != nil {
			return TradeQuote{}, err
		}
		netOut, err := fixedpoint.Sub(req.Amount, feeAmount)
		if err != nil {
			return TradeQuote{}, err
		}
		return TradeQuote{
			Direction:      types.Buy,
			AmountIn:       cost,
			GrossAmountOut: req.Amount,
			FeeAmount:      feeAmount,
			NetAmountOut:   netOut,
		}, nil

	case types.Sell:
		refund, err := polynomialSellRefund(s.CurrentSupply, req.Amount, s.BasePrice, s.MaxSupply)
		if err != nil {
			return TradeQuote{}, err
		}
		feeAmount, err := Fee(refund, s.FeeBasisPoints)
		if err != nil {
			return TradeQuote{}, err
		}
		netOut, err := fixedpoint.Sub(refund, feeAmount)
		if err != nil {
			return TradeQuote{}, err
		}
		return TradeQuote{
			Direction:      types.Sell,
			AmountIn:       req.Amount,
			GrossAmountOut: refund,
			FeeAmount:      feeAmount,
			NetAmountOut:   netOut,
		}, nil

	default:
		return TradeQuote{}, ErrInvalidAmount
	}
}
