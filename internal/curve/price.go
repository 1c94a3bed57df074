// internal/curve/price.go
package curve

import (
	"github.com/launchforge/curve-engine/internal/fixedpoint"
	"github.com/launchforge/curve-engine/internal/types"
)

// PriceScale is the fixed-point scale of SpotPrice: quote units per
// PriceScale base units.
const PriceScale = 1_000_000_000

// SpotPrice returns the instantaneous price of the base asset in quote
// units, scaled by PriceScale. For constant product this is the reserve
// ratio; for polynomial it is priced off the supply curve (already in quote
// units per token, scaled for symmetry with the reserve ratio form).
func (s Snapshot) SpotPrice() (uint64, error) {
	switch s.Strategy {
	case types.ConstantProduct:
		if s.VirtualBaseReserves == 0 {
			return 0, ErrDegenerateCurve
		}
		return fixedpoint.MulDiv(s.VirtualQuoteReserves, PriceScale, s.VirtualBaseReserves)
	case types.Polynomial:
		return polynomialSpotPrice(s.CurrentSupply, s.BasePrice, s.MaxSupply, PriceScale)
	default:
		return 0, ErrDegenerateCurve
	}
}
