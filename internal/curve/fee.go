// internal/curve/fee.go
package curve

import (
	"github.com/launchforge/curve-engine/internal/fixedpoint"
)

// BasisPointsDivisor is the denominator of basis-point fee rates.
const BasisPointsDivisor = 10_000

// Fee returns floor(amount * feeBasisPoints / 10000). The product is held
// in double width before the division, so the computation never overflows
// for any uint64 amount. Zero basis points is a valid no-fee configuration.
func Fee(amount uint64, feeBasisPoints uint16) (uint64, error) {
	return fixedpoint.MulDiv(amount, uint64(feeBasisPoints), BasisPointsDivisor)
}
