// internal/fixedpoint/fixedpoint.go
package fixedpoint

import (
	"errors"

	"github.com/holiman/uint256"
)

// All reserve math in the engine goes through this package. Every operation
// is checked: a result that does not fit uint64 surfaces as an error instead
// of wrapping. Intermediate products are computed in 256-bit space before
// being narrowed back.
var (
	ErrOverflow       = errors.New("arithmetic overflow")
	ErrUnderflow      = errors.New("arithmetic underflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b or ErrUnderflow.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	z := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	if !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}

// Div returns a/b (truncating) or ErrDivisionByZero.
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

// MulDiv returns floor(a*b/d) with the product held in 256-bit space, so the
// intermediate never overflows. The narrowed result must fit uint64.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	z := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	z.Div(z, uint256.NewInt(d))
	if !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}

// Wide lifts a uint64 into 256-bit space for multi-term accumulation.
func Wide(a uint64) *uint256.Int {
	return uint256.NewInt(a)
}

// Narrow converts a 256-bit value back to uint64, or ErrOverflow if it does
// not fit.
func Narrow(z *uint256.Int) (uint64, error) {
	if !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}
