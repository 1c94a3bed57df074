// internal/types/slippage.go
package types

import "github.com/launchforge/curve-engine/internal/fixedpoint"

// SlippageType selects how the minimum acceptable output is derived.
type SlippageType string

const (
	// SlippageFixed uses an exact minAmountOut value.
	SlippageFixed SlippageType = "fixed"
	// SlippageBps derives minAmountOut as a basis-point haircut off the
	// expected output.
	SlippageBps SlippageType = "bps"
	// SlippageNone disables the minAmountOut bound.
	SlippageNone SlippageType = "none"
)

// SlippageConfig configures the slippage policy for a trade.
type SlippageConfig struct {
	Type SlippageType `json:"type"`
	// Value holds the policy parameter:
	// - SlippageFixed: the exact minAmountOut
	// - SlippageBps: tolerated slippage in basis points (100 = 1%)
	// - SlippageNone: ignored
	Value uint64 `json:"value"`
}

// MinAmountOut computes the minimum acceptable output for an expected
// output under the configured policy. The haircut truncates toward zero,
// so the bound is never stricter than requested.
func (c SlippageConfig) MinAmountOut(expected uint64) uint64 {
	switch c.Type {
	case SlippageFixed:
		return c.Value
	case SlippageBps:
		if c.Value >= 10_000 {
			return 0
		}
		min, err := fixedpoint.MulDiv(expected, 10_000-c.Value, 10_000)
		if err != nil {
			return 0
		}
		return min
	case SlippageNone:
		return 0
	default:
		return 0
	}
}

// SlippageBetween measures realized slippage in basis points between an
// expected and an actual value. Symmetric in direction: both an over- and
// an under-fill report a positive deviation.
func SlippageBetween(expected, actual uint64) (uint64, error) {
	if expected == 0 {
		return 0, fixedpoint.ErrDivisionByZero
	}
	var diff uint64
	if actual > expected {
		diff = actual - expected
	} else {
		diff = expected - actual
	}
	return fixedpoint.MulDiv(diff, 10_000, expected)
}
