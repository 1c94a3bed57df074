// internal/curve/snapshot.go
package curve

import (
	"github.com/launchforge/curve-engine/internal/types"
)

// Snapshot is the full state of one bonding curve at a point in time. It is
// passed and returned by value: the engine never mutates a caller's copy,
// and a failed call leaves the caller's snapshot as the canonical state.
type Snapshot struct {
	// Virtual reserves drive the constant-product pricing math. They are
	// never directly withdrawable.
	VirtualBaseReserves  uint64
	VirtualQuoteReserves uint64

	// Real reserves are the custodied amounts. RealQuoteReserves is the
	// quantity measured against GraduationThreshold.
	RealBaseReserves  uint64
	RealQuoteReserves uint64

	// TotalSupply is fixed at launch and immutable thereafter.
	TotalSupply uint64

	// CurrentSupply tracks accumulated supply for the polynomial strategy.
	// Unused by the constant-product strategy.
	CurrentSupply uint64

	// BasePrice and MaxSupply parameterize the polynomial price curve
	// basePrice * (1 + supply/maxSupply)^2. Unused by constant product.
	BasePrice uint64
	MaxSupply uint64

	// GraduationThreshold is the real-quote level that completes the curve.
	GraduationThreshold uint64

	// FeeBasisPoints is the trade fee in units of 1/10000, applied to the
	// gross output of both directions.
	FeeBasisPoints uint16

	Strategy types.Strategy

	// IsComplete transitions false->true exactly once and never reverts.
	IsComplete bool
}

// LaunchParams holds the creation-time configuration for a curve.
type LaunchParams struct {
	VirtualBaseReserves  uint64
	VirtualQuoteReserves uint64
	RealBaseReserves     uint64
	RealQuoteReserves    uint64
	TotalSupply          uint64
	BasePrice            uint64
	MaxSupply            uint64
	GraduationThreshold  uint64
	FeeBasisPoints       uint16
	Strategy             types.Strategy
}

// NewSnapshot validates launch parameters and builds the initial snapshot.
func NewSnapshot(p LaunchParams) (Snapshot, error) {
	if p.FeeBasisPoints > BasisPointsDivisor {
		return Snapshot{}, ErrInvalidConfig
	}
	if p.GraduationThreshold == 0 {
		return Snapshot{}, ErrInvalidConfig
	}
	switch p.Strategy {
	case types.ConstantProduct:
		if p.VirtualBaseReserves == 0 || p.VirtualQuoteReserves == 0 {
			return Snapshot{}, ErrInvalidConfig
		}
	case types.Polynomial:
		if p.BasePrice == 0 || p.MaxSupply == 0 {
			return Snapshot{}, ErrInvalidConfig
		}
	default:
		return Snapshot{}, ErrInvalidConfig
	}

	return Snapshot{
		VirtualBaseReserves:  p.VirtualBaseReserves,
		VirtualQuoteReserves: p.VirtualQuoteReserves,
		RealBaseReserves:     p.RealBaseReserves,
		RealQuoteReserves:    p.RealQuoteReserves,
		TotalSupply:          p.TotalSupply,
		BasePrice:            p.BasePrice,
		MaxSupply:            p.MaxSupply,
		GraduationThreshold:  p.GraduationThreshold,
		FeeBasisPoints:       p.FeeBasisPoints,
		Strategy:             p.Strategy,
	}, nil
}

// validateForTrade rejects snapshots no trade may price against. Invariants
// keep live curves out of these states, but every call re-checks.
func (s Snapshot) validateForTrade() error {
	switch s.Strategy {
	case types.ConstantProduct:
		if s.VirtualBaseReserves == 0 || s.VirtualQuoteReserves == 0 {
			return ErrDegenerateCurve
		}
	case types.Polynomial:
		if s.BasePrice == 0 || s.MaxSupply == 0 {
			return ErrDegenerateCurve
		}
	default:
		return ErrDegenerateCurve
	}
	return nil
}
