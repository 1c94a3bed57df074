// internal/curve/errors.go
package curve

import (
	"errors"

	"github.com/launchforge/curve-engine/internal/fixedpoint"
)

// Error taxonomy for the pricing and ledger engine. Every error is raised
// before any snapshot field is mutated; callers never observe partial state.
var (
	// ErrInvalidAmount signals a zero or otherwise nonsensical input amount.
	ErrInvalidAmount = errors.New("invalid trade amount")

	// ErrDegenerateCurve signals zero virtual reserves or zero max supply.
	// Invariants keep this from happening on a live curve, but it is checked
	// on every call.
	ErrDegenerateCurve = errors.New("degenerate curve state")

	// ErrInsufficientReserves signals a computed output of zero or one that
	// would exhaust the output-side reserve.
	ErrInsufficientReserves = errors.New("insufficient reserves")

	// ErrSupplyExceeded signals a polynomial trade that would leave
	// [0, maxSupply].
	ErrSupplyExceeded = errors.New("supply bound exceeded")

	// ErrCurveComplete signals a trade attempted after graduation.
	ErrCurveComplete = errors.New("bonding curve is complete")

	// ErrSlippageExceeded signals a result violating the caller's
	// min-out / max-in bound.
	ErrSlippageExceeded = errors.New("slippage bound exceeded")

	// ErrInvariantViolated signals that a successful apply would have
	// decreased the constant product. It indicates an engine bug, never a
	// bad input.
	ErrInvariantViolated = errors.New("constant product invariant violated")

	// ErrInvalidConfig signals invalid launch parameters at curve creation.
	ErrInvalidConfig = errors.New("invalid curve configuration")

	// Checked-arithmetic failures surface unchanged from fixedpoint.
	ErrOverflow       = fixedpoint.ErrOverflow
	ErrUnderflow      = fixedpoint.ErrUnderflow
	ErrDivisionByZero = fixedpoint.ErrDivisionByZero
)
