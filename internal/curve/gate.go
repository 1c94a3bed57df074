// internal/curve/gate.go
package curve

// The completion gate is a two-state machine: Active (initial) and Complete
// (terminal). The transition fires at most once, is evaluated only after a
// successful ledger apply, and never reverts.

// guardActive rejects any engine entry for a completed curve before any
// arithmetic runs.
func guardActive(s Snapshot) error {
	if s.IsComplete {
		return ErrCurveComplete
	}
	return nil
}

// evaluateCompletion inspects a post-apply snapshot and flips IsComplete
// when the real quote reserves have reached the graduation threshold.
// Returns the finalized snapshot and whether this call made the transition.
func evaluateCompletion(s Snapshot) (Snapshot, bool) {
	if s.IsComplete {
		return s, false
	}
	if s.RealQuoteReserves >= s.GraduationThreshold {
		s.IsComplete = true
		return s, true
	}
	return s, false
}
