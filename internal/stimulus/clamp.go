package stimulus

// applyTerminalClamp overwrites the final frame's diameter with the
// TerminalDiameter sentinel. The constant-speed trajectory rounds its
// per-frame distance decrement to 3 decimals, so the final distance may sit
// a hair off zero on either side; rather than let the 1/distance projection
// emit an absurd or non-finite value, the last frame is pinned to a known
// sentinel. The clamp is unconditional: it applies even when the computed
// final diameter happens to be sane.
//
// It never substitutes for input validation — builders reject bad parameters
// before any frame exists.
func applyTerminalClamp(frames []Frame) error {
	if len(frames) == 0 {
		return ErrDegenerateTrajectory
	}
	frames[len(frames)-1].Diameter = TerminalDiameter
	return nil
}
