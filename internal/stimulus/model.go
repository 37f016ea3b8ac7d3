// Package stimulus builds the per-frame diameter sequences behind a looming
// stimulus: a circle that expands on screen to simulate an object approaching
// the viewer. All inputs and outputs are in real-world units (cm, seconds, Hz);
// translating centimetres to pixels is the renderer's job.
//
// Both model builders are pure functions over scalar parameters. They hold no
// package state and are safe to call from concurrent goroutines.
package stimulus

import (
	"errors"
	"fmt"
)

// TerminalDiameter is the sentinel diameter (cm) forced onto the final frame
// of a constant-speed trajectory. The per-frame distance decrement is rounded
// to 3 decimals, so the terminal distance can land slightly above, below, or
// exactly on zero; the 1/distance projection would then produce a huge,
// negative, or infinite diameter. The sentinel replaces whatever the formula
// computes. Downstream consumers depend on this exact value.
const TerminalDiameter = 1000.0

// MaxFrames bounds the materialized sequence length. Inputs that would
// produce more frames are rejected rather than allocated.
const MaxFrames = 1_000_000

var (
	// ErrInvalidParameter reports a non-positive or order-violating input.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDegenerateTrajectory reports a trajectory with no frames to clamp.
	ErrDegenerateTrajectory = errors.New("degenerate trajectory")
)

// ModelKind discriminates which builder produced a Result.
type ModelKind int

const (
	KindConstantSpeed ModelKind = iota + 1
	KindDiameter
)

func (k ModelKind) String() string {
	switch k {
	case KindConstantSpeed:
		return "constant_speed"
	case KindDiameter:
		return "diameter"
	}
	return "unknown"
}

// HasDistance reports whether frames of this kind carry a meaningful
// approach distance.
func (k ModelKind) HasDistance() bool { return k == KindConstantSpeed }

// Frame is one animation frame of the stimulus.
type Frame struct {
	Index    int     // 1-based, strictly increasing
	Time     float64 // seconds since stimulus onset (= offset / frame rate)
	Distance float64 // remaining approach distance, cm; 0 for diameter models
	Diameter float64 // on-screen circle diameter, cm
}

// Result is the materialized output of a model builder: the full frame
// sequence plus the inputs that produced it. It is never mutated after
// construction; exactly one of ConstantSpeed/Diameter is non-nil, matching
// Kind.
type Result struct {
	Kind      ModelKind
	FrameRate float64 // Hz
	Frames    []Frame

	ConstantSpeed *ConstantSpeedParams
	Diameter      *DiameterParams
}

// Duration returns the time of the last frame, in seconds.
func (r *Result) Duration() float64 {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].Time
}

// Diameters returns the diameter column in frame order. This plus FrameRate
// is the whole contract a renderer needs.
func (r *Result) Diameters() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Diameter
	}
	return out
}

func invalidParamf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
