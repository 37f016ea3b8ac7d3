package stimulus

import (
	"fmt"
	"math"
)

// ExpansionMode selects the interpolation curve of a DiameterModel. The set
// is closed: ParseExpansionMode rejects anything else as a configuration
// error rather than falling back to a default.
type ExpansionMode int

const (
	// ExpansionConstantSpeed reproduces the foreshortening of a true
	// constant-velocity approach: slow growth at first, accelerating
	// toward the end.
	ExpansionConstantSpeed ExpansionMode = iota + 1
	// ExpansionConstantDiameter grows the diameter by a fixed increment
	// every frame (visually linear growth).
	ExpansionConstantDiameter
)

func (m ExpansionMode) String() string {
	switch m {
	case ExpansionConstantSpeed:
		return "constant_speed"
	case ExpansionConstantDiameter:
		return "constant_diameter"
	}
	return fmt.Sprintf("ExpansionMode(%d)", int(m))
}

// ParseExpansionMode maps a config string onto the closed mode set.
func ParseExpansionMode(s string) (ExpansionMode, error) {
	switch s {
	case "constant_speed":
		return ExpansionConstantSpeed, nil
	case "constant_diameter":
		return ExpansionConstantDiameter, nil
	}
	return 0, invalidParamf("unknown expansion mode %q (want constant_speed or constant_diameter)", s)
}

// DiameterParams describes an expansion directly in terms of the on-screen
// start and end diameters, without reference to a real object size.
type DiameterParams struct {
	StartDiameter float64 // cm, > 0
	EndDiameter   float64 // cm, > StartDiameter (expansion only)
	Duration      float64 // seconds
	FrameRate     float64 // Hz
	Mode          ExpansionMode
}

func (p DiameterParams) validate() error {
	switch {
	case p.StartDiameter <= 0:
		return invalidParamf("start diameter must be > 0, got %g cm", p.StartDiameter)
	case p.StartDiameter >= p.EndDiameter:
		return invalidParamf("start diameter %g cm must be smaller than end diameter %g cm", p.StartDiameter, p.EndDiameter)
	case p.Duration <= 0:
		return invalidParamf("duration must be > 0, got %g s", p.Duration)
	case p.FrameRate <= 0:
		return invalidParamf("frame rate must be > 0, got %g Hz", p.FrameRate)
	}
	switch p.Mode {
	case ExpansionConstantSpeed, ExpansionConstantDiameter:
	default:
		return invalidParamf("expansion mode not set or unknown (%d)", int(p.Mode))
	}
	return nil
}

// DiameterModel interpolates a diameter sequence from StartDiameter to
// EndDiameter over Duration. The span is cut into N = ceil(duration *
// frameRate) intervals and sampled at the N+1 boundaries, so the sequence
// starts exactly at StartDiameter (t = 0) and ends exactly at EndDiameter.
func DiameterModel(p DiameterParams) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	intervals := int(math.Ceil(p.Duration * p.FrameRate))
	if intervals <= 0 {
		return nil, ErrDegenerateTrajectory
	}
	if intervals+1 > MaxFrames {
		return nil, invalidParamf("trajectory of %d frames exceeds the %d frame limit", intervals+1, MaxFrames)
	}

	var curve func(k int) float64
	switch p.Mode {
	case ExpansionConstantDiameter:
		increment := (p.EndDiameter - p.StartDiameter) / float64(intervals)
		curve = func(k int) float64 {
			return p.StartDiameter + float64(k)*increment
		}
	case ExpansionConstantSpeed:
		curve = reciprocalCurve(p.StartDiameter, p.EndDiameter, p.Duration, intervals)
	}

	frames := make([]Frame, intervals+1)
	for k := 0; k <= intervals; k++ {
		frames[k] = Frame{
			Index:    k + 1,
			Time:     float64(k) / p.FrameRate,
			Diameter: curve(k),
		}
	}
	// Pin the boundary exactly; the reciprocal curve hits it analytically
	// but float evaluation can leave dust in the last bits.
	frames[intervals].Diameter = p.EndDiameter

	echo := p
	return &Result{
		Kind:      KindDiameter,
		FrameRate: p.FrameRate,
		Frames:    frames,
		Diameter:  &echo,
	}, nil
}

// reciprocalCurve fits d(t) = K / (tc - t) through d(0) = start and
// d(T) = end. This is the projection of a constant closing speed: for any
// nominal object/screen scaling S, the implied distance S/d(t) = (S/K)(tc-t)
// shrinks linearly in t. Solving the two boundary conditions gives
//
//	tc = T * end / (end - start),   K = start * tc.
//
// Since end > start > 0, tc > T and the denominator stays positive across
// the whole span. Sampling uses the frame fraction k/N so both boundaries
// hold exactly regardless of how the frame count rounded.
func reciprocalCurve(start, end, duration float64, intervals int) func(k int) float64 {
	tc := duration * end / (end - start)
	k0 := start * tc
	return func(k int) float64 {
		t := duration * float64(k) / float64(intervals)
		return k0 / (tc - t)
	}
}
