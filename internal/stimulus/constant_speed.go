package stimulus

import "math"

// ConstantSpeedParams describes a physically constant-velocity approach of a
// round object toward the viewer, projected onto the display plane.
type ConstantSpeedParams struct {
	ScreenDistance   float64 // viewer-to-screen distance, cm
	FrameRate        float64 // Hz
	Speed            float64 // approach speed, cm/s
	AttackerDiameter float64 // real diameter of the approaching object, cm
	StartDistance    float64 // initial object-to-viewer distance, cm
}

func (p ConstantSpeedParams) validate() error {
	switch {
	case p.ScreenDistance <= 0:
		return invalidParamf("screen distance must be > 0, got %g cm", p.ScreenDistance)
	case p.FrameRate <= 0:
		return invalidParamf("frame rate must be > 0, got %g Hz", p.FrameRate)
	case p.Speed <= 0:
		return invalidParamf("speed must be > 0, got %g cm/s", p.Speed)
	case p.AttackerDiameter <= 0:
		return invalidParamf("attacker diameter must be > 0, got %g cm", p.AttackerDiameter)
	case p.StartDistance <= 0:
		return invalidParamf("start distance must be > 0, got %g cm", p.StartDistance)
	}
	return nil
}

// ConstantSpeedModel builds the frame sequence for a constant-velocity
// approach. The on-screen diameter follows pinhole projection,
//
//	diameter = attacker * screenDistance / distance,
//
// so it grows slowly at first and explodes as the distance nears zero.
//
// The frame count is the ceiling of traversalTime * frameRate: rounding up
// guarantees the sequence reaches (or overshoots) zero distance instead of
// truncating the final approach frame. The per-frame distance decrement is
// rounded to 3 decimals so fractional speeds do not accumulate float drift
// over hundreds of frames; the cost is that the terminal distance may land
// slightly off zero, which is why the last frame is clamped (see
// applyTerminalClamp).
func ConstantSpeedModel(p ConstantSpeedParams) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	totalTime := p.StartDistance / p.Speed
	frameCount := int(math.Ceil(totalTime * p.FrameRate))
	if frameCount <= 0 {
		return nil, ErrDegenerateTrajectory
	}
	if frameCount > MaxFrames {
		return nil, invalidParamf("trajectory of %d frames exceeds the %d frame limit", frameCount, MaxFrames)
	}

	decrement := round3(p.Speed / p.FrameRate)

	frames := make([]Frame, frameCount)
	for i := 1; i <= frameCount; i++ {
		distance := p.StartDistance - float64(i)*decrement
		frames[i-1] = Frame{
			Index:    i,
			Time:     float64(i) / p.FrameRate,
			Distance: distance,
			Diameter: (p.AttackerDiameter * p.ScreenDistance) / distance,
		}
	}
	if err := applyTerminalClamp(frames); err != nil {
		return nil, err
	}

	echo := p
	return &Result{
		Kind:          KindConstantSpeed,
		FrameRate:     p.FrameRate,
		Frames:        frames,
		ConstantSpeed: &echo,
	}, nil
}

// round3 rounds to 3 decimal places, half away from zero.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
