package render

import "fmt"

// Position anchors the stimulus circle on the display. The set is closed;
// ParsePosition rejects anything else.
type Position int

const (
	PositionCenter Position = iota + 1
	PositionTopLeft
	PositionTopRight
	PositionBottomLeft
	PositionBottomRight
)

var positionNames = map[string]Position{
	"center":       PositionCenter,
	"top_left":     PositionTopLeft,
	"top_right":    PositionTopRight,
	"bottom_left":  PositionBottomLeft,
	"bottom_right": PositionBottomRight,
}

func (p Position) String() string {
	for name, v := range positionNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// ParsePosition maps a config string onto the closed position set.
func ParsePosition(s string) (Position, error) {
	if p, ok := positionNames[s]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("unknown stimulus position %q (want center, top_left, top_right, bottom_left, or bottom_right)", s)
}

// anchor returns the pixel coordinates of the circle center for a display of
// w x h pixels. Corner positions put the center on the corner itself, so an
// expanding circle grows into the screen as a quarter disc.
func (p Position) anchor(w, h int) (float64, float64) {
	switch p {
	case PositionTopLeft:
		return 0, 0
	case PositionTopRight:
		return float64(w), 0
	case PositionBottomLeft:
		return 0, float64(h)
	case PositionBottomRight:
		return float64(w), float64(h)
	default:
		return float64(w) / 2, float64(h) / 2
	}
}
