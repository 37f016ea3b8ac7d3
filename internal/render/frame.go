// Package render turns a diameter sequence into pixels: a live preview scale
// helper and an offline PNG frame writer. Diameters arrive in centimetres;
// this package owns the cm-to-pixel conversion from the configured display
// geometry.
package render

import (
	"image"
	"image/color"
	"math"
)

// Display is the physical geometry of the presentation screen.
type Display struct {
	WidthPx  int
	HeightPx int
	WidthCM  float64 // physical width of the visible area
}

// PixelsPerCM is the horizontal pixel density. Pixels are assumed square, as
// they are on every display this runs on.
func (d Display) PixelsPerCM() float64 {
	return float64(d.WidthPx) / d.WidthCM
}

// FrameRenderer rasterizes stimulus frames for one experiment.
type FrameRenderer struct {
	Display    Display
	Position   Position
	Background color.RGBA
	Stimulus   color.RGBA
}

// Circle returns the pixel-space center and radius of the stimulus circle
// for a given diameter in cm. The live preview draws from the same geometry
// the offline rasterizer uses.
func (r *FrameRenderer) Circle(diameterCM float64) (cx, cy, radiusPx float64) {
	cx, cy = r.Position.anchor(r.Display.WidthPx, r.Display.HeightPx)
	return cx, cy, diameterCM * r.Display.PixelsPerCM() / 2
}

// Render draws one frame: background fill plus a filled circle of the given
// diameter (cm) at the configured anchor. The circle edge is antialiased by
// per-pixel coverage so slow expansions do not shimmer frame to frame.
func (r *FrameRenderer) Render(diameterCM float64) *image.RGBA {
	w, h := r.Display.WidthPx, r.Display.HeightPx
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = r.Background.R
		img.Pix[i+1] = r.Background.G
		img.Pix[i+2] = r.Background.B
		img.Pix[i+3] = 255
	}

	cx, cy, radius := r.Circle(diameterCM)
	if radius <= 0 {
		return img
	}

	// Only touch the circle's bounding box, clipped to the image.
	minX := clampInt(int(math.Floor(cx-radius-1)), 0, w)
	maxX := clampInt(int(math.Ceil(cx+radius+1)), 0, w)
	minY := clampInt(int(math.Floor(cy-radius-1)), 0, h)
	maxY := clampInt(int(math.Ceil(cy+radius+1)), 0, h)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Hypot(dx, dy)
			cov := radius - dist + 0.5
			if cov <= 0 {
				continue
			}
			if cov > 1 {
				cov = 1
			}
			o := img.PixOffset(x, y)
			img.Pix[o+0] = blend(r.Background.R, r.Stimulus.R, cov)
			img.Pix[o+1] = blend(r.Background.G, r.Stimulus.G, cov)
			img.Pix[o+2] = blend(r.Background.B, r.Stimulus.B, cov)
		}
	}
	return img
}

func blend(bg, fg uint8, cov float64) uint8 {
	return uint8(float64(bg)*(1-cov) + float64(fg)*cov + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
