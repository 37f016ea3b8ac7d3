package render

import (
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iburimskiy/loomgen/internal/stimulus"
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// TestPixelsPerCM verifies the scale derivation.
func TestPixelsPerCM(t *testing.T) {
	d := Display{WidthPx: 1920, HeightPx: 1080, WidthCM: 48}
	if got, want := d.PixelsPerCM(), 40.0; got != want {
		t.Errorf("PixelsPerCM = %g, want %g (1920 px / 48 cm)", got, want)
	}
}

// TestRenderCenteredCircle verifies a centered stimulus colors the display
// center and leaves the corners at background.
func TestRenderCenteredCircle(t *testing.T) {
	r := &FrameRenderer{
		Display:    Display{WidthPx: 200, HeightPx: 100, WidthCM: 20}, // 10 px/cm
		Position:   PositionCenter,
		Background: black,
		Stimulus:   white,
	}
	img := r.Render(4) // 4 cm -> 40 px diameter, radius 20 px around (100, 50)

	if got := img.RGBAAt(100, 50); got != white {
		t.Errorf("center pixel = %+v, want stimulus white", got)
	}
	if got := img.RGBAAt(100, 35); got != white {
		t.Errorf("pixel 15 px above center = %+v, want stimulus white", got)
	}
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("corner pixel = %+v, want background black", got)
	}
	if got := img.RGBAAt(100, 20); got != black {
		t.Errorf("pixel 30 px above center = %+v, want background black", got)
	}
}

// TestRenderCornerAnchor verifies a corner position grows the circle out of
// that corner.
func TestRenderCornerAnchor(t *testing.T) {
	r := &FrameRenderer{
		Display:    Display{WidthPx: 200, HeightPx: 100, WidthCM: 20},
		Position:   PositionTopLeft,
		Background: black,
		Stimulus:   white,
	}
	img := r.Render(4) // radius 20 px around (0, 0)

	if got := img.RGBAAt(5, 5); got != white {
		t.Errorf("near top-left = %+v, want stimulus white", got)
	}
	if got := img.RGBAAt(100, 50); got != black {
		t.Errorf("display center = %+v, want background black", got)
	}
}

// TestParsePosition verifies the closed position set.
func TestParsePosition(t *testing.T) {
	for name, want := range positionNames {
		got, err := ParsePosition(name)
		if err != nil || got != want {
			t.Errorf("ParsePosition(%q) = %v, %v", name, got, err)
		}
	}
	for _, bad := range []string{"", "middle", "topleft", "TOP_LEFT"} {
		if _, err := ParsePosition(bad); err == nil {
			t.Errorf("ParsePosition(%q) succeeded, want error", bad)
		}
	}
}

// TestFrameWriterWritesSequence verifies one decodable PNG per frame with
// zero-padded sequential names under a stamped session directory.
func TestFrameWriterWritesSequence(t *testing.T) {
	res, err := stimulus.DiameterModel(stimulus.DiameterParams{
		StartDiameter: 1,
		EndDiameter:   5,
		Duration:      0.1,
		FrameRate:     60,
		Mode:          stimulus.ExpansionConstantDiameter,
	})
	if err != nil {
		t.Fatalf("DiameterModel failed: %v", err)
	}

	base := t.TempDir()
	fw := &FrameWriter{
		BaseDir:       base,
		SessionPrefix: "trial",
		Renderer: &FrameRenderer{
			Display:    Display{WidthPx: 64, HeightPx: 48, WidthCM: 6.4},
			Position:   PositionCenter,
			Background: black,
			Stimulus:   white,
		},
		now: func() time.Time { return time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC) },
	}

	dir, err := fw.WriteAll(res)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if want := filepath.Join(base, "trial_20260827_143000"); dir != want {
		t.Errorf("session dir = %q, want %q", dir, want)
	}

	// 0.1 s at 60 Hz -> 6 intervals -> 7 frames.
	for i := 1; i <= 7; i++ {
		path := filepath.Join(dir, fmt.Sprintf("frame_%06d.png", i))
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("frame %d missing: %v", i, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("frame %d not decodable: %v", i, err)
		}
		if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
			t.Errorf("frame %d bounds = %v, want 64x48", i, img.Bounds())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_000008.png")); !os.IsNotExist(err) {
		t.Errorf("unexpected 8th frame (err = %v)", err)
	}
}
