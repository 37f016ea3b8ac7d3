package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/iburimskiy/loomgen/internal/stimulus"
)

// FrameWriter renders every frame of a result into a fresh session directory
// as zero-padded PNGs (frame_000001.png, ...). The numbered sequence is the
// hand-off format for whatever encoder the rig uses downstream.
type FrameWriter struct {
	BaseDir       string
	SessionPrefix string
	Renderer      *FrameRenderer

	// now stamps the session directory; overridable in tests.
	now func() time.Time
}

// WriteAll writes one PNG per frame and returns the session directory path.
func (fw *FrameWriter) WriteAll(res *stimulus.Result) (string, error) {
	nowFn := fw.now
	if nowFn == nil {
		nowFn = time.Now
	}
	session := fmt.Sprintf("%s_%s", fw.SessionPrefix, nowFn().Format("20060102_150405"))
	dir := filepath.Join(fw.BaseDir, session)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}

	for _, f := range res.Frames {
		img := fw.Renderer.Render(f.Diameter)
		path := filepath.Join(dir, fmt.Sprintf("frame_%06d.png", f.Index))
		if err := writePNG(path, img); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close frame %s: %w", path, err)
	}
	return nil
}
