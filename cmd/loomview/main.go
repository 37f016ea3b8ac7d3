// Command loomview plays a looming stimulus live in a window, for checking
// timing, geometry, and placement on the actual presentation rig before a
// recording session. It loads the same experiment YAML as loomgen (path
// argument, default experiment.yaml).
//
// Controls: Space starts/pauses, R rewinds to onset, Esc/Q quits. The button
// in the corner opens another experiment file.
package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/loomgen/internal/config"
	"github.com/iburimskiy/loomgen/internal/render"
	"github.com/iburimskiy/loomgen/internal/stimulus"
)

const (
	// Button dimensions
	buttonWidth  = 120
	buttonHeight = 32
	buttonX      = 20
	buttonY      = 40

	cueSampleRate = beep.SampleRate(44100)
)

type game struct {
	// experiment
	cfg      *config.Experiment
	result   *stimulus.Result
	renderer *render.FrameRenderer
	bg, fg   color.RGBA

	// playback
	frameIdx int // offset into result.Frames of the frame on screen
	playing  bool
	finished bool

	// audio cue
	speakerReady bool

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

func newGame(cfg *config.Experiment) (*game, error) {
	g := &game{prevKey: map[ebiten.Key]bool{}}
	if err := g.loadExperiment(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// loadExperiment (re)builds the trajectory and renderer and rewinds playback.
func (g *game) loadExperiment(cfg *config.Experiment) error {
	res, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	renderer, err := cfg.Renderer()
	if err != nil {
		return err
	}

	bg, err := config.ParseColor(cfg.Display.Background)
	if err != nil {
		return err
	}
	fg, err := config.ParseColor(cfg.Display.Stimulus)
	if err != nil {
		return err
	}

	g.cfg = cfg
	g.result = res
	g.renderer = renderer
	g.bg = bg
	g.fg = fg
	g.frameIdx = 0
	g.playing = false
	g.finished = false

	// The stimulus must advance exactly one model frame per tick. Ebiten
	// only takes integer tick rates; fractional experiment rates get the
	// nearest one.
	ebiten.SetTPS(int(math.Round(res.FrameRate)))
	return nil
}

func (g *game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	// Handle button interactions
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= buttonX && mouseX <= buttonX+buttonWidth &&
		mouseY >= buttonY && mouseY <= buttonY+buttonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			if err := g.openExperimentDialog(); err != nil {
				g.lastErr = err
			}
		}
		g.buttonPressed = false
	}

	if justPressed(ebiten.KeySpace) {
		g.togglePlay()
	}
	if justPressed(ebiten.KeyR) {
		g.rewind()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if g.playing {
		if g.frameIdx+1 < len(g.result.Frames) {
			g.frameIdx++
		} else {
			g.playing = false
			g.finished = true
		}
	}

	return nil
}

func (g *game) togglePlay() {
	if g.finished {
		return // R rewinds first
	}
	g.playing = !g.playing
	if g.playing && g.frameIdx == 0 {
		g.playCue()
	}
}

func (g *game) rewind() {
	g.frameIdx = 0
	g.playing = false
	g.finished = false
}

// playCue emits the onset sync tone so external recording equipment can be
// aligned to the stimulus start.
func (g *game) playCue() {
	cue := g.cfg.Cue
	if !cue.Enabled {
		return
	}
	if !g.speakerReady {
		bufferSize := cueSampleRate.N(time.Second / 20)
		if err := speaker.Init(cueSampleRate, bufferSize); err != nil {
			g.lastErr = err
			return
		}
		g.speakerReady = true
	}
	tone, err := generators.SinTone(cueSampleRate, cue.FrequencyHz)
	if err != nil {
		g.lastErr = err
		return
	}
	n := cueSampleRate.N(time.Duration(cue.DurationMs) * time.Millisecond)
	speaker.Play(beep.Take(n, tone))
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)

	frame := g.result.Frames[g.frameIdx]
	cx, cy, radius := g.renderer.Circle(frame.Diameter)
	if radius > 0 {
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), g.fg, true)
	}

	g.drawButton(screen)

	status := ""
	switch {
	case g.finished:
		status = "Done - R to rewind"
	case g.playing:
		status = "Playing - Space to pause"
	case g.frameIdx > 0:
		status = "Paused - Space to resume, R to rewind"
	default:
		status = "Ready - Space to start"
	}
	status += fmt.Sprintf(" | %s model, frame %d/%d, t=%s, diameter %.2f cm",
		g.result.Kind, frame.Index, len(g.result.Frames), formatSeconds(frame.Time), frame.Diameter)
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *game) drawButton(screen *ebiten.Image) {
	var bgColor uint8
	if g.buttonPressed {
		bgColor = 60
	} else if g.buttonHovered {
		bgColor = 90
	} else {
		bgColor = 120
	}
	vector.DrawFilledRect(screen, buttonX, buttonY, buttonWidth, buttonHeight, grey(bgColor), false)
	vector.StrokeRect(screen, buttonX, buttonY, buttonWidth, buttonHeight, 2, grey(180), false)

	text := "Open Config"
	textWidth := len(text) * 8 // Approximate character width
	textX := buttonX + (buttonWidth-textWidth)/2
	textY := buttonY + (buttonHeight-8)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *game) openExperimentDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Experiment Config"),
		zenity.FileFilters{{
			Name:     "Experiment",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(filename)
	if err != nil {
		return err
	}
	g.lastErr = nil
	return g.loadExperiment(cfg)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Display.WidthPx, g.cfg.Display.HeightPx
}

// formatSeconds formats a stimulus timestamp as S.mmm
func formatSeconds(t float64) string {
	return fmt.Sprintf("%.3fs", t)
}

func grey(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

func main() {
	path := "experiment.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loomview: %v\n", err)
		os.Exit(1)
	}

	g, err := newGame(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loomview: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(cfg.Display.WidthPx, cfg.Display.HeightPx)
	ebiten.SetWindowTitle("Looming Stimulus Preview - Space: Start/Pause, R: Rewind, Esc/Q: Quit")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		panic(err)
	}
}
