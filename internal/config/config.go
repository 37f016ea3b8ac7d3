// Package config loads and validates the YAML experiment file that drives
// both the batch generator and the live preview.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/loomgen/internal/render"
	"github.com/iburimskiy/loomgen/internal/stimulus"
)

// ModelType values for ModelConfig.Type.
const (
	ModelConstantSpeed = "constant_speed"
	ModelDiameter      = "diameter"
)

type ConstantSpeedConfig struct {
	ScreenDistanceCM   float64 `yaml:"screen_distance_cm"`
	SpeedCMS           float64 `yaml:"speed_cm_s"`
	AttackerDiameterCM float64 `yaml:"attacker_diameter_cm"`
	StartDistanceCM    float64 `yaml:"start_distance_cm"`
}

type DiameterConfig struct {
	StartDiameterCM float64 `yaml:"start_diameter_cm"`
	EndDiameterCM   float64 `yaml:"end_diameter_cm"`
	DurationS       float64 `yaml:"duration_s"`
	Expansion       string  `yaml:"expansion"`
}

type ModelConfig struct {
	Type          string               `yaml:"type"`
	FrameRateHz   float64              `yaml:"frame_rate_hz"`
	ConstantSpeed *ConstantSpeedConfig `yaml:"constant_speed"`
	Diameter      *DiameterConfig      `yaml:"diameter"`
}

type DisplayConfig struct {
	WidthPx    int     `yaml:"width_px"`
	HeightPx   int     `yaml:"height_px"`
	WidthCM    float64 `yaml:"width_cm"`
	Position   string  `yaml:"position"`
	Background string  `yaml:"background"`
	Stimulus   string  `yaml:"stimulus"`
}

type OutputConfig struct {
	BaseDir       string `yaml:"base_dir"`
	SessionPrefix string `yaml:"session_prefix"`
	WriteCSV      bool   `yaml:"write_csv"`
	WriteFrames   bool   `yaml:"write_frames"`
}

// CueConfig describes the optional sync tone the preview plays at stimulus
// onset, used to align the stimulus with recording equipment.
type CueConfig struct {
	Enabled     bool `yaml:"enabled"`
	FrequencyHz int  `yaml:"frequency_hz"`
	DurationMs  int  `yaml:"duration_ms"`
}

// Experiment is the top-level structure of an experiment YAML file.
type Experiment struct {
	Model   ModelConfig   `yaml:"model"`
	Display DisplayConfig `yaml:"display"`
	Output  OutputConfig  `yaml:"output"`
	Cue     CueConfig     `yaml:"cue"`
}

// Load reads, parses, defaults, and validates an experiment file.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiment config: %w", err)
	}
	var exp Experiment
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("parse experiment config: %w", err)
	}
	exp.applyDefaults()
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("experiment config %s: %w", path, err)
	}
	return &exp, nil
}

func (e *Experiment) applyDefaults() {
	if e.Display.WidthPx == 0 {
		e.Display.WidthPx = 1920
	}
	if e.Display.HeightPx == 0 {
		e.Display.HeightPx = 1080
	}
	if e.Display.WidthCM == 0 {
		e.Display.WidthCM = 53.0
	}
	if e.Display.Position == "" {
		e.Display.Position = "center"
	}
	if e.Display.Background == "" {
		e.Display.Background = "#ffffff"
	}
	if e.Display.Stimulus == "" {
		e.Display.Stimulus = "#000000"
	}
	if e.Output.BaseDir == "" {
		e.Output.BaseDir = "sessions"
	}
	if e.Output.SessionPrefix == "" {
		e.Output.SessionPrefix = "loom"
	}
	if e.Cue.FrequencyHz == 0 {
		e.Cue.FrequencyHz = 440
	}
	if e.Cue.DurationMs == 0 {
		e.Cue.DurationMs = 80
	}
}

// Validate checks structural consistency. Model parameter ranges are owned
// by the stimulus builders; this layer only rejects what cannot even be
// handed to them.
func (e *Experiment) Validate() error {
	switch e.Model.Type {
	case ModelConstantSpeed:
		if e.Model.ConstantSpeed == nil {
			return fmt.Errorf("model type %s requires a model.constant_speed block", ModelConstantSpeed)
		}
	case ModelDiameter:
		if e.Model.Diameter == nil {
			return fmt.Errorf("model type %s requires a model.diameter block", ModelDiameter)
		}
		if _, err := stimulus.ParseExpansionMode(e.Model.Diameter.Expansion); err != nil {
			return err
		}
	case "":
		return fmt.Errorf("model.type is required (%s or %s)", ModelConstantSpeed, ModelDiameter)
	default:
		return fmt.Errorf("unknown model type %q (want %s or %s)", e.Model.Type, ModelConstantSpeed, ModelDiameter)
	}

	if e.Model.FrameRateHz <= 0 {
		return fmt.Errorf("model.frame_rate_hz must be > 0, got %g", e.Model.FrameRateHz)
	}
	if e.Display.WidthPx <= 0 || e.Display.HeightPx <= 0 {
		return fmt.Errorf("display dimensions must be > 0, got %dx%d px", e.Display.WidthPx, e.Display.HeightPx)
	}
	if e.Display.WidthCM <= 0 {
		return fmt.Errorf("display.width_cm must be > 0, got %g", e.Display.WidthCM)
	}
	if _, err := render.ParsePosition(e.Display.Position); err != nil {
		return fmt.Errorf("display.position: %w", err)
	}
	if _, err := ParseColor(e.Display.Background); err != nil {
		return fmt.Errorf("display.background: %w", err)
	}
	if _, err := ParseColor(e.Display.Stimulus); err != nil {
		return fmt.Errorf("display.stimulus: %w", err)
	}
	return nil
}

// BuildModel runs the configured trajectory builder.
func (e *Experiment) BuildModel() (*stimulus.Result, error) {
	switch e.Model.Type {
	case ModelConstantSpeed:
		cs := e.Model.ConstantSpeed
		return stimulus.ConstantSpeedModel(stimulus.ConstantSpeedParams{
			ScreenDistance:   cs.ScreenDistanceCM,
			FrameRate:        e.Model.FrameRateHz,
			Speed:            cs.SpeedCMS,
			AttackerDiameter: cs.AttackerDiameterCM,
			StartDistance:    cs.StartDistanceCM,
		})
	case ModelDiameter:
		d := e.Model.Diameter
		mode, err := stimulus.ParseExpansionMode(d.Expansion)
		if err != nil {
			return nil, err
		}
		return stimulus.DiameterModel(stimulus.DiameterParams{
			StartDiameter: d.StartDiameterCM,
			EndDiameter:   d.EndDiameterCM,
			Duration:      d.DurationS,
			FrameRate:     e.Model.FrameRateHz,
			Mode:          mode,
		})
	}
	return nil, fmt.Errorf("unknown model type %q", e.Model.Type)
}

// Renderer builds the frame renderer described by the display block.
func (e *Experiment) Renderer() (*render.FrameRenderer, error) {
	pos, err := render.ParsePosition(e.Display.Position)
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(e.Display.Background)
	if err != nil {
		return nil, err
	}
	fg, err := ParseColor(e.Display.Stimulus)
	if err != nil {
		return nil, err
	}
	return &render.FrameRenderer{
		Display: render.Display{
			WidthPx:  e.Display.WidthPx,
			HeightPx: e.Display.HeightPx,
			WidthCM:  e.Display.WidthCM,
		},
		Position:   pos,
		Background: bg,
		Stimulus:   fg,
	}, nil
}

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
