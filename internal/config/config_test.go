package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
model:
  type: diameter
  frame_rate_hz: 60
  diameter:
    start_diameter_cm: 2
    end_diameter_cm: 50
    duration_s: 3
    expansion: constant_diameter
display:
  width_px: 2560
  height_px: 1440
  width_cm: 59.7
  position: top_left
  background: "#101014"
  stimulus: "#ffffff"
output:
  base_dir: /tmp/loom
  session_prefix: trial
  write_csv: true
  write_frames: true
cue:
  enabled: true
  frequency_hz: 880
  duration_ms: 50
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadSample verifies the full schema round-trips and the configured
// model builds.
func TestLoadSample(t *testing.T) {
	exp, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if exp.Model.Type != ModelDiameter {
		t.Errorf("model type = %q, want diameter", exp.Model.Type)
	}
	if exp.Model.Diameter == nil || exp.Model.Diameter.EndDiameterCM != 50 {
		t.Errorf("diameter block = %+v, want end 50 cm", exp.Model.Diameter)
	}
	if exp.Display.WidthPx != 2560 || exp.Display.WidthCM != 59.7 {
		t.Errorf("display geometry = %dpx/%gcm, want 2560px/59.7cm", exp.Display.WidthPx, exp.Display.WidthCM)
	}
	if !exp.Cue.Enabled || exp.Cue.FrequencyHz != 880 {
		t.Errorf("cue = %+v, want enabled at 880 Hz", exp.Cue)
	}

	res, err := exp.BuildModel()
	if err != nil {
		t.Fatalf("BuildModel failed: %v", err)
	}
	if got, want := len(res.Frames), 181; got != want {
		t.Errorf("built model has %d frames, want %d", got, want)
	}
}

// TestLoadDefaults verifies omitted display/output/cue fields pick up
// defaults.
func TestLoadDefaults(t *testing.T) {
	minimal := `
model:
  type: constant_speed
  frame_rate_hz: 60
  constant_speed:
    screen_distance_cm: 20
    speed_cm_s: 500
    attacker_diameter_cm: 50
    start_distance_cm: 1000
`
	exp, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exp.Display.WidthPx != 1920 || exp.Display.HeightPx != 1080 {
		t.Errorf("default display = %dx%d, want 1920x1080", exp.Display.WidthPx, exp.Display.HeightPx)
	}
	if exp.Display.Position != "center" {
		t.Errorf("default position = %q, want center", exp.Display.Position)
	}
	if exp.Output.SessionPrefix != "loom" {
		t.Errorf("default session prefix = %q, want loom", exp.Output.SessionPrefix)
	}
	if exp.Cue.FrequencyHz != 440 || exp.Cue.DurationMs != 80 {
		t.Errorf("default cue = %+v, want 440 Hz / 80 ms", exp.Cue)
	}
}

// TestLoadRejectsBadConfigs verifies structural validation failures.
func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := map[string]string{
		"missing model type": `
model:
  frame_rate_hz: 60
`,
		"missing model block": `
model:
  type: diameter
  frame_rate_hz: 60
`,
		"unknown expansion": `
model:
  type: diameter
  frame_rate_hz: 60
  diameter: {start_diameter_cm: 2, end_diameter_cm: 50, duration_s: 3, expansion: quadratic}
`,
		"zero frame rate": `
model:
  type: diameter
  diameter: {start_diameter_cm: 2, end_diameter_cm: 50, duration_s: 3, expansion: constant_speed}
`,
		"bad color": `
model:
  type: diameter
  frame_rate_hz: 60
  diameter: {start_diameter_cm: 2, end_diameter_cm: 50, duration_s: 3, expansion: constant_speed}
display:
  background: "white"
`,
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: Load succeeded, want error", name)
		}
	}
}

// TestParseColor verifies hex color parsing.
func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1a2b3c")
	if err != nil {
		t.Fatalf("ParseColor failed: %v", err)
	}
	if want := (color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}); c != want {
		t.Errorf("ParseColor(#1a2b3c) = %+v, want %+v", c, want)
	}
	for _, bad := range []string{"", "1a2b3c", "#fff", "#zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", bad)
		}
	}
}
