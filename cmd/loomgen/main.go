// Command loomgen reads an experiment YAML (path argument, default
// experiment.yaml), builds the configured looming trajectory, and writes the
// CSV table and/or PNG frame sequence the config asks for.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/iburimskiy/loomgen/internal/config"
	"github.com/iburimskiy/loomgen/internal/export"
	"github.com/iburimskiy/loomgen/internal/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "loomgen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path := "experiment.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	exp, err := config.Load(path)
	if err != nil {
		return err
	}

	res, err := exp.BuildModel()
	if err != nil {
		return fmt.Errorf("building %s model: %w", exp.Model.Type, err)
	}
	logger.Info("trajectory built",
		"model", res.Kind.String(),
		"frames", len(res.Frames),
		"frame_rate_hz", res.FrameRate,
		"duration_s", res.Duration(),
	)

	if !exp.Output.WriteCSV && !exp.Output.WriteFrames {
		logger.Warn("output.write_csv and output.write_frames are both off; nothing to do")
		return nil
	}

	if err := os.MkdirAll(exp.Output.BaseDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if exp.Output.WriteCSV {
		csvPath := filepath.Join(exp.Output.BaseDir, exp.Output.SessionPrefix+"_trajectory.csv")
		if err := export.WriteResult(csvPath, res); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		logger.Info("csv written", "path", csvPath, "rows", len(res.Frames))
	}

	if exp.Output.WriteFrames {
		renderer, err := exp.Renderer()
		if err != nil {
			return err
		}
		fw := &render.FrameWriter{
			BaseDir:       exp.Output.BaseDir,
			SessionPrefix: exp.Output.SessionPrefix,
			Renderer:      renderer,
		}
		dir, err := fw.WriteAll(res)
		if err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		logger.Info("frames written", "dir", dir, "frames", len(res.Frames))
	}

	return nil
}
