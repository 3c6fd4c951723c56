package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/chazu/viewfinder/pkg/framing"
	"github.com/chazu/viewfinder/pkg/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateFraming(); err != nil {
		return err
	}
	if err := c.validateScene(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera resolution must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if !(c.Camera.FrameRate > 0) {
		return errors.New("camera.frame_rate must be positive")
	}
	for _, v := range c.Camera.InitialPosition {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("camera.initial_position must be finite")
		}
	}
	return nil
}

func (c *Config) validateFraming() error {
	if !(c.Framing.MinDistance > 0) {
		return errors.New("framing.min_distance must be positive")
	}
	if c.Framing.DistanceMultiplier < 0 {
		return errors.New("framing.distance_multiplier must be >= 0")
	}
	if c.Framing.VerticalOffsetRatio < 0 {
		return errors.New("framing.vertical_offset_ratio must be >= 0")
	}
	if _, err := framing.ParseAxes(c.Framing.Axes); err != nil {
		return fmt.Errorf("framing.axes: %w", err)
	}
	return nil
}

func (c *Config) validateScene() error {
	if !(c.Scene.TimelineFPS > 0) {
		return errors.New("scene.timeline_fps must be positive")
	}
	if c.Scene.EvalTimeoutSeconds <= 0 {
		return errors.New("scene.eval_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.ContainsAny(c.Output.Subdir, `/\`) || c.Output.Subdir == ".." || filepath.IsAbs(c.Output.Subdir) {
		return fmt.Errorf("output.subdir must be a single directory name, got %q", c.Output.Subdir)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("logging.color must be auto, always or never, got %q", c.Logging.Color)
	}
	return nil
}
