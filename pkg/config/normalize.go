package config

import (
	"fmt"
	"strings"

	"github.com/chazu/viewfinder/pkg/stage"
)

func (c *Config) normalize() error {
	if err := c.normalizeCamera(); err != nil {
		return err
	}
	if err := c.normalizeFraming(); err != nil {
		return err
	}
	c.normalizeVerify()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCamera() error {
	c.Camera.Path = strings.TrimSpace(c.Camera.Path)
	if c.Camera.Path == "" {
		c.Camera.Path = defaultCameraPath
	}
	p, err := stage.ParsePath(c.Camera.Path)
	if err != nil {
		return fmt.Errorf("camera.path: %w", err)
	}
	c.Camera.Path = p.String()
	return nil
}

func (c *Config) normalizeFraming() error {
	c.Framing.Target = strings.TrimSpace(c.Framing.Target)
	if c.Framing.Target == "" {
		c.Framing.Target = defaultTargetPath
	}
	p, err := stage.ParsePath(c.Framing.Target)
	if err != nil {
		return fmt.Errorf("framing.target: %w", err)
	}
	c.Framing.Target = p.String()
	c.Framing.Axes = strings.ToLower(strings.TrimSpace(c.Framing.Axes))
	if c.Framing.Axes == "" {
		c.Framing.Axes = defaultCameraAxes
	}
	return nil
}

// normalizeVerify keeps the configured spelling; the host accepts both the
// relative and absolute forms.
func (c *Config) normalizeVerify() {
	c.Verify.ObjectPath = strings.TrimSpace(c.Verify.ObjectPath)
	if c.Verify.ObjectPath == "" {
		c.Verify.ObjectPath = defaultObjectPath
	}
	c.Verify.GroundPath = strings.TrimSpace(c.Verify.GroundPath)
	if c.Verify.GroundPath == "" {
		c.Verify.GroundPath = defaultGroundPath
	}
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.RepoPath, err = expandPath(strings.TrimSpace(c.Output.RepoPath)); err != nil {
		return fmt.Errorf("output.repo_path: %w", err)
	}
	c.Output.Subdir = strings.TrimSpace(c.Output.Subdir)
	if c.Output.Subdir == "" {
		c.Output.Subdir = defaultOutputSubdir
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Color = strings.ToLower(strings.TrimSpace(c.Logging.Color))
	if c.Logging.Color == "" {
		c.Logging.Color = defaultLogColor
	}
}
