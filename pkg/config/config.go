package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/viewfinder/pkg/framing"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Camera describes the render camera the frame command creates.
type Camera struct {
	Path            string     `toml:"path"`
	InitialPosition [3]float64 `toml:"initial_position"`
	Width           int        `toml:"width"`
	Height          int        `toml:"height"`
	FrameRate       float64    `toml:"frame_rate"`
}

// Framing contains the auto-framing heuristic parameters.
type Framing struct {
	Target              string     `toml:"target"`
	DistanceMultiplier  float64    `toml:"distance_multiplier"`
	MinDistance         float64    `toml:"min_distance"`
	VerticalOffsetRatio float64    `toml:"vertical_offset_ratio"`
	// Up is the world up vector. Left unset, the scene's up axis is used.
	Up [3]float64 `toml:"up"`
	// Axes is the camera-local convention of the written orientation:
	// world, usd or ros.
	Axes string `toml:"axes"`
}

// Verify names the prims the verify command checks for.
type Verify struct {
	ObjectPath string `toml:"object_path"`
	GroundPath string `toml:"ground_path"`
}

// Scene contains scene-script evaluation settings.
type Scene struct {
	TimelineFPS        float64 `toml:"timeline_fps"`
	EvalTimeoutSeconds int     `toml:"eval_timeout_seconds"`
}

// Output controls where run artifacts go.
type Output struct {
	// RepoPath overrides the repository derived from the stage URL.
	RepoPath      string `toml:"repo_path"`
	Subdir        string `toml:"subdir"`
	WriteManifest bool   `toml:"write_manifest"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Color  string `toml:"color"`
}

// Config encapsulates all configuration values for viewfinder.
//
// Configuration sections by subsystem:
//   - Camera: render camera path, initial position and resolution
//   - Framing: target prim and the distance heuristic
//   - Verify: prims the environment check looks for
//   - Scene: scene-script evaluation and timeline settings
//   - Output: repository override and manifest output
//   - Logging: log format, level and color
type Config struct {
	Camera  Camera  `toml:"camera"`
	Framing Framing `toml:"framing"`
	Verify  Verify  `toml:"verify"`
	Scene   Scene   `toml:"scene"`
	Output  Output  `toml:"output"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/viewfinder/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has paths expanded and values normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("viewfinder.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// FramingOptions converts the framing section into framing.Options. The
// configured up vector wins over sceneUp, and framing.DefaultUp is used when
// neither is set.
func (c *Config) FramingOptions(sceneUp mgl64.Vec3) (framing.Options, error) {
	axes, err := framing.ParseAxes(c.Framing.Axes)
	if err != nil {
		return framing.Options{}, err
	}
	up := mgl64.Vec3(c.Framing.Up)
	if up == (mgl64.Vec3{}) {
		up = sceneUp
	}
	if up == (mgl64.Vec3{}) {
		up = framing.DefaultUp
	}
	return framing.Options{
		Up:                  up,
		MinDistance:         c.Framing.MinDistance,
		DistanceMultiplier:  c.Framing.DistanceMultiplier,
		VerticalOffsetRatio: c.Framing.VerticalOffsetRatio,
		Axes:                axes,
	}, nil
}

// EvalTimeout returns the scene evaluation timeout.
func (c *Config) EvalTimeout() time.Duration {
	return time.Duration(c.Scene.EvalTimeoutSeconds) * time.Second
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
