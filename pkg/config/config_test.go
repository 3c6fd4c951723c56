package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/viewfinder/pkg/config"
	"github.com/chazu/viewfinder/pkg/framing"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "viewfinder", "config.toml")
	if resolved != want {
		t.Fatalf("resolved path = %q, want %q", resolved, want)
	}
	if cfg.Camera.Path != "/World/RenderCamera" {
		t.Fatalf("unexpected camera path: %q", cfg.Camera.Path)
	}
	if cfg.Camera.InitialPosition != [3]float64{0.5, 0.5, 0.5} {
		t.Fatalf("unexpected initial position: %v", cfg.Camera.InitialPosition)
	}
	if cfg.Camera.Width != 1920 || cfg.Camera.Height != 1080 || cfg.Camera.FrameRate != 30 {
		t.Fatalf("unexpected camera resolution: %dx%d@%v", cfg.Camera.Width, cfg.Camera.Height, cfg.Camera.FrameRate)
	}
	if cfg.Framing.Target != "/World/clean_object" {
		t.Fatalf("unexpected target: %q", cfg.Framing.Target)
	}
	if cfg.Verify.ObjectPath != "World/clean_mussel" || cfg.Verify.GroundPath != "World/GroundPlane" {
		t.Fatalf("unexpected verify paths: %+v", cfg.Verify)
	}
	if cfg.Output.Subdir != "rendered_images" || !cfg.Output.WriteManifest {
		t.Fatalf("unexpected output section: %+v", cfg.Output)
	}
	if cfg.Output.RepoPath != "" {
		t.Fatalf("repo path should stay empty, got %q", cfg.Output.RepoPath)
	}
	if cfg.EvalTimeout() != 5*time.Second {
		t.Fatalf("unexpected eval timeout: %v", cfg.EvalTimeout())
	}
}

func TestLoadProjectFileFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	content := "[framing]\ntarget = \"World/props/cup\"\n"
	if err := os.WriteFile(filepath.Join(dir, "viewfinder.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected project config to be found")
	}
	if filepath.Base(resolved) != "viewfinder.toml" {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Framing.Target != "/World/props/cup" {
		t.Fatalf("target not normalized to absolute form: %q", cfg.Framing.Target)
	}
}

func TestLoadExplicitPathOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[camera]
path = "World/rig/cam"
width = 640
height = 480
frame_rate = 24.0

[framing]
distance_multiplier = 2.0
vertical_offset_ratio = 1.0
axes = "USD"

[output]
repo_path = "~/work/repo"
subdir = "stills"
write_manifest = false

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Camera.Path != "/World/rig/cam" {
		t.Fatalf("camera path = %q", cfg.Camera.Path)
	}
	if cfg.Camera.Width != 640 || cfg.Camera.FrameRate != 24 {
		t.Fatalf("camera overrides not applied: %+v", cfg.Camera)
	}
	if cfg.Camera.InitialPosition != [3]float64{0.5, 0.5, 0.5} {
		t.Fatalf("unset keys should keep defaults, got %v", cfg.Camera.InitialPosition)
	}
	if cfg.Output.RepoPath != filepath.Join(tempHome, "work", "repo") {
		t.Fatalf("repo path not expanded: %q", cfg.Output.RepoPath)
	}
	if cfg.Output.WriteManifest {
		t.Fatal("write_manifest override not applied")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}

	opts, err := cfg.FramingOptions(mgl64.Vec3{})
	if err != nil {
		t.Fatalf("FramingOptions: %v", err)
	}
	if opts.Axes != framing.AxesUSD {
		t.Fatalf("axes = %v, want usd", opts.Axes)
	}
	if opts.DistanceMultiplier != 2 || opts.VerticalOffsetRatio != 1 || opts.MinDistance != 0.5 {
		t.Fatalf("unexpected framing options: %+v", opts)
	}
	if opts.Up != (mgl64.Vec3{0, 0, 1}) {
		t.Fatalf("up = %v", opts.Up)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Framing.MinDistance != 0.5 {
		t.Fatalf("min distance = %v", cfg.Framing.MinDistance)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[camera]\nzoom = 2\n", "parse config"},
		{"bad camera path", "[camera]\npath = \"/World/bad path\"\n", "camera.path"},
		{"zero width", "[camera]\nwidth = 0\n", "camera resolution"},
		{"zero min distance", "[framing]\nmin_distance = 0.0\n", "framing.min_distance"},
		{"negative multiplier", "[framing]\ndistance_multiplier = -1.0\n", "framing.distance_multiplier"},
		{"bad axes", "[framing]\naxes = \"opengl\"\n", "framing.axes"},
		{"nested subdir", "[output]\nsubdir = \"a/b\"\n", "output.subdir"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"bad color", "[logging]\ncolor = \"sometimes\"\n", "logging.color"},
		{"zero timeout", "[scene]\neval_timeout_seconds = 0\n", "scene.eval_timeout_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("sample config not written")
	}
	def := config.Default()
	if cfg.Camera != def.Camera || cfg.Framing != def.Framing || cfg.Verify != def.Verify {
		t.Fatalf("sample drifted from defaults:\n got %+v\nwant %+v", cfg, def)
	}
	if cfg.Scene != def.Scene || cfg.Logging != def.Logging {
		t.Fatalf("sample drifted from defaults:\n got %+v\nwant %+v", cfg, def)
	}
}

func TestFramingUpPrecedence(t *testing.T) {
	cfg := config.Default()
	yUp := mgl64.Vec3{0, 1, 0}

	opts, err := cfg.FramingOptions(yUp)
	if err != nil {
		t.Fatalf("FramingOptions: %v", err)
	}
	if opts.Up != yUp {
		t.Fatalf("unset up should follow the scene, got %v", opts.Up)
	}

	cfg.Framing.Up = [3]float64{1, 0, 0}
	opts, err = cfg.FramingOptions(yUp)
	if err != nil {
		t.Fatalf("FramingOptions: %v", err)
	}
	if opts.Up != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("configured up should win over the scene, got %v", opts.Up)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Framing.Target = "/World/props/cup"

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var back config.Config
	if err := toml.Unmarshal(data, &back); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if back.Framing.Target != "/World/props/cup" {
		t.Fatalf("target lost in encoding: %q", back.Framing.Target)
	}
	if !strings.Contains(string(data), "[camera]") {
		t.Fatalf("encoded config missing camera section:\n%s", data)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/renders")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "renders") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("empty path should stay empty, got %q", got)
	}
}
