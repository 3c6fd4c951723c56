package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestName is the file written next to the rendered images.
	ManifestName = "camera_pose.toml"
	lockName     = ".camera_pose.lock"

	manifestVersion = 1
)

// ErrNoManifest is returned by ReadManifest when the directory has none.
var ErrNoManifest = errors.New("no camera manifest")

// Manifest records how the render camera was framed for a run.
type Manifest struct {
	Version     int            `toml:"version"`
	GeneratedAt time.Time      `toml:"generated_at"`
	StageURL    string         `toml:"stage_url,omitempty"`
	Camera      ManifestCamera `toml:"camera"`
	Target      ManifestTarget `toml:"target"`
}

// ManifestCamera is the camera half of the manifest.
type ManifestCamera struct {
	ID          string     `toml:"id"`
	Path        string     `toml:"path"`
	Width       int        `toml:"width"`
	Height      int        `toml:"height"`
	FrameRate   float64    `toml:"frame_rate"`
	Position    [3]float64 `toml:"position"`
	Orientation [4]float64 `toml:"orientation_wxyz"`
}

// ManifestTarget is what the camera was aimed at.
type ManifestTarget struct {
	Path     string     `toml:"path"`
	Point    [3]float64 `toml:"point"`
	Distance float64    `toml:"distance"`
	Fallback bool       `toml:"fallback"`
	// Bounds is absent when the target could not be measured.
	Bounds *geom.BoundingBox `toml:"bounds,omitempty"`
}

// ManifestPath returns the manifest location inside dir.
func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestName)
}

// WriteManifest writes m to dir/camera_pose.toml. Writers sharing an output
// directory are serialized with a lock file, and the manifest is replaced
// atomically so readers never see a partial file.
func WriteManifest(dir string, m Manifest) error {
	if m.Version == 0 {
		m.Version = manifestVersion
	}
	if m.GeneratedAt.IsZero() {
		m.GeneratedAt = time.Now().UTC()
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire manifest lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, ManifestName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create manifest temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmpName, ManifestPath(dir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("install manifest: %w", err)
	}
	return nil
}

// ReadManifest loads dir/camera_pose.toml.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(ManifestPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, fmt.Errorf("%s: %w", dir, ErrNoManifest)
		}
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}
