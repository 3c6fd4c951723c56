// Package camsetup places a render camera so that it frames a target prim.
//
// Setup resolves the repository and output directory when it is built, then
// Frame creates the camera, measures the target and applies the computed
// pose. A missing target is not an error: the camera keeps its initial
// position and looks at the world origin instead.
package camsetup

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chazu/viewfinder/pkg/framing"
	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/chazu/viewfinder/pkg/host"
	"github.com/chazu/viewfinder/pkg/logging"
	"github.com/chazu/viewfinder/pkg/workspace"
	"github.com/go-gl/mathgl/mgl64"
)

// Options configures a Setup.
type Options struct {
	CameraPath      string
	InitialPosition mgl64.Vec3
	Width           int
	Height          int
	FrameRate       float64

	Target  string
	Framing framing.Options

	// RepoPath overrides the repository derived from the stage URL.
	RepoPath     string
	OutputSubdir string
	// WriteManifest persists each framing result into the output directory.
	WriteManifest bool
	// Cwd is the fallback repository. Empty means the process working directory.
	Cwd string
}

// DefaultOptions returns a 1920x1080 30fps camera at /World/RenderCamera,
// starting at (0.5, 0.5, 0.5) and aimed at /World/clean_object.
func DefaultOptions() Options {
	return Options{
		CameraPath:      "/World/RenderCamera",
		InitialPosition: mgl64.Vec3{0.5, 0.5, 0.5},
		Width:           1920,
		Height:          1080,
		FrameRate:       30,
		Target:          "/World/clean_object",
		Framing:         framing.DefaultOptions(),
		OutputSubdir:    workspace.DefaultOutputSubdir,
	}
}

// Result describes a framed camera.
type Result struct {
	Camera     *host.Camera
	TargetPath string
	// Target is the point the camera looks at: the box center, or the
	// origin on fallback.
	Target mgl64.Vec3
	// Bounds is nil on fallback.
	Bounds   *geom.BoundingBox
	Pose     geom.Pose
	Distance float64
	Fallback bool
	// ManifestPath is set when the result was written to disk.
	ManifestPath string
}

// Setup frames a camera on one host.
type Setup struct {
	host   host.Host
	opts   Options
	logger *slog.Logger
	layout workspace.Layout

	camera *host.Camera
	last   *Result
}

// New resolves the output layout and creates the output directory.
func New(h host.Host, opts Options, logger *slog.Logger) (*Setup, error) {
	if h == nil {
		return nil, errors.New("camsetup: nil host")
	}
	s := &Setup{
		host:   h,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "camsetup"),
	}

	layout, err := s.resolveLayout()
	if err != nil {
		return nil, err
	}
	if err := layout.Ensure(); err != nil {
		return nil, err
	}
	s.layout = layout
	s.logger.Info("output layout resolved",
		slog.String("repository", layout.RepoPath),
		slog.String("output_dir", layout.OutputDir),
	)
	return s, nil
}

func (s *Setup) resolveLayout() (workspace.Layout, error) {
	if repo := strings.TrimSpace(s.opts.RepoPath); repo != "" {
		return workspace.Layout{
			RepoPath:  repo,
			OutputDir: workspace.OutputDir(repo, s.opts.OutputSubdir),
		}, nil
	}

	cwd := s.opts.Cwd
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return workspace.Layout{}, fmt.Errorf("camsetup: working directory: %w", err)
		}
	}
	url, _ := s.host.StageURL()
	layout := workspace.Resolve(url, cwd, s.opts.OutputSubdir)
	if !layout.FromStage {
		s.logger.Warn("could not derive repository from stage location, using working directory",
			slog.String("stage_url", url),
			slog.String("cwd", cwd),
		)
	}
	return layout, nil
}

// Layout returns the resolved repository and output directory.
func (s *Setup) Layout() workspace.Layout {
	return s.layout
}

// Camera returns the camera handle, or nil before a camera was created.
func (s *Setup) Camera() *host.Camera {
	return s.camera
}

// LastResult returns the most recent successful framing.
func (s *Setup) LastResult() (Result, bool) {
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Frame creates the camera, aims it at the target and returns the pose.
func (s *Setup) Frame() (Result, error) {
	cam, err := s.host.CreateCamera(host.CameraSpec{
		Path:      s.opts.CameraPath,
		Position:  s.opts.InitialPosition,
		Width:     s.opts.Width,
		Height:    s.opts.Height,
		FrameRate: s.opts.FrameRate,
	})
	if err != nil {
		return Result{}, fmt.Errorf("create camera: %w", err)
	}
	s.camera = cam
	s.logger.Debug("camera created",
		slog.String("path", cam.Path),
		slog.String("id", cam.ID.String()),
	)

	res := Result{Camera: cam, TargetPath: s.opts.Target}

	bb, err := s.host.WorldBoundingBox(s.opts.Target)
	switch {
	case err == nil:
		pose, err := framing.ComputePose(bb, s.opts.Framing)
		if err != nil {
			return Result{}, fmt.Errorf("frame %s: %w", s.opts.Target, err)
		}
		res.Bounds = &bb
		res.Target = bb.Center
		res.Pose = pose
		res.Distance = framing.Distance(bb.MaxDim(), s.opts.Framing.DistanceMultiplier, s.opts.Framing.MinDistance)
	case errors.Is(err, host.ErrPrimNotFound), errors.Is(err, host.ErrNoGeometry):
		s.logger.Warn("target not found, aiming camera at origin",
			slog.String("target", s.opts.Target),
			logging.Error(err),
		)
		pose, err := s.originPose(cam)
		if err != nil {
			return Result{}, err
		}
		res.Fallback = true
		res.Pose = pose
		res.Distance = pose.Position.Len()
	default:
		return Result{}, fmt.Errorf("bounds of %s: %w", s.opts.Target, err)
	}

	if err := s.host.SetCameraPose(cam, res.Pose); err != nil {
		return Result{}, fmt.Errorf("apply camera pose: %w", err)
	}
	s.logger.Info("camera framed",
		slog.String("camera", cam.Path),
		slog.String("target", res.TargetPath),
		slog.String("position", geom.FormatVec(res.Pose.Position)),
		slog.Float64("distance", res.Distance),
		slog.Bool("fallback", res.Fallback),
	)

	if s.opts.WriteManifest {
		if err := s.writeManifest(&res); err != nil {
			return Result{}, err
		}
	}

	s.last = &res
	return res, nil
}

// originPose keeps the camera where it is and turns it toward the origin.
// A camera sitting on the origin keeps its current orientation.
func (s *Setup) originPose(cam *host.Camera) (geom.Pose, error) {
	current, err := s.host.CameraPose(cam)
	if err != nil {
		return geom.Pose{}, fmt.Errorf("read camera pose: %w", err)
	}
	q, err := framing.LookAt(current.Position, mgl64.Vec3{}, s.opts.Framing.Up, s.opts.Framing.Axes)
	switch {
	case errors.Is(err, framing.ErrDegenerateView):
		return current, nil
	case err != nil:
		return geom.Pose{}, fmt.Errorf("aim camera at origin: %w", err)
	}
	return geom.Pose{Position: current.Position, Orientation: q}, nil
}

func (s *Setup) writeManifest(res *Result) error {
	url, _ := s.host.StageURL()
	m := workspace.Manifest{
		GeneratedAt: time.Now().UTC(),
		StageURL:    url,
		Camera: workspace.ManifestCamera{
			ID:          res.Camera.ID.String(),
			Path:        res.Camera.Path,
			Width:       res.Camera.Width,
			Height:      res.Camera.Height,
			FrameRate:   res.Camera.FrameRate,
			Position:    res.Pose.Position,
			Orientation: res.Pose.WXYZ(),
		},
		Target: workspace.ManifestTarget{
			Path:     res.TargetPath,
			Point:    res.Target,
			Distance: res.Distance,
			Fallback: res.Fallback,
			Bounds:   res.Bounds,
		},
	}
	if err := workspace.WriteManifest(s.layout.OutputDir, m); err != nil {
		return fmt.Errorf("write camera manifest: %w", err)
	}
	res.ManifestPath = workspace.ManifestPath(s.layout.OutputDir)
	s.logger.Debug("camera manifest written", slog.String("path", res.ManifestPath))
	return nil
}

// CreateCamera runs Frame and reports success. Failures, including panics
// raised by the host, are logged and never propagate.
func (s *Setup) CreateCamera() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("error setting up camera", slog.Any("panic", r))
			ok = false
		}
	}()
	if _, err := s.Frame(); err != nil {
		s.logger.Error("error setting up camera", logging.Error(err))
		return false
	}
	return true
}
