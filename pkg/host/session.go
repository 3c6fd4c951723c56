package host

import (
	"fmt"
	"sync"

	"github.com/chazu/viewfinder/pkg/bounds"
	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/chazu/viewfinder/pkg/kernel"
	"github.com/chazu/viewfinder/pkg/stage"
	"github.com/google/uuid"
)

// Compile-time interface check.
var _ Host = (*Session)(nil)

// Session is an in-process Host. It is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	stage    *stage.Stage // nil when no stage is loaded
	kernel   kernel.Kernel
	timeline Timeline
	cameras  map[uuid.UUID]*Camera
}

// NewSession wraps a loaded stage. Bounds are computed with k.
func NewSession(st *stage.Stage, k kernel.Kernel, tl Timeline) *Session {
	return &Session{
		stage:    st,
		kernel:   k,
		timeline: tl,
		cameras:  make(map[uuid.UUID]*Camera),
	}
}

// NewEmptySession models a host with no stage loaded.
func NewEmptySession(tl Timeline) *Session {
	return NewSession(nil, nil, tl)
}

// Stage returns the loaded stage, or nil.
func (s *Session) Stage() *stage.Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

// SetPlaying starts or stops the timeline.
func (s *Session) SetPlaying(playing bool) {
	s.mu.Lock()
	s.timeline.Playing = playing
	s.mu.Unlock()
}

// Timeline returns a copy of the playback state.
func (s *Session) Timeline() Timeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline
}

func (s *Session) WorldBoundingBox(path string) (geom.BoundingBox, error) {
	p, err := stage.ParsePath(path)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("%w: %v", ErrPrimNotFound, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stage == nil {
		return geom.BoundingBox{}, fmt.Errorf("bounds of %s: %w", p, ErrNoStage)
	}
	return bounds.World(s.stage, s.kernel, p)
}

func (s *Session) CreateCamera(spec CameraSpec) (*Camera, error) {
	p, err := stage.ParsePath(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("create camera: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("create camera %s: resolution must be positive, got %dx%d", p, spec.Width, spec.Height)
	}
	if !(spec.FrameRate > 0) {
		return nil, fmt.Errorf("create camera %s: frame rate must be > 0, got %v", p, spec.FrameRate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage == nil {
		return nil, fmt.Errorf("create camera %s: %w", p, ErrNoStage)
	}
	if existing := s.stage.Get(p); existing != nil && existing.Kind != stage.KindCamera {
		return nil, fmt.Errorf("create camera %s: prim exists with kind %s", p, existing.Kind)
	}

	pose := geom.IdentityPose()
	pose.Position = spec.Position
	data := stage.CameraData{
		Width:     spec.Width,
		Height:    spec.Height,
		FrameRate: spec.FrameRate,
		Pose:      pose,
	}
	if _, err := s.stage.Define(p, data, stage.Xform{}); err != nil {
		return nil, fmt.Errorf("create camera: %w", err)
	}

	cam := &Camera{
		ID:        uuid.New(),
		Path:      p.String(),
		Width:     spec.Width,
		Height:    spec.Height,
		FrameRate: spec.FrameRate,
	}
	s.cameras[cam.ID] = cam
	return cam, nil
}

// cameraData returns the stage prim behind cam. Callers hold s.mu.
func (s *Session) cameraData(cam *Camera) (*stage.Prim, stage.CameraData, error) {
	if cam == nil || s.cameras[cam.ID] == nil {
		return nil, stage.CameraData{}, ErrUnknownCamera
	}
	if s.stage == nil {
		return nil, stage.CameraData{}, ErrNoStage
	}
	prim := s.stage.Lookup(cam.Path)
	if prim == nil {
		return nil, stage.CameraData{}, fmt.Errorf("camera %s: %w", cam.Path, ErrPrimNotFound)
	}
	d, ok := prim.Data.(stage.CameraData)
	if !ok {
		return nil, stage.CameraData{}, fmt.Errorf("camera %s: prim is a %s", cam.Path, prim.Kind)
	}
	return prim, d, nil
}

func (s *Session) SetCameraPose(cam *Camera, pose geom.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prim, d, err := s.cameraData(cam)
	if err != nil {
		return fmt.Errorf("set camera pose: %w", err)
	}
	d.Pose = pose
	prim.Data = d
	return nil
}

func (s *Session) CameraPose(cam *Camera) (geom.Pose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, d, err := s.cameraData(cam)
	if err != nil {
		return geom.Pose{}, fmt.Errorf("camera pose: %w", err)
	}
	return d.Pose, nil
}

func (s *Session) StageURL() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stage == nil {
		return "", false
	}
	return s.stage.URL, true
}

func (s *Session) TimelinePlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.Playing
}

// PrimExists accepts absolute or relative paths. Malformed paths and a
// missing stage report false.
func (s *Session) PrimExists(path string) bool {
	p, err := stage.ParsePath(path)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage != nil && s.stage.Exists(p)
}
