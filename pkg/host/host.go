// Package host is the simulation-host boundary. The framing and
// verification workflows only talk to the Host interface; Session is the
// in-process implementation backed by a stage and a geometry kernel.
package host

import (
	"errors"

	"github.com/chazu/viewfinder/pkg/bounds"
	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var (
	// ErrPrimNotFound is returned by WorldBoundingBox when the path is absent.
	ErrPrimNotFound = bounds.ErrPrimNotFound
	// ErrNoGeometry is returned by WorldBoundingBox when the prim has nothing
	// to measure.
	ErrNoGeometry = bounds.ErrNoGeometry
	// ErrNoStage is returned by operations that need a loaded stage.
	ErrNoStage = errors.New("no stage loaded")
	// ErrUnknownCamera is returned for handles the host did not create.
	ErrUnknownCamera = errors.New("unknown camera")
)

// Host is everything the camera workflows need from the simulation host.
type Host interface {
	// WorldBoundingBox returns the world-space bounds of the prim at path.
	WorldBoundingBox(path string) (geom.BoundingBox, error)
	// CreateCamera defines a camera prim and returns its handle.
	CreateCamera(spec CameraSpec) (*Camera, error)
	SetCameraPose(cam *Camera, pose geom.Pose) error
	CameraPose(cam *Camera) (geom.Pose, error)
	// StageURL returns the location of the loaded stage. ok is false when
	// no stage is loaded.
	StageURL() (url string, ok bool)
	TimelinePlaying() bool
	PrimExists(path string) bool
}

// CameraSpec describes a camera to create.
type CameraSpec struct {
	Path      string
	Position  mgl64.Vec3
	Width     int
	Height    int
	FrameRate float64
}

// Camera is a handle to a camera created by a Host.
type Camera struct {
	ID        uuid.UUID
	Path      string
	Width     int
	Height    int
	FrameRate float64
}

// Timeline is the host's playback state.
type Timeline struct {
	Playing bool
	FPS     float64
}
