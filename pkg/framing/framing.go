// Package framing computes a camera pose that frames an object from its
// axis-aligned bounding box. Everything here is a pure function of its
// inputs; nothing touches a stage or a host.
package framing

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultMinDistance keeps the camera off degenerate (near-zero size) objects.
	DefaultMinDistance = 0.5
	// DefaultDistanceMultiplier is applied to the object's largest dimension.
	DefaultDistanceMultiplier = 3.0
	// DefaultVerticalOffsetRatio scales the distance to get the height offset.
	// 0.5 gives a moderate downward angle rather than a 45 degree elevation.
	DefaultVerticalOffsetRatio = 0.5
)

// DefaultUp is +Z.
var DefaultUp = mgl64.Vec3{0, 0, 1}

var (
	ErrInvalidBounds  = errors.New("framing: invalid bounding box")
	ErrInvalidOptions = errors.New("framing: invalid options")
	ErrDegenerateView = errors.New("framing: camera position equals target")
)

// Options tunes the framing heuristic.
type Options struct {
	Up                  mgl64.Vec3
	MinDistance         float64
	DistanceMultiplier  float64
	VerticalOffsetRatio float64
	Axes                Axes
}

// DefaultOptions returns +Z up, a 0.5 minimum distance, a 3x multiplier,
// half-height vertical offset and the world camera convention.
func DefaultOptions() Options {
	return Options{
		Up:                  DefaultUp,
		MinDistance:         DefaultMinDistance,
		DistanceMultiplier:  DefaultDistanceMultiplier,
		VerticalOffsetRatio: DefaultVerticalOffsetRatio,
		Axes:                AxesWorld,
	}
}

func (o Options) validate() error {
	if !finite(o.MinDistance) || o.MinDistance <= 0 {
		return fmt.Errorf("%w: min distance must be > 0, got %v", ErrInvalidOptions, o.MinDistance)
	}
	if !finite(o.DistanceMultiplier) || o.DistanceMultiplier < 0 {
		return fmt.Errorf("%w: distance multiplier must be >= 0, got %v", ErrInvalidOptions, o.DistanceMultiplier)
	}
	if !finite(o.VerticalOffsetRatio) {
		return fmt.Errorf("%w: vertical offset ratio must be finite", ErrInvalidOptions)
	}
	if o.Up.Len() < epsilon {
		return fmt.Errorf("%w: up vector is zero", ErrInvalidOptions)
	}
	return nil
}

// Distance returns max(maxDim*multiplier, minDistance).
func Distance(maxDim, multiplier, minDistance float64) float64 {
	return math.Max(maxDim*multiplier, minDistance)
}

// Offset returns the camera offset from the box center for a given distance:
// (d, d, d*ratio) in world coordinates.
func Offset(distance, verticalRatio float64) mgl64.Vec3 {
	return mgl64.Vec3{distance, distance, distance * verticalRatio}
}

// ComputePose places the camera diagonally above and to the side of the box
// and orients it toward the box center.
func ComputePose(bb geom.BoundingBox, opts Options) (geom.Pose, error) {
	if err := bb.Validate(); err != nil {
		return geom.Pose{}, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}
	if err := opts.validate(); err != nil {
		return geom.Pose{}, err
	}

	distance := Distance(bb.MaxDim(), opts.DistanceMultiplier, opts.MinDistance)
	offset := Offset(distance, opts.VerticalOffsetRatio)
	position := bb.Center.Add(offset)
	if !finite(distance) || !finite(offset.Len()) || !finiteVec(position) {
		return geom.Pose{}, fmt.Errorf("%w: camera distance overflows for size %v", ErrInvalidBounds, bb.Size)
	}

	orientation, err := LookAt(position, bb.Center, opts.Up, opts.Axes)
	if err != nil {
		return geom.Pose{}, err
	}
	if !finite(orientation.W) || !finiteVec(orientation.V) {
		return geom.Pose{}, fmt.Errorf("%w: no finite orientation for size %v", ErrInvalidBounds, bb.Size)
	}
	return geom.Pose{Position: position, Orientation: orientation}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
