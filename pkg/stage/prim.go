package stage

import (
	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// PrimKind enumerates the prim types a stage can hold.
type PrimKind int

const (
	KindXform    PrimKind = iota // transform-only grouping
	KindCube                     // axis-aligned box gprim
	KindSphere                   // sphere gprim
	KindCylinder                 // Z-aligned cylinder gprim
	KindPlane                    // zero-thickness ground plane in XY
	KindCamera                   // render camera, no geometry
)

func (k PrimKind) String() string {
	switch k {
	case KindXform:
		return "Xform"
	case KindCube:
		return "Cube"
	case KindSphere:
		return "Sphere"
	case KindCylinder:
		return "Cylinder"
	case KindPlane:
		return "Plane"
	case KindCamera:
		return "Camera"
	default:
		return "unknown"
	}
}

// IsGeometry reports whether prims of this kind contribute to bounds.
func (k PrimKind) IsGeometry() bool {
	switch k {
	case KindCube, KindSphere, KindCylinder, KindPlane:
		return true
	}
	return false
}

// Xform is a prim's local transform: rotation (Euler XYZ, degrees) applied
// first, then translation.
type Xform struct {
	Translation mgl64.Vec3 `json:"translation"`
	Rotation    mgl64.Vec3 `json:"rotation"`
}

// IsIdentity reports whether the transform is a no-op.
func (x Xform) IsIdentity() bool {
	return x.Translation == (mgl64.Vec3{}) && x.Rotation == (mgl64.Vec3{})
}

// Prim is a single node of the stage.
type Prim struct {
	Path     Path     `json:"path"`
	Kind     PrimKind `json:"kind"`
	Children []Path   `json:"children,omitempty"`
	Xform    Xform    `json:"xform"`
	Data     PrimData `json:"data"`
}

// PrimData is the kind-specific payload of a prim.
type PrimData interface {
	Kind() PrimKind
}

// XformData carries nothing; the prim only groups and transforms children.
type XformData struct{}

func (XformData) Kind() PrimKind { return KindXform }

// CubeData is a box of the given size centered on the prim origin.
type CubeData struct {
	Size mgl64.Vec3 `json:"size"`
}

func (CubeData) Kind() PrimKind { return KindCube }

// SphereData is a sphere centered on the prim origin.
type SphereData struct {
	Radius float64 `json:"radius"`
}

func (SphereData) Kind() PrimKind { return KindSphere }

// CylinderData is a Z-aligned cylinder centered on the prim origin.
type CylinderData struct {
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
}

func (CylinderData) Kind() PrimKind { return KindCylinder }

// PlaneData is a flat rectangle in the prim's XY plane.
type PlaneData struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

func (PlaneData) Kind() PrimKind { return KindPlane }

// CameraData describes a render camera. Pose is the camera's world pose and
// ignores the prim's Xform.
type CameraData struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	FrameRate float64   `json:"frame_rate"`
	Pose      geom.Pose `json:"pose"`
}

func (CameraData) Kind() PrimKind { return KindCamera }
