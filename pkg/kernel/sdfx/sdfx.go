// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/viewfinder/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// flatThickness stands in for a zero box dimension, which sdf.Box3D rejects.
const flatThickness = 1e-9

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid. bb is carried
// alongside the SDF so flat boxes report a zero extent on their flat axis.
type sdfxSolid struct {
	s  sdf.SDF3
	bb sdf.Box3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.bb
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying solid from a kernel.Solid.
func unwrap(s kernel.Solid) *sdfxSolid {
	return s.(*sdfxSolid)
}

// wrap creates a kernel.Solid from an sdf.SDF3, taking its bounds as is.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s, bb: s.BoundingBox()}
}

// transform applies m to both the SDF and the tracked bounds.
func transform(s kernel.Solid, m sdf.M44) kernel.Solid {
	in := unwrap(s)
	return &sdfxSolid{s: sdf.Transform3D(in.s, m), bb: m.MulBox(in.bb)}
}

// Box creates a box centered on the origin. A zero dimension yields a flat
// box, which is how ground planes are represented.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x < 0 || y < 0 || z < 0 {
		return nil, fmt.Errorf("sdfx: box size must be >= 0, got %gx%gx%g", x, y, z)
	}
	size := v3.Vec{X: x, Y: y, Z: z}
	s, err := sdf.Box3D(size.Max(v3.Vec{X: flatThickness, Y: flatThickness, Z: flatThickness}), 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box %gx%gx%g: %w", x, y, z, err)
	}
	return &sdfxSolid{s: s, bb: sdf.NewBox3(v3.Vec{}, size)}, nil
}

// Sphere creates a sphere centered on the origin.
func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("sdfx: sphere radius must be > 0, got %g", radius)
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere r=%g: %w", radius, err)
	}
	return wrap(s), nil
}

// Cylinder creates a Z-aligned cylinder centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if !(height > 0) || !(radius > 0) {
		return nil, fmt.Errorf("sdfx: cylinder needs positive height and radius, got h=%g r=%g", height, radius)
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder h=%g r=%g: %w", height, radius, err)
	}
	return wrap(s), nil
}

// Union returns the union of the given solids, or nil when there are none.
func (k *SdfxKernel) Union(solids ...kernel.Solid) kernel.Solid {
	switch len(solids) {
	case 0:
		return nil
	case 1:
		return solids[0]
	}
	parts := make([]sdf.SDF3, len(solids))
	bb := unwrap(solids[0]).bb
	for i, s := range solids {
		in := unwrap(s)
		parts[i] = in.s
		bb = bb.Extend(in.bb)
	}
	return &sdfxSolid{s: sdf.Union3D(parts...), bb: bb}
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(s, sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles (degrees), X first, then Y, then Z.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return transform(s, m)
}
