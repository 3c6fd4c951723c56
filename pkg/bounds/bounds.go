// Package bounds computes world-space bounding boxes of stage prims by
// building kernel solids for a prim subtree and pushing them through the
// transforms of the prim's ancestors.
package bounds

import (
	"errors"
	"fmt"

	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/chazu/viewfinder/pkg/kernel"
	"github.com/chazu/viewfinder/pkg/stage"
)

var (
	// ErrPrimNotFound is returned when the requested path is not defined.
	ErrPrimNotFound = errors.New("prim not found")
	// ErrNoGeometry is returned when the subtree contains no geometry
	// prims, e.g. an empty Xform or a camera.
	ErrNoGeometry = errors.New("prim has no geometry")
)

// World returns the world-space axis-aligned bounding box of the prim at
// path and everything below it. The stage is never mutated.
func World(st *stage.Stage, k kernel.Kernel, path stage.Path) (geom.BoundingBox, error) {
	if st == nil {
		return geom.BoundingBox{}, fmt.Errorf("bounds: %s: %w", path, ErrPrimNotFound)
	}
	prim := st.Get(path)
	if prim == nil {
		return geom.BoundingBox{}, fmt.Errorf("bounds: %s: %w", path, ErrPrimNotFound)
	}

	solid, err := subtree(st, k, prim)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("bounds: %s: %w", path, err)
	}
	if solid == nil {
		return geom.BoundingBox{}, fmt.Errorf("bounds: %s: %w", path, ErrNoGeometry)
	}

	// The prim's own transform, then each ancestor's, nearest first.
	solid = applyXform(k, solid, prim.Xform)
	for _, ap := range path.Ancestors() {
		if a := st.Get(ap); a != nil {
			solid = applyXform(k, solid, a.Xform)
		}
	}

	min, max := solid.BoundingBox()
	return geom.FromMinMax(min, max), nil
}

// subtree builds the solid for prim and its descendants in prim's local
// frame. It returns nil when nothing in the subtree has geometry.
func subtree(st *stage.Stage, k kernel.Kernel, prim *stage.Prim) (kernel.Solid, error) {
	var parts []kernel.Solid

	own, err := primitive(k, prim)
	if err != nil {
		return nil, err
	}
	if own != nil {
		parts = append(parts, own)
	}

	for _, c := range st.Children(prim) {
		// Only follow real descendants so a malformed child list cannot loop.
		if c.Path.Parent() != prim.Path {
			continue
		}
		cs, err := subtree(st, k, c)
		if err != nil {
			return nil, err
		}
		if cs != nil {
			parts = append(parts, applyXform(k, cs, c.Xform))
		}
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return k.Union(parts...), nil
}

// primitive creates the solid for a single geometry prim, or nil for
// non-geometry kinds.
func primitive(k kernel.Kernel, prim *stage.Prim) (kernel.Solid, error) {
	var (
		s   kernel.Solid
		err error
	)
	switch d := prim.Data.(type) {
	case stage.CubeData:
		s, err = k.Box(d.Size[0], d.Size[1], d.Size[2])
	case stage.SphereData:
		s, err = k.Sphere(d.Radius)
	case stage.CylinderData:
		s, err = k.Cylinder(d.Height, d.Radius)
	case stage.PlaneData:
		s, err = k.Box(d.Width, d.Length, 0)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prim %s: %w", prim.Path, err)
	}
	return s, nil
}

// applyXform applies rotation first, then translation.
func applyXform(k kernel.Kernel, s kernel.Solid, xf stage.Xform) kernel.Solid {
	if r := xf.Rotation; r[0] != 0 || r[1] != 0 || r[2] != 0 {
		s = k.Rotate(s, r[0], r[1], r[2])
	}
	if t := xf.Translation; t[0] != 0 || t[1] != 0 || t[2] != 0 {
		s = k.Translate(s, t[0], t[1], t[2])
	}
	return s
}
