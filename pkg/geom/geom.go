// Package geom holds the small value types shared by the framing math, the
// world-bounds walker, and the host: axis-aligned bounding boxes and camera
// poses.
package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is an axis-aligned box described by its center and size.
// Size components are never negative.
type BoundingBox struct {
	Center mgl64.Vec3 `toml:"center" json:"center"`
	Size   mgl64.Vec3 `toml:"size" json:"size"`
}

// FromMinMax builds a box from two opposite corners. The corners may be
// given in any order.
func FromMinMax(min, max [3]float64) BoundingBox {
	var bb BoundingBox
	for i := 0; i < 3; i++ {
		lo, hi := min[i], max[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		bb.Center[i] = (lo + hi) / 2
		bb.Size[i] = hi - lo
	}
	return bb
}

// Min returns the minimum corner.
func (b BoundingBox) Min() mgl64.Vec3 {
	return b.Center.Sub(b.Size.Mul(0.5))
}

// Max returns the maximum corner.
func (b BoundingBox) Max() mgl64.Vec3 {
	return b.Center.Add(b.Size.Mul(0.5))
}

// MaxDim returns the largest of the three size components.
func (b BoundingBox) MaxDim() float64 {
	return math.Max(b.Size[0], math.Max(b.Size[1], b.Size[2]))
}

// IsEmpty reports whether the box encloses no volume, area, or length.
func (b BoundingBox) IsEmpty() bool {
	return b.Size[0] == 0 && b.Size[1] == 0 && b.Size[2] == 0
}

// Union returns the smallest box enclosing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	var lo, hi [3]float64
	for i := 0; i < 3; i++ {
		lo[i] = math.Min(bmin[i], omin[i])
		hi[i] = math.Max(bmax[i], omax[i])
	}
	return FromMinMax(lo, hi)
}

// Validate rejects boxes with negative or non-finite components.
func (b BoundingBox) Validate() error {
	for i := 0; i < 3; i++ {
		if math.IsNaN(b.Center[i]) || math.IsInf(b.Center[i], 0) {
			return fmt.Errorf("center[%d] is not finite: %v", i, b.Center[i])
		}
		if math.IsNaN(b.Size[i]) || math.IsInf(b.Size[i], 0) {
			return fmt.Errorf("size[%d] is not finite: %v", i, b.Size[i])
		}
		if b.Size[i] < 0 {
			return fmt.Errorf("size[%d] is negative: %v", i, b.Size[i])
		}
	}
	return nil
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("center=%s size=%s", FormatVec(b.Center), FormatVec(b.Size))
}

// Pose is a world-space position plus a unit-quaternion orientation.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// IdentityPose returns a pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// WXYZ returns the orientation as (w, x, y, z), the order the host APIs use.
func (p Pose) WXYZ() [4]float64 {
	q := p.Orientation
	return [4]float64{q.W, q.V[0], q.V[1], q.V[2]}
}

func (p Pose) String() string {
	q := p.WXYZ()
	return fmt.Sprintf("position=%s orientation(wxyz)=(%.4f, %.4f, %.4f, %.4f)",
		FormatVec(p.Position), q[0], q[1], q[2], q[3])
}

// FormatVec renders a vector as "(x, y, z)" with four decimals.
func FormatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v[0], v[1], v[2])
}
