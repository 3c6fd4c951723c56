package framing

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// Axes names the camera-local frame an orientation is expressed in.
type Axes int

const (
	AxesWorld Axes = iota // forward +X, up +Z
	AxesUSD               // forward -Z, up +Y
	AxesROS               // forward +Z, up -Y
)

func (a Axes) String() string {
	switch a {
	case AxesWorld:
		return "world"
	case AxesUSD:
		return "usd"
	case AxesROS:
		return "ros"
	default:
		return fmt.Sprintf("Axes(%d)", int(a))
	}
}

// ParseAxes accepts "world", "usd" or "ros" (case-insensitive).
func ParseAxes(s string) (Axes, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "world":
		return AxesWorld, nil
	case "usd":
		return AxesUSD, nil
	case "ros":
		return AxesROS, nil
	}
	return 0, fmt.Errorf("%w: unknown camera axes %q", ErrInvalidOptions, s)
}

// Forward is the camera-local viewing direction.
func (a Axes) Forward() mgl64.Vec3 {
	switch a {
	case AxesUSD:
		return mgl64.Vec3{0, 0, -1}
	case AxesROS:
		return mgl64.Vec3{0, 0, 1}
	default:
		return mgl64.Vec3{1, 0, 0}
	}
}

// Up is the camera-local up direction.
func (a Axes) Up() mgl64.Vec3 {
	switch a {
	case AxesUSD:
		return mgl64.Vec3{0, 1, 0}
	case AxesROS:
		return mgl64.Vec3{0, -1, 0}
	default:
		return mgl64.Vec3{0, 0, 1}
	}
}

// LookAt returns the unit quaternion that turns the camera's local forward
// axis toward target and resolves roll with up. When up is parallel to the
// view direction the world axis least aligned with it is used instead.
func LookAt(eye, target, up mgl64.Vec3, axes Axes) (mgl64.Quat, error) {
	dir := target.Sub(eye)
	if dir.Len() < epsilon {
		return mgl64.Quat{}, ErrDegenerateView
	}
	if up.Len() < epsilon {
		return mgl64.Quat{}, fmt.Errorf("%w: up vector is zero", ErrInvalidOptions)
	}

	f := dir.Normalize()
	upHint := up.Normalize()
	side := upHint.Cross(f)
	if side.Len() < epsilon {
		upHint = leastAligned(f)
		side = upHint.Cross(f)
	}
	l := side.Normalize()
	u := f.Cross(l)

	fl, ul := axes.Forward(), axes.Up()
	ll := ul.Cross(fl)

	world := mgl64.Mat3FromCols(f, l, u)
	local := mgl64.Mat3FromCols(fl, ll, ul)
	rot := world.Mul3(local.Transpose())

	q := mgl64.Mat4ToQuat(rot.Mat4()).Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	return q, nil
}

// leastAligned returns the world basis axis with the smallest component
// along v.
func leastAligned(v mgl64.Vec3) mgl64.Vec3 {
	best := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) < math.Abs(v[best]) {
			best = i
		}
	}
	var axis mgl64.Vec3
	axis[best] = 1
	return axis
}
