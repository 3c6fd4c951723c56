package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/chazu/viewfinder/pkg/stage"
	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Defaults follow the USD schema fallbacks for the matching gprims.
const (
	defaultCubeSize       = 2.0
	defaultSphereRadius   = 1.0
	defaultCylinderHeight = 2.0
	defaultCylinderRadius = 1.0
	defaultPlaneSize      = 100.0

	defaultCameraWidth  = 1920
	defaultCameraHeight = 1080
	defaultCameraFPS    = 30.0
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPrimRef names a prim defined on the stage under construction.
type sexpPrimRef struct {
	path stage.Path
}

func (p *sexpPrimRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(prim %q)", string(p.path))
}
func (p *sexpPrimRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an mgl64.Vec3.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// float reads an optional numeric keyword, leaving *dst untouched when absent.
func (a kwArgs) float(name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// vec reads an optional vec3 keyword.
func (a kwArgs) vec(name string, dst *mgl64.Vec3) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = vec
	return nil
}

// xform reads the :at and :rotate keywords shared by every prim builtin.
func (a kwArgs) xform() (stage.Xform, error) {
	var xf stage.Xform
	if err := a.vec("at", &xf.Translation); err != nil {
		return xf, err
	}
	if err := a.vec("rotate", &xf.Rotation); err != nil {
		return xf, err
	}
	return xf, nil
}

// path reads the leading positional prim path.
func (a kwArgs) path() (stage.Path, error) {
	if len(a.positional) < 1 {
		return "", fmt.Errorf("requires a prim path as first argument")
	}
	switch v := a.positional[0].(type) {
	case *sexpPrimRef:
		return v.path, nil
	case *zygo.SexpStr:
		return stage.ParsePath(v.S)
	}
	return "", fmt.Errorf("expected prim path, got %T (%s)", a.positional[0], a.positional[0].SexpString(nil))
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3. A bare number n is accepted as
// (vec3 n n n).
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	if f, err := toFloat64(s); err == nil {
		return mgl64.Vec3{f, f, f}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// The builtins define prims on st as the script runs.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the snake_case registrations below.
func registerBuiltins(env *zygo.Zlisp, st *stage.Stage) {

	// definePrim wires the common path + :at/:rotate handling around a
	// data constructor.
	definePrim := func(builtin string, build func(kwArgs) (stage.PrimData, error)) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			p, err := pa.path()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			data, err := build(pa)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %s: %w", builtin, p, err)
			}
			xf, err := pa.xform()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %s: %w", builtin, p, err)
			}
			if _, err := st.Define(p, data, xf); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			return &sexpPrimRef{path: p}, nil
		}
	}

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v mgl64.Vec3
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// (xform "/World" :at (vec3 0 0 1) :rotate (vec3 0 0 90))
	env.AddFunction("xform", definePrim("xform", func(kwArgs) (stage.PrimData, error) {
		return stage.XformData{}, nil
	}))

	// (cube "/World/clean_object" :size (vec3 1 1 1) :at (vec3 0 0 0.5))
	env.AddFunction("cube", definePrim("cube", func(pa kwArgs) (stage.PrimData, error) {
		d := stage.CubeData{Size: mgl64.Vec3{defaultCubeSize, defaultCubeSize, defaultCubeSize}}
		if err := pa.vec("size", &d.Size); err != nil {
			return nil, err
		}
		return d, nil
	}))

	// (sphere "/World/ball" :radius 0.5)
	env.AddFunction("sphere", definePrim("sphere", func(pa kwArgs) (stage.PrimData, error) {
		d := stage.SphereData{Radius: defaultSphereRadius}
		if err := pa.float("radius", &d.Radius); err != nil {
			return nil, err
		}
		return d, nil
	}))

	// (cylinder "/World/post" :height 2 :radius 0.1)
	env.AddFunction("cylinder", definePrim("cylinder", func(pa kwArgs) (stage.PrimData, error) {
		d := stage.CylinderData{Height: defaultCylinderHeight, Radius: defaultCylinderRadius}
		if err := pa.float("height", &d.Height); err != nil {
			return nil, err
		}
		if err := pa.float("radius", &d.Radius); err != nil {
			return nil, err
		}
		return d, nil
	}))

	// (ground-plane "/World/GroundPlane" :size 10)
	// (ground-plane "/World/GroundPlane" :width 20 :length 10)
	env.AddFunction("ground_plane", definePrim("ground-plane", func(pa kwArgs) (stage.PrimData, error) {
		d := stage.PlaneData{Width: defaultPlaneSize, Length: defaultPlaneSize}
		var size float64
		if _, ok := pa.kw["size"]; ok {
			if err := pa.float("size", &size); err != nil {
				return nil, err
			}
			d.Width, d.Length = size, size
		}
		if err := pa.float("width", &d.Width); err != nil {
			return nil, err
		}
		if err := pa.float("length", &d.Length); err != nil {
			return nil, err
		}
		return d, nil
	}))

	// (camera "/World/Overview" :at (vec3 5 5 5) :width 1280 :height 720 :fps 24)
	env.AddFunction("camera", definePrim("camera", func(pa kwArgs) (stage.PrimData, error) {
		d := stage.CameraData{
			Width:     defaultCameraWidth,
			Height:    defaultCameraHeight,
			FrameRate: defaultCameraFPS,
			Pose:      geom.IdentityPose(),
		}
		w, h := float64(d.Width), float64(d.Height)
		if err := pa.float("width", &w); err != nil {
			return nil, err
		}
		if err := pa.float("height", &h); err != nil {
			return nil, err
		}
		if err := pa.float("fps", &d.FrameRate); err != nil {
			return nil, err
		}
		d.Width, d.Height = int(w), int(h)
		if err := pa.vec("at", &d.Pose.Position); err != nil {
			return nil, err
		}
		return d, nil
	}))

	// (prim "/World/clean_object")
	env.AddFunction("prim", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		p, err := parseArgs(args).path()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prim: %w", err)
		}
		if !st.Exists(p) {
			return zygo.SexpNull, fmt.Errorf("prim: no prim at %s", p)
		}
		return &sexpPrimRef{path: p}, nil
	})

	// (up-axis :z)
	env.AddFunction("up_axis", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("up-axis requires exactly 1 argument, got %d", len(args))
		}
		s, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("up-axis: %w", err)
		}
		a, err := stage.ParseAxis(s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("up-axis: %w", err)
		}
		st.Meta.UpAxis = a
		return zygo.SexpNull, nil
	})

	// (meters-per-unit 0.01)
	env.AddFunction("meters_per_unit", metaFloat("meters-per-unit", &st.Meta.MetersPerUnit))

	// (fps 60)
	env.AddFunction("fps", metaFloat("fps", &st.Meta.TimeCodesPerSecond))
}

// metaFloat builds a one-argument builtin that stores a positive number.
func metaFloat(builtin string, dst *float64) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", builtin, len(args))
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
		}
		if !(f > 0) {
			return zygo.SexpNull, fmt.Errorf("%s must be > 0, got %g", builtin, f)
		}
		*dst = f
		return zygo.SexpNull, nil
	}
}
