package bounds_test

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/viewfinder/pkg/bounds"
	"github.com/chazu/viewfinder/pkg/geom"
	"github.com/chazu/viewfinder/pkg/kernel"
	"github.com/chazu/viewfinder/pkg/kernel/sdfx"
	"github.com/chazu/viewfinder/pkg/stage"
	"github.com/go-gl/mathgl/mgl64"
)

// newKernel returns a fresh sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New()
}

func define(t *testing.T, st *stage.Stage, p string, data stage.PrimData, xf stage.Xform) {
	t.Helper()
	if _, err := st.Define(stage.MustPath(p), data, xf); err != nil {
		t.Fatalf("Define(%s): %v", p, err)
	}
}

func assertBox(t *testing.T, got geom.BoundingBox, center, size mgl64.Vec3) {
	t.Helper()
	const tol = 1e-6
	for i := 0; i < 3; i++ {
		if math.Abs(got.Center[i]-center[i]) > tol {
			t.Errorf("center[%d] = %f, expected %f", i, got.Center[i], center[i])
		}
		if math.Abs(got.Size[i]-size[i]) > tol {
			t.Errorf("size[%d] = %f, expected %f", i, got.Size[i], size[i])
		}
	}
}

func TestSingleCube(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/clean_object", stage.CubeData{Size: mgl64.Vec3{1, 1, 1}}, stage.Xform{})

	bb, err := bounds.World(st, newKernel(), "/World/clean_object")
	if err != nil {
		t.Fatalf("World failed: %v", err)
	}
	assertBox(t, bb, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
}

func TestTranslatedCube(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/clean_object", stage.CubeData{Size: mgl64.Vec3{2, 4, 6}},
		stage.Xform{Translation: mgl64.Vec3{10, 0, 3}})

	bb, err := bounds.World(st, newKernel(), "/World/clean_object")
	if err != nil {
		t.Fatalf("World failed: %v", err)
	}
	assertBox(t, bb, mgl64.Vec3{10, 0, 3}, mgl64.Vec3{2, 4, 6})
}

func TestAncestorTransforms(t *testing.T) {
	st := stage.New()
	define(t, st, "/World", stage.XformData{}, stage.Xform{Translation: mgl64.Vec3{0, 0, 1}})
	// Rotating the rig 90 degrees about Z maps the child's +X offset onto +Y.
	define(t, st, "/World/rig", stage.XformData{}, stage.Xform{Rotation: mgl64.Vec3{0, 0, 90}})
	define(t, st, "/World/rig/part", stage.CubeData{Size: mgl64.Vec3{4, 2, 2}},
		stage.Xform{Translation: mgl64.Vec3{5, 0, 0}})

	bb, err := bounds.World(st, newKernel(), "/World/rig/part")
	if err != nil {
		t.Fatalf("World failed: %v", err)
	}
	assertBox(t, bb, mgl64.Vec3{0, 5, 1}, mgl64.Vec3{2, 4, 2})
}

func TestSubtreeUnion(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/object", stage.XformData{}, stage.Xform{Translation: mgl64.Vec3{1, 1, 1}})
	define(t, st, "/World/object/shell", stage.SphereData{Radius: 1}, stage.Xform{})
	define(t, st, "/World/object/foot", stage.CylinderData{Height: 2, Radius: 0.5},
		stage.Xform{Translation: mgl64.Vec3{0, 0, -2}})

	bb, err := bounds.World(st, newKernel(), "/World/object")
	if err != nil {
		t.Fatalf("World failed: %v", err)
	}
	// Sphere spans z in [-1, 1]; cylinder spans z in [-3, -1]; lifted by 1.
	assertBox(t, bb, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{2, 2, 4})
}

func TestGroundPlaneIsFlat(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/GroundPlane", stage.PlaneData{Width: 20, Length: 10}, stage.Xform{})

	bb, err := bounds.World(st, newKernel(), "/World/GroundPlane")
	if err != nil {
		t.Fatalf("World failed: %v", err)
	}
	assertBox(t, bb, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{20, 10, 0})
}

func TestWorldWithGroundPlane(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/GroundPlane", stage.PlaneData{Width: 10, Length: 10}, stage.Xform{})
	define(t, st, "/World/cube", stage.CubeData{Size: mgl64.Vec3{2, 2, 2}},
		stage.Xform{Translation: mgl64.Vec3{0, 0, 1}})

	bb, err := bounds.World(st, newKernel(), "/World")
	if err != nil {
		t.Fatalf("World failed: %v", err)
	}
	assertBox(t, bb, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{10, 10, 2})
}

func TestCameraIgnored(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/cube", stage.CubeData{Size: mgl64.Vec3{2, 2, 2}}, stage.Xform{})
	define(t, st, "/World/RenderCamera", stage.CameraData{Width: 1920, Height: 1080},
		stage.Xform{Translation: mgl64.Vec3{100, 100, 100}})

	bb, err := bounds.World(st, newKernel(), "/World")
	if err != nil {
		t.Fatalf("World failed: %v", err)
	}
	assertBox(t, bb, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2})
}

func TestErrors(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/empty", stage.XformData{}, stage.Xform{})
	define(t, st, "/World/RenderCamera", stage.CameraData{Width: 1, Height: 1}, stage.Xform{})
	define(t, st, "/World/broken", stage.SphereData{Radius: -1}, stage.Xform{})

	tests := []struct {
		name    string
		st      *stage.Stage
		path    stage.Path
		wantErr error
	}{
		{"missing", st, "/World/clean_object", bounds.ErrPrimNotFound},
		{"nil stage", nil, "/World", bounds.ErrPrimNotFound},
		{"empty xform", st, "/World/empty", bounds.ErrNoGeometry},
		{"camera", st, "/World/RenderCamera", bounds.ErrNoGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bounds.World(tt.st, newKernel(), tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("World(%s) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}

	t.Run("invalid geometry", func(t *testing.T) {
		_, err := bounds.World(st, newKernel(), "/World/broken")
		if err == nil {
			t.Fatal("expected error for negative sphere radius")
		}
		if errors.Is(err, bounds.ErrNoGeometry) || errors.Is(err, bounds.ErrPrimNotFound) {
			t.Errorf("kernel failure should not look like a lookup miss: %v", err)
		}
	})
}

func TestWorldDoesNotMutate(t *testing.T) {
	st := stage.New()
	define(t, st, "/World/cube", stage.CubeData{Size: mgl64.Vec3{1, 1, 1}},
		stage.Xform{Translation: mgl64.Vec3{1, 2, 3}})
	before := st.PrimCount()

	if _, err := bounds.World(st, newKernel(), "/World"); err != nil {
		t.Fatalf("World failed: %v", err)
	}
	if st.PrimCount() != before {
		t.Errorf("prim count changed: %d -> %d", before, st.PrimCount())
	}
	if st.Get("/World/cube").Xform.Translation != (mgl64.Vec3{1, 2, 3}) {
		t.Error("transform mutated")
	}
}
