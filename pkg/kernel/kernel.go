// Package kernel defines the abstract geometry kernel interface.
// Stage geometry is turned into kernel solids so world-space bounds can be
// computed without caring how a backend represents shapes.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. Primitives are
// centered on the origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error) // a zero extent on one axis is a plane
	Sphere(radius float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error) // axis along Z

	// Boolean operations
	Union(solids ...Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
}

// Extent returns the size of a solid's bounding box along each axis.
func Extent(s Solid) [3]float64 {
	min, max := s.BoundingBox()
	return [3]float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
}
