package stage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis is a world axis used for stage metadata.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "unknown"
	}
}

// Vec returns the unit vector along a.
func (a Axis) Vec() mgl64.Vec3 {
	var v mgl64.Vec3
	if a >= AxisX && a <= AxisZ {
		v[a] = 1
	}
	return v
}

// ParseAxis accepts x, y or z in either case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", s)
}

// Meta holds stage-wide settings.
type Meta struct {
	UpAxis             Axis    `json:"up_axis"`
	MetersPerUnit      float64 `json:"meters_per_unit"`
	TimeCodesPerSecond float64 `json:"time_codes_per_second"`
}

// DefaultMeta is Z-up, meters, 60 time codes per second.
func DefaultMeta() Meta {
	return Meta{UpAxis: AxisZ, MetersPerUnit: 1, TimeCodesPerSecond: 60}
}

// Stage is the scene graph. It is not safe for concurrent mutation; the
// host session serializes access.
type Stage struct {
	Prims map[Path]*Prim `json:"prims"`
	Roots []Path         `json:"roots"`
	Meta  Meta           `json:"meta"`
	URL   string         `json:"url,omitempty"` // location the stage was loaded from
}

// New creates an empty stage with default metadata.
func New() *Stage {
	return &Stage{
		Prims: make(map[Path]*Prim),
		Meta:  DefaultMeta(),
	}
}

// Define creates the prim at p, or replaces its data and transform if it
// already exists. Existing children are kept. Missing ancestors are defined
// as Xforms.
func (s *Stage) Define(p Path, data PrimData, xf Xform) (*Prim, error) {
	if p == "" || p.IsRoot() {
		return nil, fmt.Errorf("stage: cannot define prim at %q", p)
	}
	if data == nil {
		data = XformData{}
	}

	parent := p.Parent()
	if !parent.IsRoot() && s.Prims[parent] == nil {
		if _, err := s.Define(parent, XformData{}, Xform{}); err != nil {
			return nil, err
		}
	}

	prim, ok := s.Prims[p]
	if ok {
		prim.Kind = data.Kind()
		prim.Data = data
		prim.Xform = xf
		return prim, nil
	}

	prim = &Prim{Path: p, Kind: data.Kind(), Xform: xf, Data: data}
	s.Prims[p] = prim
	if parent.IsRoot() {
		s.Roots = append(s.Roots, p)
	} else {
		pp := s.Prims[parent]
		pp.Children = append(pp.Children, p)
	}
	return prim, nil
}

// Get returns the prim at p, or nil.
func (s *Stage) Get(p Path) *Prim {
	return s.Prims[p]
}

// Lookup parses a path string and returns the prim, or nil if the path is
// malformed or absent.
func (s *Stage) Lookup(path string) *Prim {
	p, err := ParsePath(path)
	if err != nil {
		return nil
	}
	return s.Prims[p]
}

// Exists reports whether a prim is defined at p.
func (s *Stage) Exists(p Path) bool {
	_, ok := s.Prims[p]
	return ok
}

// Children returns the child prims of prim in definition order.
func (s *Stage) Children(prim *Prim) []*Prim {
	children := make([]*Prim, 0, len(prim.Children))
	for _, cp := range prim.Children {
		if c := s.Prims[cp]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// PrimCount returns the number of defined prims.
func (s *Stage) PrimCount() int {
	return len(s.Prims)
}

// Paths returns every prim path in lexical order.
func (s *Stage) Paths() []Path {
	out := make([]Path, 0, len(s.Prims))
	for p := range s.Prims {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Walk visits every prim depth-first, starting from the roots in definition
// order. Returning an error from fn stops the walk.
func (s *Stage) Walk(fn func(*Prim) error) error {
	var visit func(*Prim) error
	visit = func(prim *Prim) error {
		if err := fn(prim); err != nil {
			return err
		}
		for _, c := range s.Children(prim) {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, rp := range s.Roots {
		if r := s.Prims[rp]; r != nil {
			if err := visit(r); err != nil {
				return err
			}
		}
	}
	return nil
}
