package stage

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ValidationSeverity indicates whether a finding makes the stage unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // stage is unusable
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     Path // offending prim ("" for stage-level findings)
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] prim %s: %s", e.Severity, e.Path, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate runs the structural and geometric checks and returns every
// finding. It never mutates the stage.
func Validate(s *Stage) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateHierarchy(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateGeometry(s)...)
	errs = append(errs, validateMeta(s)...)
	return errs
}

// validateHierarchy checks that parent and child links agree in both
// directions and that no prim lists a child twice.
func validateHierarchy(s *Stage) []ValidationError {
	var errs []ValidationError
	for p, prim := range s.Prims {
		if prim.Path != p {
			errs = append(errs, ValidationError{
				Path:     p,
				Message:  fmt.Sprintf("stored under %s but records path %s", p, prim.Path),
				Severity: SeverityError,
			})
		}
		if prim.Data != nil && prim.Data.Kind() != prim.Kind {
			errs = append(errs, ValidationError{
				Path:     p,
				Message:  fmt.Sprintf("kind %s does not match %s data", prim.Kind, prim.Data.Kind()),
				Severity: SeverityError,
			})
		}

		parent := p.Parent()
		if !parent.IsRoot() {
			pp, ok := s.Prims[parent]
			if !ok {
				errs = append(errs, ValidationError{
					Path:     p,
					Message:  fmt.Sprintf("parent %s does not exist", parent),
					Severity: SeverityError,
				})
			} else if !containsPath(pp.Children, p) {
				errs = append(errs, ValidationError{
					Path:     p,
					Message:  fmt.Sprintf("parent %s does not list it as a child", parent),
					Severity: SeverityError,
				})
			}
		}

		seen := make(map[Path]bool, len(prim.Children))
		for _, c := range prim.Children {
			if seen[c] {
				errs = append(errs, ValidationError{
					Path:     p,
					Message:  fmt.Sprintf("child %s listed more than once", c),
					Severity: SeverityError,
				})
			}
			seen[c] = true
			if _, ok := s.Prims[c]; !ok {
				errs = append(errs, ValidationError{
					Path:     p,
					Message:  fmt.Sprintf("child reference %s does not exist", c),
					Severity: SeverityError,
				})
			} else if c.Parent() != p {
				errs = append(errs, ValidationError{
					Path:     p,
					Message:  fmt.Sprintf("child %s belongs to %s", c, c.Parent()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateRoots checks that the root list and the set of top-level prims
// are the same.
func validateRoots(s *Stage) []ValidationError {
	var errs []ValidationError
	listed := make(map[Path]bool, len(s.Roots))
	for _, r := range s.Roots {
		if listed[r] {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root %s listed more than once", r),
				Severity: SeverityError,
			})
		}
		listed[r] = true
		if _, ok := s.Prims[r]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", r),
				Severity: SeverityError,
			})
		} else if !r.Parent().IsRoot() {
			errs = append(errs, ValidationError{
				Path:     r,
				Message:  "listed as a root but is not top-level",
				Severity: SeverityError,
			})
		}
	}
	for p := range s.Prims {
		if p.Parent().IsRoot() && !listed[p] {
			errs = append(errs, ValidationError{
				Path:     p,
				Message:  "top-level prim missing from roots (unreachable)",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func validateGeometry(s *Stage) []ValidationError {
	var errs []ValidationError
	bad := func(p Path, format string, args ...any) {
		errs = append(errs, ValidationError{Path: p, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
	}
	for p, prim := range s.Prims {
		switch d := prim.Data.(type) {
		case CubeData:
			for i, v := range d.Size {
				if v < 0 || math.IsNaN(v) {
					bad(p, "cube size[%d] must be >= 0, got %v", i, v)
				}
			}
			if d.Size == (mgl64.Vec3{}) {
				errs = append(errs, ValidationError{Path: p, Message: "cube has zero size", Severity: SeverityWarning})
			}
		case SphereData:
			if !(d.Radius > 0) {
				bad(p, "sphere radius must be > 0, got %v", d.Radius)
			}
		case CylinderData:
			if !(d.Radius > 0) {
				bad(p, "cylinder radius must be > 0, got %v", d.Radius)
			}
			if !(d.Height > 0) {
				bad(p, "cylinder height must be > 0, got %v", d.Height)
			}
		case PlaneData:
			if d.Width < 0 || d.Length < 0 {
				bad(p, "plane extent must be >= 0, got %vx%v", d.Width, d.Length)
			}
		case CameraData:
			if d.Width <= 0 || d.Height <= 0 {
				bad(p, "camera resolution must be positive, got %dx%d", d.Width, d.Height)
			}
		}
	}
	return errs
}

func validateMeta(s *Stage) []ValidationError {
	var errs []ValidationError
	if !(s.Meta.MetersPerUnit > 0) {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("meters per unit must be > 0, got %v", s.Meta.MetersPerUnit),
			Severity: SeverityError,
		})
	}
	if s.Meta.TimeCodesPerSecond <= 0 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("time codes per second is %v", s.Meta.TimeCodesPerSecond),
			Severity: SeverityWarning,
		})
	}
	return errs
}

func containsPath(list []Path, p Path) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
