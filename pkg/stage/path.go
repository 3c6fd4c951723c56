package stage

import (
	"fmt"
	"strings"
)

// Path is an absolute prim path. The pseudo-root is "/".
type Path string

// RootPath is the pseudo-root every top-level prim hangs off.
const RootPath Path = "/"

// ParsePath normalizes s into an absolute path. A missing leading slash is
// added, so "World/GroundPlane" and "/World/GroundPlane" name the same prim.
// Each segment must be a valid identifier.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("stage: empty prim path")
	}
	if s == "/" {
		return RootPath, nil
	}
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimPrefix(s, "/")
	for _, seg := range strings.Split(s, "/") {
		if !validName(seg) {
			return "", fmt.Errorf("stage: invalid prim path %q: bad segment %q", "/"+s, seg)
		}
	}
	return Path("/" + s), nil
}

// MustPath is ParsePath that panics on error. Intended for constants and tests.
func MustPath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func validName(seg string) bool {
	if seg == "" {
		return false
	}
	for i, c := range seg {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// IsRoot reports whether p is the pseudo-root.
func (p Path) IsRoot() bool {
	return p == RootPath
}

// Parent returns the parent path. The parent of a top-level prim is the
// pseudo-root; the pseudo-root has no parent and returns "".
func (p Path) Parent() Path {
	if p.IsRoot() || p == "" {
		return ""
	}
	i := strings.LastIndexByte(string(p), '/')
	if i <= 0 {
		return RootPath
	}
	return p[:i]
}

// Name returns the last path segment.
func (p Path) Name() string {
	if p.IsRoot() {
		return ""
	}
	return string(p[strings.LastIndexByte(string(p), '/')+1:])
}

// Child appends a segment.
func (p Path) Child(name string) Path {
	if p.IsRoot() {
		return Path("/" + name)
	}
	return Path(string(p) + "/" + name)
}

// Ancestors returns the ancestor paths, nearest first, excluding the
// pseudo-root.
func (p Path) Ancestors() []Path {
	var out []Path
	for a := p.Parent(); a != "" && !a.IsRoot(); a = a.Parent() {
		out = append(out, a)
	}
	return out
}

func (p Path) String() string {
	return string(p)
}
