// Package workspace resolves where a run's repository and output directory
// live. The repository root is derived from the loaded stage's location:
// scenes are expected under <repo>/scenes/, outputs go to
// <repo>/outputs/<subdir>.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutputSubdir is the directory under <repo>/outputs that rendered
// images are written to.
const DefaultOutputSubdir = "rendered_images"

const scenesMarker = "/scenes/"

// RepoFromStageURL returns the portion of url before the first "/scenes/"
// segment. A leading file: scheme is ignored. ok is false when the URL has
// no scenes segment.
func RepoFromStageURL(url string) (repo string, ok bool) {
	u := strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(u, "file://"):
		u = strings.TrimPrefix(u, "file://")
	case strings.HasPrefix(u, "file:"):
		u = strings.TrimPrefix(u, "file:")
	}
	u = filepath.ToSlash(u)
	i := strings.Index(u, scenesMarker)
	if i < 0 {
		return "", false
	}
	return u[:i], true
}

// OutputDir returns <repo>/outputs/<subdir>. An empty subdir means
// DefaultOutputSubdir.
func OutputDir(repo, subdir string) string {
	if strings.TrimSpace(subdir) == "" {
		subdir = DefaultOutputSubdir
	}
	return filepath.Join(repo, "outputs", subdir)
}

// Layout is the resolved repository and output location for a run.
type Layout struct {
	RepoPath  string
	OutputDir string
	// FromStage is false when the stage URL did not name a repository and
	// the working directory was used instead.
	FromStage bool
}

// Resolve derives the layout from a stage URL, falling back to cwd. The
// caller decides how to report the fallback.
func Resolve(stageURL, cwd, subdir string) Layout {
	repo, ok := RepoFromStageURL(stageURL)
	if !ok {
		repo = cwd
	}
	return Layout{
		RepoPath:  repo,
		OutputDir: OutputDir(repo, subdir),
		FromStage: ok,
	}
}

// Ensure creates the output directory and any missing parents.
func (l Layout) Ensure() error {
	if strings.TrimSpace(l.OutputDir) == "" {
		return fmt.Errorf("workspace: empty output directory")
	}
	if err := os.MkdirAll(l.OutputDir, 0o755); err != nil {
		return fmt.Errorf("workspace: create output directory: %w", err)
	}
	return nil
}
