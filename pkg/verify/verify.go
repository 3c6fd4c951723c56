// Package verify reports whether the host environment is set up the way the
// camera workflows expect: where the process runs, whether the timeline is
// playing, which stage is loaded, and whether the key prims exist.
package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/viewfinder/pkg/host"
	"github.com/chazu/viewfinder/pkg/workspace"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	DefaultObjectPath = "World/clean_mussel"
	DefaultGroundPath = "World/GroundPlane"
)

// Options names the prims to look for.
type Options struct {
	ObjectPath string
	GroundPath string
	// Cwd overrides the process working directory in the report.
	Cwd string
}

// DefaultOptions checks for World/clean_mussel and World/GroundPlane.
func DefaultOptions() Options {
	return Options{ObjectPath: DefaultObjectPath, GroundPath: DefaultGroundPath}
}

// Report is a snapshot of the environment.
type Report struct {
	Cwd             string
	TimelinePlaying bool
	StageLoaded     bool
	StageURL        string
	// RepoPath is empty when the stage URL has no scenes segment.
	RepoPath     string
	ObjectPath   string
	ObjectExists bool
	GroundPath   string
	GroundExists bool
}

// Run gathers a Report from h. Prim checks are skipped when no stage is
// loaded.
func Run(h host.Host, opts Options) Report {
	if opts.ObjectPath == "" {
		opts.ObjectPath = DefaultObjectPath
	}
	if opts.GroundPath == "" {
		opts.GroundPath = DefaultGroundPath
	}
	r := Report{
		Cwd:        opts.Cwd,
		ObjectPath: opts.ObjectPath,
		GroundPath: opts.GroundPath,
	}
	if r.Cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			r.Cwd = wd
		}
	}
	r.TimelinePlaying = h.TimelinePlaying()

	url, ok := h.StageURL()
	if !ok {
		return r
	}
	r.StageLoaded = true
	r.StageURL = url
	if repo, ok := workspace.RepoFromStageURL(url); ok {
		r.RepoPath = repo
	}
	r.ObjectExists = h.PrimExists(opts.ObjectPath)
	r.GroundExists = h.PrimExists(opts.GroundPath)
	return r
}

// Ready reports whether a stage is loaded and both prims exist.
func (r Report) Ready() bool {
	return r.StageLoaded && r.ObjectExists && r.GroundExists
}

// Style selects the report layout.
type Style int

const (
	// StylePlain prints one "Label: value" line per fact.
	StylePlain Style = iota
	// StyleTable prints a bordered table.
	StyleTable
)

// Render writes the report to w.
func (r Report) Render(w io.Writer, style Style) error {
	var out string
	switch style {
	case StyleTable:
		out = r.table()
	default:
		out = r.plain()
	}
	_, err := io.WriteString(w, out)
	return err
}

func (r Report) plain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current working directory: %s\n", displayCwd(r.Cwd))
	fmt.Fprintf(&b, "Timeline is playing: %s\n", pyBool(r.TimelinePlaying))
	if !r.StageLoaded {
		b.WriteString("No stage is currently loaded\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Current USD stage: %s\n", r.StageURL)
	if r.RepoPath != "" {
		fmt.Fprintf(&b, "Repository path: %s\n", r.RepoPath)
	} else {
		b.WriteString("Could not determine repository path from stage path\n")
	}
	fmt.Fprintf(&b, "Object prim exists: %s\n", pyBool(r.ObjectExists))
	fmt.Fprintf(&b, "Ground plane prim exists: %s\n", pyBool(r.GroundExists))
	return b.String()
}

func (r Report) table() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Check", "Value"})
	tw.AppendRow(table.Row{"Working directory", displayCwd(r.Cwd)})
	tw.AppendRow(table.Row{"Timeline playing", yesNo(r.TimelinePlaying)})
	if !r.StageLoaded {
		tw.AppendRow(table.Row{"Stage", "No stage is currently loaded"})
	} else {
		tw.AppendRow(table.Row{"Stage", r.StageURL})
		repo := r.RepoPath
		if repo == "" {
			repo = "could not determine from stage path"
		}
		tw.AppendRow(table.Row{"Repository", repo})
		tw.AppendRow(table.Row{"Object " + r.ObjectPath, presence(r.ObjectExists)})
		tw.AppendRow(table.Row{"Ground " + r.GroundPath, presence(r.GroundExists)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render() + "\n"
}

func displayCwd(cwd string) string {
	if cwd == "" {
		return "unknown"
	}
	return cwd
}

// pyBool prints True or False.
func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func presence(v bool) string {
	if v {
		return "found"
	}
	return "missing"
}
