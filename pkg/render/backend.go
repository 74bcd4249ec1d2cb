// Package render defines the rendering backend contract shared by all
// diagram tools.
//
// A backend accepts a diagram source file and produces an output artifact,
// reporting success or a structured error. Backends make at most one
// bounded external call per job; everything else (caching, output
// placement, diagnostics display) belongs to the caller. Implementations
// live in the subpackages:
//   - mermaid: mmdc (Mermaid CLI) wrapper
//   - plantuml: plantuml wrapper, including syntax-only checking
//   - dot: in-process Graphviz rendering
package render

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Backend renders diagram source files into output artifacts.
type Backend interface {
	// Name is the stable tool identifier used in cache keys and logs.
	Name() string

	// Render executes the job. The context bounds the entire invocation,
	// including any external process.
	Render(ctx context.Context, job Job) (Result, error)
}

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Job describes one rendering request.
type Job struct {
	// ID correlates log lines and temp files for this job.
	ID string

	// Input is the diagram source file path.
	Input string

	// Output is the artifact path. Empty means derive from Input by
	// swapping the extension for the format.
	Output string

	// Format is the output format, e.g. "svg" or "png".
	Format string

	// ConfigPath is an optional renderer config file, passed through to
	// the tool verbatim.
	ConfigPath string
}

// NewJob creates a Job with a fresh ID.
func NewJob(input, output, format, configPath string) Job {
	return Job{
		ID:         uuid.NewString(),
		Input:      input,
		Output:     output,
		Format:     format,
		ConfigPath: configPath,
	}
}

// OutputPath resolves the job's effective output path.
func (j Job) OutputPath() string {
	if j.Output != "" {
		return j.Output
	}
	base := strings.TrimSuffix(j.Input, filepath.Ext(j.Input))
	return base + "." + j.Format
}

// Result is a completed rendering.
type Result struct {
	// OutputPath is where the artifact was written.
	OutputPath string

	// Cached reports whether the artifact came from the cache rather than
	// a backend invocation.
	Cached bool
}
