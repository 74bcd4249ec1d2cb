// Package plantuml checks and renders PlantUML diagrams through the
// plantuml command.
//
// PlantUML offers a dedicated syntax-check mode (plantuml -syntax) that
// reads the diagram on stdin and reports either the detected diagram type
// or an ERROR block with a line number and description. [Backend.Syntax]
// wraps that mode; [Backend.Render] produces PNG output with -tpng.
package plantuml

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	diagerrors "github.com/diagramlab/diaglint/pkg/errors"
	"github.com/diagramlab/diaglint/pkg/render"
)

// DefaultTimeout bounds a single plantuml invocation.
const DefaultTimeout = 30 * time.Second

// Backend wraps the plantuml command.
type Backend struct {
	command string
	timeout time.Duration
}

// New creates a plantuml backend. Empty command means "plantuml", zero
// timeout means DefaultTimeout.
func New(command string, timeout time.Duration) *Backend {
	if command == "" {
		command = "plantuml"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Backend{command: command, timeout: timeout}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "plantuml" }

// Installed checks that the plantuml executable is on PATH.
func (b *Backend) Installed() error {
	if _, err := exec.LookPath(b.command); err != nil {
		return diagerrors.New(diagerrors.ErrCodeRendererNotFound,
			"%s not found. install plantuml and ensure it is on PATH", b.command)
	}
	return nil
}

// SyntaxResult is the outcome of a syntax check.
type SyntaxResult struct {
	// OK reports whether the diagram parsed.
	OK bool

	// DiagramType is the detected kind (e.g. "SEQUENCE") when OK.
	DiagramType string

	// Info is any extra detail PlantUML printed after the type.
	Info string

	// Line is the failing line number when not OK. "?" if unreported.
	Line string

	// Description is the parser's error description when not OK.
	Description string

	// Extra holds any remaining error context lines.
	Extra []string
}

// Syntax runs plantuml -syntax with source on stdin and parses the result.
// A parse failure in the diagram is not an error return: it comes back as
// a SyntaxResult with OK false. Errors are reserved for failures to run
// the check at all.
func (b *Backend) Syntax(ctx context.Context, source []byte) (SyntaxResult, error) {
	if err := b.Installed(); err != nil {
		return SyntaxResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.command, "-syntax")
	cmd.Stdin = bytes.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// plantuml -syntax reports diagram errors in its output, not its exit
	// code, so a run error only matters if there is no output to parse.
	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return SyntaxResult{}, diagerrors.New(diagerrors.ErrCodeTimeout,
			"syntax check timed out after %s", b.timeout)
	}

	output := strings.TrimSpace(stdout.String() + "\n" + stderr.String())
	if output == "" {
		if runErr != nil {
			return SyntaxResult{}, diagerrors.Wrap(diagerrors.ErrCodeRenderFailed, runErr, "plantuml -syntax produced no output")
		}
		return SyntaxResult{}, diagerrors.New(diagerrors.ErrCodeRenderFailed, "plantuml -syntax produced no output")
	}

	return parseSyntaxOutput(output), nil
}

// parseSyntaxOutput interprets the -syntax output format:
//
//	ERROR            DIAGRAM_TYPE
//	<line>      or   <info...>
//	<description>
//	<extra...>
func parseSyntaxOutput(output string) SyntaxResult {
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if lines[0] == "ERROR" {
		res := SyntaxResult{OK: false, Line: "?", Description: "Unknown error"}
		if len(lines) > 1 {
			res.Line = lines[1]
		}
		if len(lines) > 2 {
			res.Description = lines[2]
		}
		if len(lines) > 3 {
			res.Extra = lines[3:]
		}
		return res
	}

	res := SyntaxResult{OK: true, DiagramType: lines[0]}
	if len(lines) > 1 {
		res.Info = lines[1]
	}
	return res
}

// SyntaxFile runs a syntax check on the file at path.
func (b *Backend) SyntaxFile(ctx context.Context, path string) (SyntaxResult, error) {
	source, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return SyntaxResult{}, diagerrors.New(diagerrors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return SyntaxResult{}, diagerrors.Wrap(diagerrors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return b.Syntax(ctx, source)
}

// Render runs plantuml -tpng on the job's input. PlantUML always names the
// artifact after the input file; the job's output, when set, is treated as
// the target directory.
func (b *Backend) Render(ctx context.Context, job render.Job) (render.Result, error) {
	if _, err := os.Stat(job.Input); os.IsNotExist(err) {
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeFileNotFound,
			"input file not found: %s", job.Input)
	}
	if err := b.Installed(); err != nil {
		return render.Result{}, err
	}

	args := []string{"-tpng"}
	outDir := job.Output
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return render.Result{}, diagerrors.Wrap(diagerrors.ErrCodeInvalidPath, err, "create output dir %s", outDir)
		}
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return render.Result{}, diagerrors.Wrap(diagerrors.ErrCodeInvalidPath, err, "resolve output dir %s", outDir)
		}
		args = append(args, "-o", abs)
	}
	args = append(args, job.Input)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeTimeout,
			"rendering timed out after %s", b.timeout)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeRenderFailed, "%s", msg)
	}

	return render.Result{OutputPath: outputPath(job.Input, outDir)}, nil
}

// outputPath resolves where plantuml wrote the PNG: next to the input, or
// inside the requested output directory.
func outputPath(input, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".png"
	if outDir != "" {
		return filepath.Join(outDir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}
