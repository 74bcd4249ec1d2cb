// Package mermaid renders Mermaid diagrams through mmdc, the Mermaid CLI.
//
// mmdc both validates and renders: a diagram with syntax errors fails the
// render, so "validate" and "render to SVG" are the same invocation. The
// backend makes exactly one bounded subprocess call per job.
package mermaid

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

// InstallHint is appended to RENDERER_NOT_FOUND errors so users can fix
// the missing tool without consulting docs.
const InstallHint = "install with: npm install -g @mermaid-js/mermaid-cli"

// DefaultTimeout bounds a single mmdc invocation when no timeout is
// configured. Rendering spins up a headless browser, so this is generous.
const DefaultTimeout = 30 * time.Second

// defaultConfigName is the config file picked up next to the binary's
// config directory when the job specifies none.
const defaultConfigName = "mermaid-config.json"

// Backend wraps the mmdc command.
type Backend struct {
	command string
	config  string
	timeout time.Duration
}

// New creates a mermaid backend.
// command is the mmdc executable (empty means "mmdc"), configPath an
// optional default config applied to jobs that carry none, and timeout the
// per-job bound (zero means DefaultTimeout).
func New(command, configPath string, timeout time.Duration) *Backend {
	if command == "" {
		command = "mmdc"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Backend{command: command, config: configPath, timeout: timeout}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "mmdc" }

// Installed checks that the mmdc executable is on PATH.
func (b *Backend) Installed() error {
	if _, err := exec.LookPath(b.command); err != nil {
		return diagerrors.New(diagerrors.ErrCodeRendererNotFound,
			"%s not found. %s", b.command, InstallHint)
	}
	return nil
}

// DefaultConfig returns the path of the fallback config file in dir, or ""
// if it does not exist. Passing the user config dir mirrors how diagram
// authoring setups ship a shared mermaid-config.json next to their tools.
func DefaultConfig(dir string) string {
	path := filepath.Join(dir, defaultConfigName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// args builds the mmdc argument list for a job.
func (b *Backend) args(job render.Job) []string {
	args := []string{
		"-i", job.Input,
		"-o", job.OutputPath(),
	}
	config := job.ConfigPath
	if config == "" {
		config = b.config
	}
	if config != "" {
		args = append(args, "-c", config)
	}
	return args
}

// Render runs mmdc on the job's input. Syntax errors surface as
// RENDER_FAILED errors carrying mmdc's stderr; a hung renderer is cut off
// at the configured timeout and reported as TIMEOUT.
func (b *Backend) Render(ctx context.Context, job render.Job) (render.Result, error) {
	if _, err := os.Stat(job.Input); os.IsNotExist(err) {
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeFileNotFound,
			"input file not found: %s", job.Input)
	}
	if err := b.Installed(); err != nil {
		return render.Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.command, b.args(job)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeTimeout,
			"rendering timed out after %s", b.timeout)
	}
	if err != nil {
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeRenderFailed,
			"%s", renderError(stdout.Bytes(), stderr.Bytes(), err))
	}

	return render.Result{OutputPath: job.OutputPath()}, nil
}

// renderError extracts the most useful error text from a failed mmdc run.
// mmdc writes parse errors to stderr; some wrapper scripts put them on
// stdout instead.
func renderError(stdout, stderr []byte, err error) string {
	if text := strings.TrimSpace(string(stderr)); text != "" {
		return text
	}
	if text := strings.TrimSpace(string(stdout)); text != "" {
		return text
	}
	return err.Error()
}
