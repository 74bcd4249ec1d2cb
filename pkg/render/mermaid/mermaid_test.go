package mermaid

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/diagramlab/diaglint/pkg/errors"
	"github.com/diagramlab/diaglint/pkg/render"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name    string
		backend *Backend
		job     render.Job
		want    []string
	}{
		{
			"derived output, no config",
			New("", "", 0),
			render.Job{Input: "flow.mmd", Format: render.FormatSVG},
			[]string{"-i", "flow.mmd", "-o", "flow.svg"},
		},
		{
			"explicit output and job config",
			New("", "", 0),
			render.Job{Input: "flow.mmd", Output: "out.png", Format: render.FormatPNG, ConfigPath: "cfg.json"},
			[]string{"-i", "flow.mmd", "-o", "out.png", "-c", "cfg.json"},
		},
		{
			"backend default config applies when job has none",
			New("", "default.json", 0),
			render.Job{Input: "flow.mmd", Format: render.FormatSVG},
			[]string{"-i", "flow.mmd", "-o", "flow.svg", "-c", "default.json"},
		},
		{
			"job config overrides backend default",
			New("", "default.json", 0),
			render.Job{Input: "flow.mmd", Format: render.FormatSVG, ConfigPath: "mine.json"},
			[]string{"-i", "flow.mmd", "-o", "flow.svg", "-c", "mine.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.backend.args(tt.job); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	b := New("", "", 0)
	if b.command != "mmdc" {
		t.Errorf("command = %q", b.command)
	}
	if b.timeout != DefaultTimeout {
		t.Errorf("timeout = %v", b.timeout)
	}

	b = New("mermaid-cli", "", time.Minute)
	if b.command != "mermaid-cli" || b.timeout != time.Minute {
		t.Errorf("backend = %+v", b)
	}
}

func TestRenderMissingInput(t *testing.T) {
	b := New("", "", 0)
	job := render.NewJob(filepath.Join(t.TempDir(), "absent.mmd"), "", render.FormatSVG, "")

	_, err := b.Render(context.Background(), job)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestRenderMissingTool(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "flow.mmd")
	if err := os.WriteFile(input, []byte("graph TD; a-->b"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := New("definitely-not-a-real-mmdc-binary", "", 0)
	_, err := b.Render(context.Background(), render.NewJob(input, "", render.FormatSVG, ""))
	if !errors.Is(err, errors.ErrCodeRendererNotFound) {
		t.Errorf("expected RENDERER_NOT_FOUND, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	if got := DefaultConfig(dir); got != "" {
		t.Errorf("DefaultConfig on empty dir = %q", got)
	}

	path := filepath.Join(dir, "mermaid-config.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := DefaultConfig(dir); got != path {
		t.Errorf("DefaultConfig = %q, want %q", got, path)
	}
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name           string
		stdout, stderr string
		want           string
	}{
		{"stderr preferred", "noise", "Parse error on line 2", "Parse error on line 2"},
		{"stdout fallback", "error on stdout", "", "error on stdout"},
		{"exit status fallback", "", "", "exit status 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderError([]byte(tt.stdout), []byte(tt.stderr), errExit1{})
			if got != tt.want {
				t.Errorf("renderError() = %q, want %q", got, tt.want)
			}
		})
	}
}

type errExit1 struct{}

func (errExit1) Error() string { return "exit status 1" }
