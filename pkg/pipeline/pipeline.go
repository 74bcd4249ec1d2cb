// Package pipeline provides the shared validate/render pipeline for diaglint.
//
// Both the CLI and the HTTP API run the same two operations: structural
// validation of Excalidraw documents and rendering of diagram sources
// through a backend. Centralizing them here keeps behavior identical
// across entry points and gives rendering a single place to consult the
// artifact cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	report, err := runner.ValidateExcalidraw(ctx, "diagram.excalidraw", pipeline.ValidateOptions{})
//	if err != nil {
//	    return err // read or decode failure, not a validation finding
//	}
//	if !report.Summary.Valid() {
//	    // report.Diagnostics holds the findings in input order
//	}
//
//	result, err := runner.Render(ctx, backend, job, ttl)
package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diagramlab/diaglint/pkg/cache"
	"github.com/diagramlab/diaglint/pkg/excalidraw"
	"github.com/diagramlab/diaglint/pkg/observability"
	"github.com/diagramlab/diaglint/pkg/render"
)

// Runner executes validation and rendering operations.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables artifact
// caching; a nil logger discards log output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{cache: c, logger: logger}
}

// ValidateOptions configures a validation run.
type ValidateOptions struct {
	// Verbose enables the arrow endpoint geometry pass.
	Verbose bool
}

// Report is the outcome of validating one document.
type Report struct {
	// Source is the validated file path, or "" for in-memory documents.
	Source string `json:"source,omitempty"`

	// Diagnostics holds all findings in document order.
	Diagnostics []excalidraw.Diagnostic `json:"diagnostics"`

	// Summary reduces the diagnostics to a verdict and counts.
	Summary excalidraw.Summary `json:"summary"`
}

// ValidateExcalidraw loads and validates the document at path.
// Read and decode failures return an error; validation findings never do.
func (r *Runner) ValidateExcalidraw(ctx context.Context, path string, opts ValidateOptions) (Report, error) {
	start := time.Now()
	observability.Validation().OnValidateStart(ctx, path)

	doc, err := excalidraw.Load(path)
	if err != nil {
		return Report{}, err
	}
	report := r.ValidateDocument(doc, opts)
	report.Source = path
	r.logger.Debugf("validated %s: %d errors, %d warnings",
		path, report.Summary.Errors, report.Summary.Warnings)
	observability.Validation().OnValidateComplete(ctx, path,
		report.Summary.Errors, report.Summary.Warnings, time.Since(start))
	return report, nil
}

// ValidateDocument validates an already-decoded document.
func (r *Runner) ValidateDocument(doc excalidraw.Document, opts ValidateOptions) Report {
	diags := excalidraw.Validate(doc, excalidraw.Options{Verbose: opts.Verbose})
	return Report{
		Diagnostics: diags,
		Summary:     excalidraw.Summarize(diags),
	}
}

// Render produces the job's artifact through backend, consulting the
// artifact cache first. On a hit the cached bytes are written to the
// job's output path without invoking the backend; on a miss the backend
// runs and its artifact is cached for ttl.
//
// Cache failures degrade to uncached rendering rather than failing the job.
func (r *Runner) Render(ctx context.Context, backend render.Backend, job render.Job, ttl time.Duration) (render.Result, error) {
	source, err := os.ReadFile(job.Input)
	if err != nil {
		// Let the backend produce its own FILE_NOT_FOUND error text.
		return backend.Render(ctx, job)
	}

	var configData []byte
	if job.ConfigPath != "" {
		configData, _ = os.ReadFile(job.ConfigPath)
	}

	key := cache.RenderKey(backend.Name(), job.Format, source, configData)
	if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
		outputPath := job.OutputPath()
		if err := os.WriteFile(outputPath, data, 0644); err == nil {
			r.logger.Debugf("render %s: cache hit (%s)", job.ID, backend.Name())
			observability.Cache().OnCacheHit(ctx, "render")
			observability.Render().OnRenderComplete(ctx, backend.Name(), job.Format, true, 0, nil)
			return render.Result{OutputPath: outputPath, Cached: true}, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	start := time.Now()
	observability.Render().OnRenderStart(ctx, backend.Name(), job.Format)
	result, err := backend.Render(ctx, job)
	observability.Render().OnRenderComplete(ctx, backend.Name(), job.Format, false, time.Since(start), err)
	if err != nil {
		return render.Result{}, err
	}

	if data, err := os.ReadFile(result.OutputPath); err == nil {
		if err := r.cache.Set(ctx, key, data, ttl); err != nil {
			r.logger.Warnf("render %s: cache store failed: %v", job.ID, err)
		} else {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}
	return result, nil
}
