// Package dot renders Graphviz DOT diagrams in-process using the
// goccy/go-graphviz port.
//
// Unlike the mermaid and plantuml backends, no external binary is needed:
// the Graphviz layout engines are compiled in. The backend still honors
// the same Job contract so callers treat all three uniformly.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	diagerrors "github.com/diagramlab/diaglint/pkg/errors"
	"github.com/diagramlab/diaglint/pkg/render"
)

// Backend renders DOT sources with the embedded Graphviz engine.
type Backend struct{}

// New creates a dot backend.
func New() *Backend { return &Backend{} }

// Name returns the backend identifier.
func (b *Backend) Name() string { return "dot" }

// formats maps job formats to Graphviz output kinds.
var formats = map[string]graphviz.Format{
	render.FormatSVG: graphviz.SVG,
	render.FormatPNG: graphviz.PNG,
}

// Render parses the DOT input and writes the laid-out artifact.
// A DOT syntax error is reported as MALFORMED_DOCUMENT since it is the
// input, not the renderer, that is at fault.
func (b *Backend) Render(ctx context.Context, job render.Job) (render.Result, error) {
	format, ok := formats[job.Format]
	if !ok {
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeInvalidFormat,
			"dot backend cannot produce %q (must be 'svg' or 'png')", job.Format)
	}

	source, err := os.ReadFile(job.Input)
	if os.IsNotExist(err) {
		return render.Result{}, diagerrors.New(diagerrors.ErrCodeFileNotFound,
			"input file not found: %s", job.Input)
	}
	if err != nil {
		return render.Result{}, diagerrors.Wrap(diagerrors.ErrCodeInvalidPath, err, "read %s", job.Input)
	}

	data, err := Render(ctx, source, format)
	if err != nil {
		return render.Result{}, err
	}

	outputPath := job.OutputPath()
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return render.Result{}, diagerrors.Wrap(diagerrors.ErrCodeInvalidPath, err, "write %s", outputPath)
	}
	return render.Result{OutputPath: outputPath}, nil
}

// Render lays out DOT source and returns the artifact bytes.
func Render(ctx context.Context, source []byte, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(source)
	if err != nil {
		return nil, diagerrors.Wrap(diagerrors.ErrCodeMalformedDocument, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, diagerrors.Wrap(diagerrors.ErrCodeRenderFailed, err, "render")
	}

	data := buf.Bytes()
	if format == graphviz.SVG {
		data = normalizeViewBox(data)
	}
	return data, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element to a zero-origin viewBox
// with explicit pixel dimensions, so the artifact scales predictably when
// embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
