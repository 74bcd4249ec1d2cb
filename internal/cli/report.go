package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/diagramlab/diaglint/pkg/excalidraw"
	"github.com/diagramlab/diaglint/pkg/pipeline"
)

// jsonError is one diagnostic in the machine-readable report.
type jsonError struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	ElementID string `json:"element_id"`
}

// jsonReport is the machine-readable validation report emitted by --json.
type jsonReport struct {
	Valid  bool        `json:"valid"`
	Errors []jsonError `json:"errors"`
}

// writeJSONReport writes the report in the stable wire format consumed by
// editor integrations. Errors holds every diagnostic, warnings included.
func writeJSONReport(w io.Writer, report pipeline.Report) error {
	out := jsonReport{
		Valid:  report.Summary.Valid(),
		Errors: make([]jsonError, 0, len(report.Diagnostics)),
	}
	for _, d := range report.Diagnostics {
		out.Errors = append(out.Errors, jsonError{
			Level:     string(d.Level),
			Message:   d.Message,
			ElementID: d.ElementID,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// failureReport wraps a read or decode failure as an invalid report so the
// JSON output stays well-formed even when no document was loaded.
func failureReport(path string, err error) pipeline.Report {
	diags := []excalidraw.Diagnostic{{
		Level:    excalidraw.LevelError,
		Category: excalidraw.CategoryStructural,
		Message:  err.Error(),
	}}
	return pipeline.Report{
		Source:      path,
		Diagnostics: diags,
		Summary:     excalidraw.Summarize(diags),
	}
}

// printReport prints diagnostics in document order followed by a summary line.
func printReport(report pipeline.Report) {
	for _, d := range report.Diagnostics {
		line := d.Message
		if d.ElementID != "" {
			line = fmt.Sprintf("[%s] %s", d.ElementID, d.Message)
		}
		switch d.Level {
		case excalidraw.LevelError:
			printError("%s", StyleError.Render(line))
		default:
			printWarning("%s", line)
		}
	}

	s := report.Summary
	switch s.Status {
	case excalidraw.StatusValid:
		printSuccess("%s is valid", report.Source)
	case excalidraw.StatusValidWithWarnings:
		printSuccess("%s is valid (%s)", report.Source,
			StyleWarning.Render(fmt.Sprintf("%d warnings", s.Warnings)))
	default:
		printError("%s is invalid: %d errors, %d warnings", report.Source, s.Errors, s.Warnings)
	}
}
