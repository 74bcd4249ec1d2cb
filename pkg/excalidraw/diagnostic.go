package excalidraw

import (
	"fmt"
	"strings"
)

// Level is the severity of a diagnostic.
type Level string

// Diagnostic severity levels. Only error-level diagnostics affect document
// validity; warnings are advisory.
const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Category classifies what kind of inconsistency a diagnostic reports.
type Category string

// Diagnostic categories.
const (
	// CategoryStructural covers missing or wrongly-shaped fields, on the
	// document itself or on individual elements.
	CategoryStructural Category = "structural"

	// CategoryReference covers duplicate IDs and dangling references
	// between elements.
	CategoryReference Category = "reference"

	// CategoryPolicy covers constructs that are categorically disallowed
	// regardless of their other properties.
	CategoryPolicy Category = "policy"

	// CategoryConsistency covers element properties that disagree with each
	// other in ways the renderer tolerates but distorts.
	CategoryConsistency Category = "consistency"

	// CategoryGeometry covers proximity findings from the optional
	// geometry pass.
	CategoryGeometry Category = "geometry"
)

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Level     Level    `json:"level"`
	Category  Category `json:"category,omitempty"`
	Message   string   `json:"message"`
	ElementID string   `json:"element_id,omitempty"`
}

// String formats the diagnostic as "LEVEL: [element-id] message".
// The element ID prefix is omitted for document-level findings.
func (d Diagnostic) String() string {
	prefix := ""
	if d.ElementID != "" {
		prefix = fmt.Sprintf("[%s] ", d.ElementID)
	}
	return fmt.Sprintf("%s: %s%s", strings.ToUpper(string(d.Level)), prefix, d.Message)
}

// Status is the overall validity of a document.
type Status string

// Document validity states. Warnings never make a document invalid.
const (
	StatusValid             Status = "valid"
	StatusValidWithWarnings Status = "valid_with_warnings"
	StatusInvalid           Status = "invalid"
)

// Summary reduces a diagnostic list to an overall verdict.
type Summary struct {
	Status   Status `json:"status"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

// Valid reports whether the document passed, possibly with warnings.
func (s Summary) Valid() bool {
	return s.Status != StatusInvalid
}

// Summarize counts diagnostics by level and derives the document status.
func Summarize(diags []Diagnostic) Summary {
	var s Summary
	for _, d := range diags {
		switch d.Level {
		case LevelError:
			s.Errors++
		case LevelWarning:
			s.Warnings++
		}
	}
	switch {
	case s.Errors > 0:
		s.Status = StatusInvalid
	case s.Warnings > 0:
		s.Status = StatusValidWithWarnings
	default:
		s.Status = StatusValid
	}
	return s
}
