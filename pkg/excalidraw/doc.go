// Package excalidraw validates Excalidraw documents for structural
// consistency before rendering.
//
// An Excalidraw document is a JSON object with a top-level "elements" array
// describing shapes, text labels, and arrows. This package checks the
// element graph for problems the editor tolerates but that break rendering:
// dangling references between container shapes and their text labels,
// duplicate element IDs, arrows whose declared bounding box disagrees with
// their point list, and shape kinds with known-broken connection behavior.
//
// Validation is purely functional: [Validate] never mutates the document,
// performs no I/O, and never fails on malformed element shapes. A missing
// field is itself a finding, reported as a [Diagnostic] rather than an
// error. The only fail-fast condition is a document whose "elements" field
// is not an array, since no per-element check is meaningful then.
//
// # Usage
//
//	doc, err := excalidraw.Load("diagram.excalidraw")
//	if err != nil {
//	    return err // malformed JSON, not a validation finding
//	}
//	diags := excalidraw.Validate(doc, excalidraw.Options{})
//	summary := excalidraw.Summarize(diags)
//	if summary.Status == excalidraw.StatusInvalid {
//	    // at least one error-level diagnostic
//	}
package excalidraw
