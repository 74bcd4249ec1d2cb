package excalidraw

import (
	"encoding/json"
	"io"
	"os"

	"github.com/diagramlab/diaglint/pkg/errors"
)

// TypeLiteral is the required value of a document's top-level "type" field.
const TypeLiteral = "excalidraw"

// Document is a decoded Excalidraw JSON document.
//
// Documents are kept loosely typed: the validator treats absent or
// wrongly-typed fields as findings to report, so decoding into a rigid
// struct would either reject such documents outright or erase the
// difference between "absent" and "zero". Field access goes through the
// accessor helpers on [Element].
type Document map[string]any

// Element is one entry of a document's "elements" array: a shape, text
// label, arrow, or any other element kind the editor produces. Unknown
// kinds pass through validation unchecked.
type Element map[string]any

// Decode reads a JSON document from r.
// A JSON syntax or type error is reported as a MALFORMED_DOCUMENT error;
// decode failures are the caller's concern and never become diagnostics.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "invalid JSON")
	}
	return doc, nil
}

// Load reads and decodes the JSON document at path.
// A missing file is reported as FILE_NOT_FOUND, other read failures as
// INVALID_PATH, and JSON failures as MALFORMED_DOCUMENT.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Elements returns the document's element list, or nil if the "elements"
// field is absent or not an array. The second return reports whether the
// field held an array at all; a present-but-non-array value is the one
// condition that aborts validation.
func (d Document) Elements() ([]Element, bool) {
	raw, present := d["elements"]
	if !present {
		return nil, true // absent is reported separately, an empty list is safe to iterate
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	els := make([]Element, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			els = append(els, Element(m))
			continue
		}
		// Non-object entries carry no id or type; represent them as empty
		// elements so per-element checks report their missing properties.
		els = append(els, Element{})
	}
	return els, true
}

// unknownID is the placeholder reported for elements that lack an "id".
const unknownID = "unknown"

// id returns the element's "id" string, or "unknown" when absent,
// mirroring how findings on anonymous elements are labeled.
func (e Element) id() string {
	if s, ok := e["id"].(string); ok && s != "" {
		return s
	}
	return unknownID
}

// kind returns the element's "type" string, or "" when absent.
func (e Element) kind() string {
	s, _ := e["type"].(string)
	return s
}

// str returns the string value of key, or "" when absent or non-string.
func (e Element) str(key string) string {
	s, _ := e[key].(string)
	return s
}

// num returns the numeric value of key, or def when absent or non-numeric.
// JSON numbers decode as float64.
func (e Element) num(key string, def float64) float64 {
	if f, ok := e[key].(float64); ok {
		return f
	}
	return def
}

// has reports whether key is present on the element, regardless of value.
func (e Element) has(key string) bool {
	_, ok := e[key]
	return ok
}

// bindings returns the element's "boundElements" entries.
// Absent, null, or malformed values yield an empty list.
func (e Element) bindings() []Element {
	raw, ok := e["boundElements"].([]any)
	if !ok {
		return nil
	}
	out := make([]Element, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Element(m))
		}
	}
	return out
}

// point is a 2D offset from an arrow's origin.
type point struct {
	x, y float64
}

// points returns the element's "points" entries as parsed coordinate pairs.
// Entries that are not two-element numeric arrays are skipped rather than
// failing the whole element.
func (e Element) points() []point {
	raw, ok := e["points"].([]any)
	if !ok {
		return nil
	}
	out := make([]point, 0, len(raw))
	for _, item := range raw {
		pair, ok := item.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		x, xok := pair[0].(float64)
		y, yok := pair[1].(float64)
		if !xok || !yok {
			continue
		}
		out = append(out, point{x: x, y: y})
	}
	return out
}
