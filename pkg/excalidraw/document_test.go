package excalidraw

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diagramlab/diaglint/pkg/errors"
)

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type": "excalidraw",`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.Is(err, errors.ErrCodeMalformedDocument) {
		t.Errorf("expected MALFORMED_DOCUMENT, got %v", errors.GetCode(err))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.excalidraw")
	src := `{"type":"excalidraw","version":2,"elements":[]}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc["type"] != "excalidraw" {
		t.Errorf("type = %v", doc["type"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.excalidraw"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestElementsAccessor(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		count  int
		isList bool
	}{
		{"present list", `{"elements":[{"id":"a"}]}`, 1, true},
		{"absent", `{}`, 0, true},
		{"null", `{"elements":null}`, 0, false},
		{"string", `{"elements":"x"}`, 0, false},
		{"object", `{"elements":{}}`, 0, false},
		{"non-object entry tolerated", `{"elements":[42]}`, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, tt.src)
			els, isList := doc.Elements()
			if isList != tt.isList {
				t.Errorf("isList = %v, want %v", isList, tt.isList)
			}
			if len(els) != tt.count {
				t.Errorf("len = %d, want %d", len(els), tt.count)
			}
		})
	}
}

func TestElementAccessors(t *testing.T) {
	el := Element{
		"id":        "a",
		"type":      "arrow",
		"x":         5.0,
		"roughness": 0.0,
		"points":    []any{[]any{0.0, 0.0}, []any{10.0, 20.0}, "bad", []any{1.0}},
		"boundElements": []any{
			map[string]any{"type": "text", "id": "t1"},
			"bad",
		},
	}

	if el.id() != "a" || el.kind() != "arrow" {
		t.Errorf("id/kind = %q/%q", el.id(), el.kind())
	}
	if el.num("x", -1) != 5 {
		t.Errorf("num(x) = %g", el.num("x", -1))
	}
	if el.num("missing", 7) != 7 {
		t.Errorf("num default = %g", el.num("missing", 7))
	}
	if el.num("roughness", 1) != 0 {
		t.Errorf("explicit zero should beat the default")
	}

	pts := el.points()
	if len(pts) != 2 || pts[1] != (point{10, 20}) {
		t.Errorf("points = %v", pts)
	}

	binds := el.bindings()
	if len(binds) != 1 || binds[0].str("id") != "t1" {
		t.Errorf("bindings = %v", binds)
	}

	if (Element{}).id() != "unknown" {
		t.Errorf("anonymous element id = %q", Element{}.id())
	}
}
