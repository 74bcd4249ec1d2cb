package excalidraw

import (
	"strings"
	"testing"
)

// decode parses a JSON document literal for tests.
func decode(t *testing.T, src string) Document {
	t.Helper()
	doc, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

// countLevel tallies diagnostics at the given level.
func countLevel(diags []Diagnostic, level Level) int {
	n := 0
	for _, d := range diags {
		if d.Level == level {
			n++
		}
	}
	return n
}

// findMessage returns the first diagnostic whose message contains substr.
func findMessage(diags []Diagnostic, substr string) (Diagnostic, bool) {
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return d, true
		}
	}
	return Diagnostic{}, false
}

func TestValidateEmptyDocument(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[]}`)
	diags := Validate(doc, Options{})
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics for empty element list, got %v", diags)
	}
}

func TestValidateMissingTopLevelFields(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		missing []string
	}{
		{"missing version", `{"type":"excalidraw","elements":[]}`, []string{"version"}},
		{"missing elements", `{"type":"excalidraw","version":2}`, []string{"elements"}},
		{"missing all", `{}`, []string{"type", "version", "elements"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate(decode(t, tt.src), Options{})
			for _, field := range tt.missing {
				if _, ok := findMessage(diags, "Missing required field: "+field); !ok {
					t.Errorf("expected missing-field diagnostic for %q, got %v", field, diags)
				}
			}
		})
	}
}

func TestValidateTypeLiteral(t *testing.T) {
	doc := decode(t, `{"type":"sketch","version":2,"elements":[]}`)
	diags := Validate(doc, Options{})

	d, ok := findMessage(diags, "Invalid type")
	if !ok {
		t.Fatalf("expected invalid-type diagnostic, got %v", diags)
	}
	if d.Level != LevelError {
		t.Errorf("Level = %v, want error", d.Level)
	}
	if !strings.Contains(d.Message, "'sketch'") {
		t.Errorf("message should name the offending value: %q", d.Message)
	}
}

func TestValidateElementsNotAList(t *testing.T) {
	// The one fail-fast path: nothing downstream can index a non-array, so
	// validation must return exactly one diagnostic and no others, even
	// though "version" is also missing.
	doc := decode(t, `{"type":"excalidraw","elements":"nope"}`)
	diags := Validate(doc, Options{})

	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Message != "elements must be a list" {
		t.Errorf("Message = %q", diags[0].Message)
	}
	if diags[0].Level != LevelError {
		t.Errorf("Level = %v, want error", diags[0].Level)
	}
}

func TestValidateDiamondRejected(t *testing.T) {
	// Scenario fixed by the renderer's known diamond breakage: exactly one
	// error naming the element.
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[{"id":"a","type":"diamond","x":0,"y":0}]}`)
	diags := Validate(doc, Options{})

	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Level != LevelError || d.ElementID != "a" {
		t.Errorf("diagnostic = %+v", d)
	}
	if !strings.Contains(d.Message, "Diamond shapes have broken arrow connections") {
		t.Errorf("Message = %q", d.Message)
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		duplicates int
	}{
		{
			"single duplicate",
			`{"type":"excalidraw","version":2,"elements":[
				{"id":"x","type":"rectangle","x":0,"y":0,"width":10,"height":10},
				{"id":"x","type":"rectangle","x":50,"y":0,"width":10,"height":10}]}`,
			1,
		},
		{
			"three occurrences yield two errors",
			`{"type":"excalidraw","version":2,"elements":[
				{"id":"x","type":"rectangle","x":0,"y":0,"width":10,"height":10},
				{"id":"x","type":"rectangle","x":50,"y":0,"width":10,"height":10},
				{"id":"x","type":"rectangle","x":99,"y":0,"width":10,"height":10}]}`,
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate(decode(t, tt.src), Options{})
			got := 0
			for _, d := range diags {
				if strings.Contains(d.Message, "Duplicate ID: x") {
					got++
				}
			}
			if got != tt.duplicates {
				t.Errorf("duplicate-id errors = %d, want %d (diags: %v)", got, tt.duplicates, diags)
			}
		})
	}
}

func TestValidateMissingRequiredProperties(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[{"type":"rectangle","width":10,"height":10}]}`)
	diags := Validate(doc, Options{})

	for _, prop := range []string{"id", "x", "y"} {
		d, ok := findMessage(diags, "Missing required property: "+prop)
		if !ok {
			t.Errorf("expected missing-property diagnostic for %q", prop)
			continue
		}
		if d.ElementID != "unknown" {
			t.Errorf("ElementID = %q, want unknown", d.ElementID)
		}
	}
	if _, ok := findMessage(diags, "Missing required property: type"); ok {
		t.Error("type is present, should not be reported")
	}
}

func TestValidateShapeMissingDimensions(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[{"id":"r","type":"ellipse","x":0,"y":0}]}`)
	diags := Validate(doc, Options{})

	if _, ok := findMessage(diags, "Shape missing width/height"); !ok {
		t.Errorf("expected missing width/height diagnostic, got %v", diags)
	}
}

func TestValidateBindingConsistency(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		level     Level
		substr    string
		elementID string
	}{
		{
			name: "boundElements references missing text",
			src: `{"type":"excalidraw","version":2,"elements":[
				{"id":"box","type":"rectangle","x":0,"y":0,"width":100,"height":50,
				 "boundElements":[{"type":"text","id":"ghost"}]}]}`,
			level:     LevelError,
			substr:    "boundElements references missing text element: ghost",
			elementID: "box",
		},
		{
			name: "text containerId does not point back",
			src: `{"type":"excalidraw","version":2,"elements":[
				{"id":"box","type":"rectangle","x":0,"y":0,"width":100,"height":50,
				 "boundElements":[{"type":"text","id":"label"}]},
				{"id":"label","type":"text","x":10,"y":10,"text":"hi","containerId":"other"},
				{"id":"other","type":"rectangle","x":200,"y":0,"width":100,"height":50,
				 "boundElements":[{"type":"text","id":"label"}]}]}`,
			level:     LevelError,
			substr:    "Text element label containerId doesn't match shape id",
			elementID: "box",
		},
		{
			name: "containerId references missing shape",
			src: `{"type":"excalidraw","version":2,"elements":[
				{"id":"label","type":"text","x":10,"y":10,"text":"hi","containerId":"ghost"}]}`,
			level:     LevelError,
			substr:    "containerId references missing shape: ghost",
			elementID: "label",
		},
		{
			name: "container missing backlink is only a warning",
			src: `{"type":"excalidraw","version":2,"elements":[
				{"id":"box","type":"rectangle","x":0,"y":0,"width":100,"height":50},
				{"id":"label","type":"text","x":10,"y":10,"text":"hi","containerId":"box"}]}`,
			level:     LevelWarning,
			substr:    "Container box missing boundElements reference to this text",
			elementID: "label",
		},
		{
			name: "text missing text property",
			src: `{"type":"excalidraw","version":2,"elements":[
				{"id":"label","type":"text","x":10,"y":10}]}`,
			level:     LevelError,
			substr:    "Text element missing 'text' property",
			elementID: "label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate(decode(t, tt.src), Options{})
			d, ok := findMessage(diags, tt.substr)
			if !ok {
				t.Fatalf("expected diagnostic containing %q, got %v", tt.substr, diags)
			}
			if d.Level != tt.level {
				t.Errorf("Level = %v, want %v", d.Level, tt.level)
			}
			if d.ElementID != tt.elementID {
				t.Errorf("ElementID = %q, want %q", d.ElementID, tt.elementID)
			}
		})
	}
}

func TestValidateConsistentBindingIsClean(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[
		{"id":"box","type":"rectangle","x":0,"y":0,"width":100,"height":50,
		 "boundElements":[{"type":"text","id":"label"}]},
		{"id":"label","type":"text","x":10,"y":10,"text":"hi","containerId":"box"}]}`)
	diags := Validate(doc, Options{})
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics for consistent binding, got %v", diags)
	}
}

func TestValidateArrowPointCount(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[
		{"id":"a1","type":"arrow","x":0,"y":0,"points":[[0,0]]}]}`)
	diags := Validate(doc, Options{})

	got := 0
	for _, d := range diags {
		if d.Message == "Arrow must have at least 2 points" {
			got++
			if d.Level != LevelError {
				t.Errorf("Level = %v, want error", d.Level)
			}
		}
	}
	if got != 1 {
		t.Errorf("point-count errors = %d, want 1 (diags: %v)", got, diags)
	}
}

func TestValidateElbowArrowProperties(t *testing.T) {
	// Multi-point arrow with no elbowed flag: warns about curving. Width
	// and height cover the point extent so no bbox warnings fire.
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[
		{"id":"a1","type":"arrow","x":0,"y":0,"width":20,"height":10,"roughness":0,
		 "points":[[0,0],[10,10],[20,0]]}]}`)
	diags := Validate(doc, Options{})

	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Level != LevelWarning || !strings.Contains(d.Message, "elbowed: true") {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestValidateElbowArrowRoundnessAndRoughness(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[
		{"id":"a1","type":"arrow","x":0,"y":0,"width":20,"height":10,"elbowed":true,
		 "roundness":{"type":2},"points":[[0,0],[10,10],[20,0]]}]}`)
	diags := Validate(doc, Options{})

	if _, ok := findMessage(diags, "roundness: null"); !ok {
		t.Errorf("expected roundness warning, got %v", diags)
	}
	// roughness absent defaults to 1, which also warrants the warning
	if _, ok := findMessage(diags, "roughness: 0"); !ok {
		t.Errorf("expected roughness warning, got %v", diags)
	}
	if errs := countLevel(diags, LevelError); errs != 0 {
		t.Errorf("warnings only expected, got %d errors", errs)
	}
}

func TestValidateArrowBoundingBox(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		warnings []string
	}{
		{
			"width undershoots",
			`{"type":"excalidraw","version":2,"elements":[
				{"id":"a1","type":"arrow","x":0,"y":0,"width":50,"height":10,
				 "points":[[0,0],[100,10]]}]}`,
			[]string{"Arrow width (50) smaller than points bounding box (100)"},
		},
		{
			"both axes undershoot",
			`{"type":"excalidraw","version":2,"elements":[
				{"id":"a1","type":"arrow","x":0,"y":0,
				 "points":[[0,0],[100,80]]}]}`,
			[]string{"Arrow width (0)", "Arrow height (0)"},
		},
		{
			"within one-unit tolerance",
			`{"type":"excalidraw","version":2,"elements":[
				{"id":"a1","type":"arrow","x":0,"y":0,"width":99,"height":9.5,
				 "points":[[0,0],[100,10]]}]}`,
			nil,
		},
		{
			"negative offsets use absolute extent",
			`{"type":"excalidraw","version":2,"elements":[
				{"id":"a1","type":"arrow","x":0,"y":0,"width":10,"height":10,
				 "points":[[0,0],[-100,5]]}]}`,
			[]string{"Arrow width (10) smaller than points bounding box (100)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate(decode(t, tt.src), Options{})
			for _, want := range tt.warnings {
				d, ok := findMessage(diags, want)
				if !ok {
					t.Errorf("expected warning containing %q, got %v", want, diags)
					continue
				}
				if d.Level != LevelWarning {
					t.Errorf("Level = %v, want warning", d.Level)
				}
			}
			if tt.warnings == nil && len(diags) != 0 {
				t.Errorf("expected no diagnostics, got %v", diags)
			}
		})
	}
}

func TestValidateUnknownTypesPassThrough(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[
		{"id":"f","type":"freedraw","x":0,"y":0},
		{"id":"l","type":"line","x":0,"y":0}]}`)
	diags := Validate(doc, Options{})
	if len(diags) != 0 {
		t.Errorf("unknown element types should pass silently, got %v", diags)
	}
}

func TestValidateDiagnosticOrderFollowsInput(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[
		{"id":"d1","type":"diamond","x":0,"y":0},
		{"id":"a1","type":"arrow","x":0,"y":0,"points":[[0,0]]},
		{"id":"d2","type":"diamond","x":0,"y":0}]}`)
	diags := Validate(doc, Options{})

	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
	wantOrder := []string{"d1", "a1", "d2"}
	for i, want := range wantOrder {
		if diags[i].ElementID != want {
			t.Errorf("diags[%d].ElementID = %q, want %q", i, diags[i].ElementID, want)
		}
	}
}

func TestValidateDoesNotMutateDocument(t *testing.T) {
	doc := decode(t, `{"type":"excalidraw","version":2,"elements":[
		{"id":"d1","type":"diamond","x":0,"y":0}]}`)
	Validate(doc, Options{Verbose: true})

	elements, _ := doc.Elements()
	if len(elements) != 1 || elements[0].id() != "d1" {
		t.Errorf("document was mutated: %v", doc)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		diags []Diagnostic
		want  Summary
	}{
		{
			"empty",
			nil,
			Summary{Status: StatusValid},
		},
		{
			"warnings only",
			[]Diagnostic{{Level: LevelWarning}, {Level: LevelWarning}},
			Summary{Status: StatusValidWithWarnings, Warnings: 2},
		},
		{
			"errors dominate",
			[]Diagnostic{{Level: LevelWarning}, {Level: LevelError}},
			Summary{Status: StatusInvalid, Errors: 1, Warnings: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.diags)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
			if got.Valid() != (tt.want.Status != StatusInvalid) {
				t.Errorf("Valid() = %v", got.Valid())
			}
		})
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Level: LevelError, Message: "Duplicate ID: x", ElementID: "x"}
	if got := d.String(); got != "ERROR: [x] Duplicate ID: x" {
		t.Errorf("String() = %q", got)
	}

	d = Diagnostic{Level: LevelWarning, Message: "Missing required field: version"}
	if got := d.String(); got != "WARNING: Missing required field: version" {
		t.Errorf("String() = %q", got)
	}
}
