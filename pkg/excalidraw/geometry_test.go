package excalidraw

import (
	"strings"
	"testing"
)

func TestShapeNear(t *testing.T) {
	// One 100x50 rectangle at (0, 0): edge midpoints are (50,0), (50,50),
	// (0,25), (100,25).
	elements := []Element{
		{"id": "box", "type": "rectangle", "x": 0.0, "y": 0.0, "width": 100.0, "height": 50.0},
		{"id": "label", "type": "text", "x": 10.0, "y": 10.0, "text": "hi"},
	}

	tests := []struct {
		name string
		x, y float64
		hit  bool
	}{
		{"exact right midpoint", 100, 25, true},
		{"near top midpoint", 55, 8, true},
		{"just inside tolerance", 100 + 19, 25, true},
		{"at tolerance boundary", 100 + 20, 25, false},
		{"far away", 500, 500, false},
		{"near corner, not midpoint", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shapeNear(elements, tt.x, tt.y)
			if (got != nil) != tt.hit {
				t.Errorf("shapeNear(%g, %g) hit = %v, want %v", tt.x, tt.y, got != nil, tt.hit)
			}
		})
	}
}

func TestShapeNearIgnoresNonShapes(t *testing.T) {
	// Text and arrow elements never act as attachment targets, even when
	// they carry a bounding box.
	elements := []Element{
		{"id": "t", "type": "text", "x": 0.0, "y": 0.0, "width": 100.0, "height": 50.0},
		{"id": "a", "type": "arrow", "x": 0.0, "y": 0.0, "width": 100.0, "height": 50.0},
	}
	if got := shapeNear(elements, 50, 0); got != nil {
		t.Errorf("expected no hit on non-shape elements, got %v", got)
	}
}

func TestValidateVerboseGeometry(t *testing.T) {
	// Arrow from the right edge of one box toward empty space: start
	// attaches, end does not.
	src := `{"type":"excalidraw","version":2,"elements":[
		{"id":"box","type":"rectangle","x":0,"y":0,"width":100,"height":50},
		{"id":"a1","type":"arrow","x":100,"y":25,"width":300,"height":0,
		 "points":[[0,0],[300,0]]}]}`

	doc := decode(t, src)

	// Without Verbose the geometry pass is skipped entirely.
	if diags := Validate(doc, Options{}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics without Verbose, got %v", diags)
	}

	diags := Validate(doc, Options{Verbose: true})
	if len(diags) != 1 {
		t.Fatalf("expected 1 geometry warning, got %d: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Level != LevelWarning || d.Category != CategoryGeometry {
		t.Errorf("diagnostic = %+v", d)
	}
	if !strings.Contains(d.Message, "Arrow end (400, 25) not near any shape edge") {
		t.Errorf("Message = %q", d.Message)
	}
}

func TestValidateVerboseGeometryBothEndsAttached(t *testing.T) {
	src := `{"type":"excalidraw","version":2,"elements":[
		{"id":"left","type":"rectangle","x":0,"y":0,"width":100,"height":50},
		{"id":"right","type":"rectangle","x":400,"y":0,"width":100,"height":50},
		{"id":"a1","type":"arrow","x":100,"y":25,"width":300,"height":0,
		 "points":[[0,0],[300,0]]}]}`

	diags := Validate(decode(t, src), Options{Verbose: true})
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics for attached arrow, got %v", diags)
	}
}
