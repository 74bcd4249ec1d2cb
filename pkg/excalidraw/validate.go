package excalidraw

import "fmt"

// Options configures a validation run.
type Options struct {
	// Verbose enables the geometry pass, which checks that arrow endpoints
	// land near a shape edge. It is opt-in because hand-positioned diagrams
	// legitimately float arrows in open space.
	Verbose bool
}

// requiredFields are the top-level fields every document must carry.
var requiredFields = []string{"type", "version", "elements"}

// requiredProps are the properties every element must carry.
var requiredProps = []string{"id", "type", "x", "y"}

// Element kinds with type-specific rules. Other kinds are passed through
// unchecked.
const (
	kindRectangle = "rectangle"
	kindEllipse   = "ellipse"
	kindDiamond   = "diamond"
	kindText      = "text"
	kindArrow     = "arrow"
)

// Validate checks doc for structural consistency and returns all findings
// in document order. It never mutates doc and never fails: malformed
// element shapes become diagnostics. The single abort condition is an
// "elements" field that is not an array, which yields exactly one error
// and suppresses all further checks.
func Validate(doc Document, opts Options) []Diagnostic {
	var diags []Diagnostic

	// Top-level structure. These checks are independent and all run even if
	// earlier ones fail.
	for _, field := range requiredFields {
		if _, ok := doc[field]; !ok {
			diags = append(diags, Diagnostic{
				Level:    LevelError,
				Category: CategoryStructural,
				Message:  fmt.Sprintf("Missing required field: %s", field),
			})
		}
	}

	if t, _ := doc["type"].(string); t != TypeLiteral {
		diags = append(diags, Diagnostic{
			Level:    LevelError,
			Category: CategoryStructural,
			Message:  fmt.Sprintf("Invalid type: expected '%s', got '%v'", TypeLiteral, doc["type"]),
		})
	}

	elements, isList := doc.Elements()
	if !isList {
		return []Diagnostic{{
			Level:    LevelError,
			Category: CategoryStructural,
			Message:  "elements must be a list",
		}}
	}

	// Index elements by ID and flag duplicates. The first occurrence wins
	// for lookup purposes; every later repeat is reported.
	byID := make(map[string]Element, len(elements))
	for _, el := range elements {
		id, _ := el["id"].(string)
		if id == "" {
			continue
		}
		if _, seen := byID[id]; seen {
			diags = append(diags, Diagnostic{
				Level:    LevelError,
				Category: CategoryReference,
				Message:  fmt.Sprintf("Duplicate ID: %s", id),
			})
			continue
		}
		byID[id] = el
	}

	for _, el := range elements {
		diags = append(diags, validateElement(el, elements, byID, opts)...)
	}

	return diags
}

// validateElement runs the per-element rule set: required properties first,
// then the rules for the element's declared kind. Checks depend only on the
// prebuilt index, never on diagnostics of other elements.
func validateElement(el Element, elements []Element, byID map[string]Element, opts Options) []Diagnostic {
	var diags []Diagnostic
	id := el.id()

	for _, prop := range requiredProps {
		if !el.has(prop) {
			diags = append(diags, Diagnostic{
				Level:     LevelError,
				Category:  CategoryStructural,
				Message:   fmt.Sprintf("Missing required property: %s", prop),
				ElementID: id,
			})
		}
	}

	switch el.kind() {
	case kindDiamond:
		// Blanket rejection: diamonds break arrow connection points in the
		// renderer no matter how they are configured.
		diags = append(diags, Diagnostic{
			Level:     LevelError,
			Category:  CategoryPolicy,
			Message:   "Diamond shapes have broken arrow connections. Use styled rectangles instead.",
			ElementID: id,
		})
	case kindRectangle, kindEllipse:
		diags = append(diags, validateShape(el, id, byID)...)
	case kindText:
		diags = append(diags, validateText(el, id, byID)...)
	case kindArrow:
		diags = append(diags, validateArrow(el, id, elements, opts)...)
	}

	return diags
}

// validateShape checks container shapes: bounding box presence and the
// shape side of the container/text binding. Each text binding must resolve
// to an existing element whose containerId points back at this shape.
func validateShape(el Element, id string, byID map[string]Element) []Diagnostic {
	var diags []Diagnostic

	if !el.has("width") || !el.has("height") {
		diags = append(diags, Diagnostic{
			Level:     LevelError,
			Category:  CategoryStructural,
			Message:   "Shape missing width/height",
			ElementID: id,
		})
	}

	for _, binding := range el.bindings() {
		if binding.str("type") != kindText {
			continue
		}
		textID := binding.str("id")
		textEl, ok := byID[textID]
		if !ok {
			diags = append(diags, Diagnostic{
				Level:     LevelError,
				Category:  CategoryReference,
				Message:   fmt.Sprintf("boundElements references missing text element: %s", textID),
				ElementID: id,
			})
			continue
		}
		if textEl.str("containerId") != id {
			diags = append(diags, Diagnostic{
				Level:     LevelError,
				Category:  CategoryReference,
				Message:   fmt.Sprintf("Text element %s containerId doesn't match shape id", textID),
				ElementID: id,
			})
		}
	}

	return diags
}

// validateText checks the text side of the container binding. A dangling
// containerId is an error (the reference is broken), but a container that
// fails to list the text back is only a warning: the renderer still places
// the label, it just loses the attachment.
func validateText(el Element, id string, byID map[string]Element) []Diagnostic {
	var diags []Diagnostic

	if containerID := el.str("containerId"); containerID != "" {
		container, ok := byID[containerID]
		if !ok {
			diags = append(diags, Diagnostic{
				Level:     LevelError,
				Category:  CategoryReference,
				Message:   fmt.Sprintf("containerId references missing shape: %s", containerID),
				ElementID: id,
			})
		} else if !containerListsText(container, id) {
			diags = append(diags, Diagnostic{
				Level:     LevelWarning,
				Category:  CategoryConsistency,
				Message:   fmt.Sprintf("Container %s missing boundElements reference to this text", containerID),
				ElementID: id,
			})
		}
	}

	if !el.has("text") {
		diags = append(diags, Diagnostic{
			Level:     LevelError,
			Category:  CategoryStructural,
			Message:   "Text element missing 'text' property",
			ElementID: id,
		})
	}

	return diags
}

// containerListsText reports whether container's boundElements include a
// text binding for textID.
func containerListsText(container Element, textID string) bool {
	for _, binding := range container.bindings() {
		if binding.str("type") == kindText && binding.str("id") == textID {
			return true
		}
	}
	return false
}

// validateArrow checks arrow point lists, elbow rendering properties, and
// the declared bounding box. With Options.Verbose it also runs the
// endpoint proximity pass.
func validateArrow(el Element, id string, elements []Element, opts Options) []Diagnostic {
	var diags []Diagnostic
	points := el.points()

	if len(points) < 2 {
		diags = append(diags, Diagnostic{
			Level:     LevelError,
			Category:  CategoryStructural,
			Message:   "Arrow must have at least 2 points",
			ElementID: id,
		})
	}

	// Multi-segment arrows render as smooth curves unless explicitly marked
	// elbowed, which also requires null roundness and zero roughness.
	if len(points) > 2 {
		if elbowed, _ := el["elbowed"].(bool); !elbowed {
			diags = append(diags, Diagnostic{
				Level:     LevelWarning,
				Category:  CategoryConsistency,
				Message:   "Multi-point arrow missing 'elbowed: true' - will render curved",
				ElementID: id,
			})
		}
		if roundness, ok := el["roundness"]; ok && roundness != nil {
			diags = append(diags, Diagnostic{
				Level:     LevelWarning,
				Category:  CategoryConsistency,
				Message:   "Elbow arrow should have 'roundness: null' for sharp corners",
				ElementID: id,
			})
		}
		if el.num("roughness", 1) != 0 {
			diags = append(diags, Diagnostic{
				Level:     LevelWarning,
				Category:  CategoryConsistency,
				Message:   "Elbow arrow should have 'roughness: 0' for clean lines",
				ElementID: id,
			})
		}
	}

	if len(points) > 0 {
		diags = append(diags, validateArrowBounds(el, id, points)...)
	}

	if opts.Verbose {
		diags = append(diags, validateArrowEndpoints(el, id, elements, points)...)
	}

	return diags
}

// bboxTolerance allows the declared bounding box to undershoot the point
// extent by one unit before it is flagged.
const bboxTolerance = 1

// validateArrowBounds compares the declared width/height against the
// largest absolute point offset on each axis.
func validateArrowBounds(el Element, id string, points []point) []Diagnostic {
	var diags []Diagnostic

	var maxX, maxY float64
	for _, p := range points {
		maxX = max(maxX, abs(p.x))
		maxY = max(maxY, abs(p.y))
	}

	width := el.num("width", 0)
	height := el.num("height", 0)

	if width < maxX-bboxTolerance {
		diags = append(diags, Diagnostic{
			Level:     LevelWarning,
			Category:  CategoryConsistency,
			Message:   fmt.Sprintf("Arrow width (%g) smaller than points bounding box (%g)", width, maxX),
			ElementID: id,
		})
	}
	if height < maxY-bboxTolerance {
		diags = append(diags, Diagnostic{
			Level:     LevelWarning,
			Category:  CategoryConsistency,
			Message:   fmt.Sprintf("Arrow height (%g) smaller than points bounding box (%g)", height, maxY),
			ElementID: id,
		})
	}

	return diags
}

// validateArrowEndpoints checks that the arrow's absolute start and end
// positions land near some shape's edge. Points are offsets from the
// arrow origin, so the end position is origin plus the last offset.
func validateArrowEndpoints(el Element, id string, elements []Element, points []point) []Diagnostic {
	var diags []Diagnostic

	startX := el.num("x", 0)
	startY := el.num("y", 0)

	if shapeNear(elements, startX, startY) == nil {
		diags = append(diags, Diagnostic{
			Level:     LevelWarning,
			Category:  CategoryGeometry,
			Message:   fmt.Sprintf("Arrow start (%g, %g) not near any shape edge", startX, startY),
			ElementID: id,
		})
	}

	if len(points) > 0 {
		last := points[len(points)-1]
		endX := startX + last.x
		endY := startY + last.y
		if shapeNear(elements, endX, endY) == nil {
			diags = append(diags, Diagnostic{
				Level:     LevelWarning,
				Category:  CategoryGeometry,
				Message:   fmt.Sprintf("Arrow end (%g, %g) not near any shape edge", endX, endY),
				ElementID: id,
			})
		}
	}

	return diags
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
