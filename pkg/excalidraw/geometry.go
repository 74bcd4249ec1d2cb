package excalidraw

// edgeTolerance is the maximum per-axis distance, in canvas units, between
// an arrow endpoint and a shape edge midpoint for the two to count as
// attached.
const edgeTolerance = 20

// shapeNear returns the first container shape whose edge midpoint lies
// within edgeTolerance of (x, y), or nil if none does.
//
// This is a linear scan over all shapes per queried point. Diagrams at the
// scale this validator targets hold tens of elements, so no spatial index
// is warranted.
func shapeNear(elements []Element, x, y float64) Element {
	for _, el := range elements {
		kind := el.kind()
		if kind != kindRectangle && kind != kindEllipse {
			continue
		}

		ex := el.num("x", 0)
		ey := el.num("y", 0)
		width := el.num("width", 0)
		height := el.num("height", 0)

		// Midpoints of the four bounding-box edges. Arrows bind to these
		// attachment points, not to corners or arbitrary perimeter points.
		edges := [4]point{
			{ex + width/2, ey},          // top
			{ex + width/2, ey + height}, // bottom
			{ex, ey + height/2},         // left
			{ex + width, ey + height/2}, // right
		}

		for _, edge := range edges {
			if abs(edge.x-x) < edgeTolerance && abs(edge.y-y) < edgeTolerance {
				return el
			}
		}
	}
	return nil
}
