package layout

// Underline detection tolerances, in layout units.
const (
	// maxLineSkew is the largest vertical delta between the endpoints of a
	// line primitive still treated as a horizontal underline stroke.
	maxLineSkew = 2.0

	// maxBarHeight is the tallest filled rectangle still treated as an
	// underline bar rather than a box.
	maxBarHeight = 2.0
)

// Underlines scans a page's drawing primitives and returns the rectangles
// that look like underline marks: near-horizontal line segments and thin
// filled bars. Everything else (curves, tall rectangles, zero-width bars)
// is ignored. The result is recomputed per page and never merged across
// pages.
func Underlines(drawings []Drawing) []Rect {
	var underlines []Rect
	for _, d := range drawings {
		switch d.Kind {
		case DrawingLine:
			if abs(d.P1.Y-d.P2.Y) <= maxLineSkew {
				underlines = append(underlines, RectFromPoints(d.P1, d.P2))
			}
		case DrawingRect:
			if d.Rect.Height() <= maxBarHeight && d.Rect.Width() > 0 {
				underlines = append(underlines, d.Rect)
			}
		}
	}
	return underlines
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
