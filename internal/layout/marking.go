package layout

// maxUnderlineGap is how far below a span's baseline an underline's top
// edge may sit and still count as marking that span.
const maxUnderlineGap = 4.0

// IsSpanMarked reports whether a span carries an answer mark. A bold style
// flag marks the span unconditionally. Otherwise the span is marked when
// some underline's horizontal extent contains the span's midpoint and the
// underline's top edge lies within [0, 4) units below the span's baseline.
// An underline above the baseline or further below never marks the span.
func IsSpanMarked(span Span, underlines []Rect) bool {
	if span.IsBold() {
		return true
	}
	midX := span.BBox.MidX()
	baseline := span.BBox.Y1
	for _, u := range underlines {
		if u.X0 <= midX && midX <= u.X1 {
			gap := u.Y0 - baseline
			if gap >= 0 && gap < maxUnderlineGap {
				return true
			}
		}
	}
	return false
}
