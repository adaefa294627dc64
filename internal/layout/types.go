package layout

import "strings"

// Font style flag bits carried on a Span. The values follow the common
// PDF text-extraction convention where bit 4 marks a bold face.
const (
	FlagItalic uint32 = 1 << 1
	FlagBold   uint32 = 1 << 4
)

// Point represents a coordinate in page layout space. The origin is the
// top-left corner of the page and y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect represents an axis-aligned rectangle in page layout space.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// RectFromPoints returns the bounding rectangle of two points.
func RectFromPoints(p1, p2 Point) Rect {
	r := Rect{X0: p1.X, Y0: p1.Y, X1: p2.X, Y1: p2.Y}
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// MidX returns the horizontal midpoint of the rectangle.
func (r Rect) MidX() float64 {
	return (r.X0 + r.X1) / 2
}

// DrawingKind identifies the shape of a vector drawing primitive.
type DrawingKind string

const (
	DrawingLine  DrawingKind = "line"
	DrawingRect  DrawingKind = "rect"
	DrawingCurve DrawingKind = "curve"
	DrawingOther DrawingKind = "other"
)

// Drawing is a single vector drawing primitive from a page's content.
// Line primitives populate P1/P2; rectangle primitives populate Rect.
type Drawing struct {
	Kind DrawingKind `json:"kind"`
	P1   Point       `json:"p1,omitempty"`
	P2   Point       `json:"p2,omitempty"`
	Rect Rect        `json:"rect,omitempty"`
}

// Span is an atomic run of text sharing one font face and baseline.
// Spans are immutable once produced by the page decomposition.
type Span struct {
	Text  string  `json:"text"`
	BBox  Rect    `json:"bbox"`
	Font  string  `json:"font,omitempty"`
	Size  float64 `json:"size,omitempty"`
	Flags uint32  `json:"flags"`
}

// IsBold reports whether the span's style flags carry the bold bit.
func (s Span) IsBold() bool {
	return s.Flags&FlagBold != 0
}

// Line is one rendered line of text, an ordered run of spans.
type Line struct {
	Spans []Span `json:"spans"`
	BBox  Rect   `json:"bbox"`
}

// Text returns the concatenated span texts of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Block is a paragraph-level group of lines.
type Block struct {
	Lines []Line `json:"lines"`
	BBox  Rect   `json:"bbox"`
}

// Text returns the block content with one line of text per rendered line.
func (b Block) Text() string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		parts = append(parts, l.Text())
	}
	return strings.Join(parts, "\n")
}

// Page is the decomposition of one document page: reading-ordered text
// blocks plus the page's vector drawing primitives. Number is 1-based.
type Page struct {
	Number   int       `json:"number"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Blocks   []Block   `json:"blocks"`
	Drawings []Drawing `json:"drawings"`
}
