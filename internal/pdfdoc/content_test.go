package pdfdoc

import (
	"testing"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

func TestParseDrawingsLine(t *testing.T) {
	// A horizontal stroke at PDF y=100 on a 842pt-tall page.
	stream := []byte("0.5 w 100 100 m 200 100 l S")
	drawings := parseDrawings(stream, 842)

	if len(drawings) != 1 {
		t.Fatalf("expected 1 drawing, got %d", len(drawings))
	}
	d := drawings[0]
	if d.Kind != layout.DrawingLine {
		t.Fatalf("kind = %s, want line", d.Kind)
	}
	if d.P1.X != 100 || d.P1.Y != 742 || d.P2.X != 200 || d.P2.Y != 742 {
		t.Errorf("endpoints = %+v %+v, want (100,742) (200,742)", d.P1, d.P2)
	}
}

func TestParseDrawingsPolyline(t *testing.T) {
	stream := []byte("10 10 m 20 10 l 20 20 l S")
	drawings := parseDrawings(stream, 100)

	if len(drawings) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(drawings))
	}
	if drawings[0].P2 != drawings[1].P1 {
		t.Errorf("segments not contiguous: %+v then %+v", drawings[0], drawings[1])
	}
}

func TestParseDrawingsRect(t *testing.T) {
	// A thin filled bar: 2pt tall, drawn with re/f.
	stream := []byte("50 100 120 2 re f")
	drawings := parseDrawings(stream, 842)

	if len(drawings) != 1 {
		t.Fatalf("expected 1 drawing, got %d", len(drawings))
	}
	d := drawings[0]
	if d.Kind != layout.DrawingRect {
		t.Fatalf("kind = %s, want rect", d.Kind)
	}
	want := layout.Rect{X0: 50, Y0: 740, X1: 170, Y1: 742}
	if d.Rect != want {
		t.Errorf("rect = %+v, want %+v", d.Rect, want)
	}
	if d.Rect.Height() != 2 {
		t.Errorf("height = %v, want 2", d.Rect.Height())
	}
}

func TestParseDrawingsCurve(t *testing.T) {
	stream := []byte("0 0 m 10 20 30 40 50 60 c S")
	drawings := parseDrawings(stream, 100)

	if len(drawings) != 1 {
		t.Fatalf("expected 1 drawing, got %d", len(drawings))
	}
	if drawings[0].Kind != layout.DrawingCurve {
		t.Errorf("kind = %s, want curve", drawings[0].Kind)
	}
}

func TestParseDrawingsClosePath(t *testing.T) {
	stream := []byte("0 0 m 10 0 l 10 10 l h S")
	drawings := parseDrawings(stream, 100)

	if len(drawings) != 3 {
		t.Fatalf("expected 3 segments after close, got %d", len(drawings))
	}
	last := drawings[2]
	if last.P2.X != 0 || last.P2.Y != 100 {
		t.Errorf("close segment ends at %+v, want (0,100)", last.P2)
	}
}

func TestParseDrawingsIgnoresTextAndStrings(t *testing.T) {
	// Numbers inside strings, names, and text operators must not leak
	// into path operands. The (12 34 m 56 78 l) literal is showing text,
	// not drawing.
	stream := []byte(`BT /F1 12 Tf 100 700 Td (12 34 m 56 78 l) Tj ET
<< /Type /ExtGState >> % a comment with 1 2 m
<48656c6c6f> 0 0 m 5 0 l S`)
	drawings := parseDrawings(stream, 842)

	if len(drawings) != 1 {
		t.Fatalf("expected 1 drawing, got %d", len(drawings))
	}
	d := drawings[0]
	if d.P1.X != 0 || d.P2.X != 5 {
		t.Errorf("unexpected segment: %+v", d)
	}
}

func TestParseDrawingsEscapedString(t *testing.T) {
	stream := []byte(`(paren \( inside) Tj 1 1 m 2 1 l S`)
	drawings := parseDrawings(stream, 10)
	if len(drawings) != 1 {
		t.Fatalf("expected 1 drawing, got %d", len(drawings))
	}
}

func TestParseDrawingsInlineImage(t *testing.T) {
	stream := []byte("BI /W 4 /H 4 ID \x00\x01\x02\x03 EI 1 1 m 2 1 l S")
	drawings := parseDrawings(stream, 10)
	if len(drawings) != 1 {
		t.Fatalf("expected 1 drawing after inline image, got %d", len(drawings))
	}
}

func TestParseDrawingsLWithoutCurrentPoint(t *testing.T) {
	// A stray l before any m has no current point and produces nothing.
	drawings := parseDrawings([]byte("10 10 l S"), 100)
	if len(drawings) != 0 {
		t.Errorf("expected no drawings, got %d", len(drawings))
	}
}

func TestParseDrawingsEmpty(t *testing.T) {
	if got := parseDrawings(nil, 100); len(got) != 0 {
		t.Errorf("expected no drawings, got %d", len(got))
	}
}
