package pdfdoc

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

// Assembly tolerances, in layout units.
const (
	// rowTolerance is the baseline delta within which characters belong
	// to the same rendered line.
	rowTolerance = 2.0

	// wordGapFactor times the font size is the horizontal gap that
	// splits a line into separate spans.
	wordGapFactor = 0.3

	// blockGapFactor times the line height is the vertical gap that
	// starts a new block.
	blockGapFactor = 1.2

	// fallbackFontSize approximates text height when the font reports
	// no size.
	fallbackFontSize = 12.0
)

// char is one positioned character in layout space.
type char struct {
	text     string
	font     string
	size     float64
	x0, x1   float64
	top, bot float64
}

// assemblePage groups ledongthuc character runs into spans, lines and
// blocks in reading order. The input is in PDF space (bottom-left
// origin); the output is in layout space (top-left origin, y down).
func assemblePage(texts []pdf.Text, pageHeight float64) []layout.Block {
	chars := make([]char, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = fallbackFontSize
		}
		chars = append(chars, char{
			text: t.S,
			font: t.Font,
			size: size,
			x0:   t.X,
			x1:   t.X + t.W,
			top:  pageHeight - (t.Y + size),
			bot:  pageHeight - t.Y,
		})
	}
	if len(chars) == 0 {
		return nil
	}

	lines := buildLines(chars)
	return buildBlocks(lines)
}

// buildLines clusters characters into baseline rows, then splits each
// row into spans on font changes and word-sized gaps.
func buildLines(chars []char) []layout.Line {
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].bot != chars[j].bot {
			return chars[i].bot < chars[j].bot
		}
		return chars[i].x0 < chars[j].x0
	})

	var rows [][]char
	for _, c := range chars {
		if n := len(rows); n > 0 {
			last := rows[n-1]
			if c.bot-last[0].bot <= rowTolerance {
				rows[n-1] = append(last, c)
				continue
			}
		}
		rows = append(rows, []char{c})
	}

	lines := make([]layout.Line, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].x0 < row[j].x0 })
		lines = append(lines, buildLine(row))
	}
	return lines
}

func buildLine(row []char) layout.Line {
	var spans []layout.Span
	begin := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && sameSpan(row[i-1], row[i]) {
			continue
		}
		spans = append(spans, buildSpan(row[begin:i]))
		begin = i
	}

	line := layout.Line{Spans: spans, BBox: spans[0].BBox}
	for _, s := range spans[1:] {
		line.BBox = union(line.BBox, s.BBox)
	}
	return line
}

func sameSpan(prev, next char) bool {
	if next.font != prev.font || next.size != prev.size {
		return false
	}
	maxGap := wordGapFactor * prev.size
	if maxGap < 1.0 {
		maxGap = 1.0
	}
	return next.x0-prev.x1 <= maxGap
}

func buildSpan(chars []char) layout.Span {
	var b strings.Builder
	bbox := layout.Rect{X0: chars[0].x0, Y0: chars[0].top, X1: chars[0].x1, Y1: chars[0].bot}
	for _, c := range chars {
		b.WriteString(c.text)
		bbox = union(bbox, layout.Rect{X0: c.x0, Y0: c.top, X1: c.x1, Y1: c.bot})
	}

	var flags uint32
	if isBoldFont(chars[0].font) {
		flags |= layout.FlagBold
	}
	if isItalicFont(chars[0].font) {
		flags |= layout.FlagItalic
	}
	return layout.Span{
		Text:  b.String(),
		BBox:  bbox,
		Font:  chars[0].font,
		Size:  chars[0].size,
		Flags: flags,
	}
}

// buildBlocks groups consecutive lines into paragraph blocks, breaking
// where the vertical gap exceeds the running line height.
func buildBlocks(lines []layout.Line) []layout.Block {
	var blocks []layout.Block
	for _, line := range lines {
		if n := len(blocks); n > 0 {
			prev := &blocks[n-1]
			prevLine := prev.Lines[len(prev.Lines)-1]
			height := prevLine.BBox.Height()
			if height <= 0 {
				height = fallbackFontSize
			}
			if line.BBox.Y0-prevLine.BBox.Y1 <= blockGapFactor*height {
				prev.Lines = append(prev.Lines, line)
				prev.BBox = union(prev.BBox, line.BBox)
				continue
			}
		}
		blocks = append(blocks, layout.Block{Lines: []layout.Line{line}, BBox: line.BBox})
	}
	return blocks
}

func union(a, b layout.Rect) layout.Rect {
	if b.X0 < a.X0 {
		a.X0 = b.X0
	}
	if b.Y0 < a.Y0 {
		a.Y0 = b.Y0
	}
	if b.X1 > a.X1 {
		a.X1 = b.X1
	}
	if b.Y1 > a.Y1 {
		a.Y1 = b.Y1
	}
	return a
}

// isBoldFont reports whether a font base name looks like a bold face.
// Exam PDFs carry style in the name (e.g. "MS-Gothic,Bold",
// "NotoSansJP-Bold") rather than in a descriptor we can reach.
func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "heavy") ||
		strings.Contains(lower, "black")
}

func isItalicFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
}
