package pdfdoc

import (
	"strconv"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

// parseDrawings scans a decoded page content stream for path
// construction operators (m, l, c, v, y, re, h) and returns the
// resulting primitives in layout space: top-left origin, y growing
// downward. Text-showing and state operators are skipped; strings,
// hex data, dictionaries and inline images are stepped over so their
// bytes never masquerade as operands.
func parseDrawings(data []byte, pageHeight float64) []layout.Drawing {
	s := scanner{data: data}
	var (
		drawings []layout.Drawing
		operands []float64
		current  layout.Point
		start    layout.Point
		hasPoint bool
	)

	flip := func(x, y float64) layout.Point {
		return layout.Point{X: x, Y: pageHeight - y}
	}
	reset := func() { operands = operands[:0] }

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.number {
			operands = append(operands, tok.value)
			continue
		}

		switch tok.op {
		case "m":
			if len(operands) >= 2 {
				current = flip(operands[len(operands)-2], operands[len(operands)-1])
				start = current
				hasPoint = true
			}
		case "l":
			if hasPoint && len(operands) >= 2 {
				next := flip(operands[len(operands)-2], operands[len(operands)-1])
				drawings = append(drawings, layout.Drawing{
					Kind: layout.DrawingLine,
					P1:   current,
					P2:   next,
				})
				current = next
			}
		case "c", "v", "y":
			need := 6
			if tok.op != "c" {
				need = 4
			}
			if hasPoint && len(operands) >= need {
				next := flip(operands[len(operands)-2], operands[len(operands)-1])
				drawings = append(drawings, layout.Drawing{
					Kind: layout.DrawingCurve,
					P1:   current,
					P2:   next,
				})
				current = next
			}
		case "re":
			if len(operands) >= 4 {
				n := len(operands)
				x, y, w, h := operands[n-4], operands[n-3], operands[n-2], operands[n-1]
				drawings = append(drawings, layout.Drawing{
					Kind: layout.DrawingRect,
					Rect: layout.RectFromPoints(flip(x, y), flip(x+w, y+h)),
				})
				current = flip(x, y)
				start = current
				hasPoint = true
			}
		case "h":
			if hasPoint && current != start {
				drawings = append(drawings, layout.Drawing{
					Kind: layout.DrawingLine,
					P1:   current,
					P2:   start,
				})
				current = start
			}
		case "BI":
			s.skipInlineImage()
		}
		reset()
	}
	return drawings
}

type token struct {
	number bool
	value  float64
	op     string
}

// scanner tokenizes a content stream just far enough to separate
// numeric operands from operator names.
type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) next() (token, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isWhitespace(c):
			s.pos++
		case c == '%':
			s.skipComment()
		case c == '(':
			s.skipString()
		case c == '<':
			s.skipAngle()
		case c == '/':
			s.skipName()
		case c == '[' || c == ']' || c == '{' || c == '}':
			s.pos++
		case isNumberStart(c):
			return s.readNumber(), true
		default:
			return s.readOperator(), true
		}
	}
	return token{}, false
}

func (s *scanner) skipComment() {
	for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
		s.pos++
	}
}

// skipString steps over a literal string, honoring backslash escapes
// and balanced nested parentheses.
func (s *scanner) skipString() {
	s.pos++ // opening (
	depth := 1
	for s.pos < len(s.data) && depth > 0 {
		switch s.data[s.pos] {
		case '\\':
			s.pos++ // escaped byte
		case '(':
			depth++
		case ')':
			depth--
		}
		s.pos++
	}
}

// skipAngle steps over a hex string <...> or a dictionary <<...>>.
func (s *scanner) skipAngle() {
	if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
		s.pos += 2
		depth := 1
		for s.pos < len(s.data) && depth > 0 {
			switch {
			case s.data[s.pos] == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<':
				depth++
				s.pos++
			case s.data[s.pos] == '>' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '>':
				depth--
				s.pos++
			case s.data[s.pos] == '(':
				s.skipString()
				continue
			}
			s.pos++
		}
		return
	}
	s.pos++
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		s.pos++
	}
	if s.pos < len(s.data) {
		s.pos++
	}
}

func (s *scanner) skipName() {
	s.pos++
	for s.pos < len(s.data) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
}

func (s *scanner) readNumber() token {
	begin := s.pos
	if c := s.data[s.pos]; c == '+' || c == '-' {
		s.pos++
	}
	for s.pos < len(s.data) && (s.data[s.pos] >= '0' && s.data[s.pos] <= '9' || s.data[s.pos] == '.') {
		s.pos++
	}
	v, err := strconv.ParseFloat(string(s.data[begin:s.pos]), 64)
	if err != nil {
		return token{op: string(s.data[begin:s.pos])}
	}
	return token{number: true, value: v}
}

func (s *scanner) readOperator() token {
	begin := s.pos
	for s.pos < len(s.data) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == begin {
		s.pos++ // lone delimiter byte, consume to make progress
	}
	return token{op: string(s.data[begin:s.pos])}
}

// skipInlineImage consumes everything up to and including the EI that
// terminates a BI ... ID ... EI inline image.
func (s *scanner) skipInlineImage() {
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			(s.pos == 0 || isWhitespace(s.data[s.pos-1])) &&
			(s.pos+2 >= len(s.data) || isDelimiter(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'
}

func isDelimiter(c byte) bool {
	if isWhitespace(c) {
		return true
	}
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
