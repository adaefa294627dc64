package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

// Section is the top-level division of the grammar/vocab answer key.
type Section string

const (
	SectionVocab   Section = "vocab"
	SectionGrammar Section = "grammar"
)

// Section marker tokens as they appear in the answer-key layout.
const (
	vocabSectionToken   = "もじ・ごい"
	grammarSectionToken = "ぶんぽう・どっかい"
)

// Mondai dispatch table for the vocab section. Each question-group
// ordinal maps to one single-line extraction rule.
const (
	mondaiKanjiKanaFirst  = 1
	mondaiKanjiKanaSecond = 2
	mondaiFillInBlank     = 3
	mondaiSynonym         = 4
	mondaiConstruction    = 5
)

var mondaiLabelRe = regexp.MustCompile(`^問題(\d+)`)

// accumulator is the in-progress grammar question: the marked span groups
// collected so far, the declared ordinal, and the page it opened on.
type accumulator struct {
	number string
	lines  [][]spanMark
	page   int
}

// Segmenter walks the grammar/vocab answer key line by line and groups
// text into question records. It tracks the current section, the current
// mondai ordinal and at most one open multi-line question; state carries
// across page boundaries, so pages must be fed strictly in order.
type Segmenter struct {
	watermarks []string
	section    Section
	mondai     int
	open       *accumulator
	records    []Record
}

// NewSegmenter creates a segmenter in its initial state: vocab section,
// no mondai seen yet, no open question. Lines containing any of the
// watermark substrings are dropped before boundary detection.
func NewSegmenter(watermarks []string) *Segmenter {
	return &Segmenter{
		watermarks: watermarks,
		section:    SectionVocab,
	}
}

// ProcessLine consumes one text line in reading order. underlines is the
// underline set of the line's own page and page is that page's 1-based
// number; both matter only for lines that carry question content.
func (s *Segmenter) ProcessLine(line layout.Line, underlines []layout.Rect, page int) {
	text := strings.TrimSpace(line.Text())
	if s.isWatermarked(text) {
		return
	}

	// Section and mondai boundaries share one token vocabulary for both
	// sections. The vocab marker concludes preceding content and flushes;
	// the grammar marker precedes its content, so nothing is open yet.
	if strings.Contains(text, vocabSectionToken) {
		s.flushOpen()
		s.section = SectionVocab
		return
	}
	if strings.Contains(text, grammarSectionToken) {
		s.section = SectionGrammar
		return
	}
	if m := mondaiLabelRe.FindStringSubmatch(text); m != nil {
		s.flushOpen()
		n, _ := strconv.Atoi(m[1])
		s.mondai = n
		return
	}

	if s.mondai == 0 || text == "" {
		return
	}

	switch s.section {
	case SectionGrammar:
		s.processGrammarLine(line, text, underlines, page)
	case SectionVocab:
		s.processVocabLine(line, text, underlines, page)
	}
}

// processGrammarLine opens a new accumulator on a "N." numbered line and
// otherwise appends to the open one. Grammar sentences word-wrap across
// rendered lines, so everything up to the next numbered item belongs to
// the current question.
func (s *Segmenter) processGrammarLine(line layout.Line, text string, underlines []layout.Rect, page int) {
	if m := numberedLineRe.FindStringSubmatch(text); m != nil {
		s.flushOpen()
		s.open = &accumulator{
			number: m[1],
			lines:  [][]spanMark{markSpans(line.Spans, underlines)},
			page:   page,
		}
		return
	}
	if s.open != nil {
		s.open.lines = append(s.open.lines, markSpans(line.Spans, underlines))
	}
}

// processVocabLine dispatches a single-line vocab question by the current
// mondai ordinal. Lines that do not carry their group's expected
// delimiter are dropped without a record; emitting nothing beats
// emitting a corrupted row.
func (s *Segmenter) processVocabLine(line layout.Line, text string, underlines []layout.Rect, page int) {
	switch s.mondai {
	case mondaiFillInBlank:
		if numberedLineRe.MatchString(text) {
			if rec := fillInBlankRecord(markSpans(line.Spans, underlines), text, page); rec.Valid() {
				s.records = append(s.records, rec)
			}
		}
	case mondaiKanjiKanaFirst, mondaiKanjiKanaSecond:
		if strings.Contains(text, "「") {
			if rec, ok := kanjiKanaRecord(text, page); ok {
				s.records = append(s.records, rec)
			}
		}
	case mondaiSynonym:
		if rec, ok := synonymRecord(text, page); ok {
			s.records = append(s.records, rec)
		}
	case mondaiConstruction:
		if rec, ok := constructionRecord(text, page); ok {
			s.records = append(s.records, rec)
		}
	}
}

// Finish flushes any still-open question and returns every record
// segmented so far. A document ending mid-question still yields its
// final record.
func (s *Segmenter) Finish() []Record {
	s.flushOpen()
	return s.records
}

// flushOpen finalizes the open grammar accumulator into a record. The
// full sentence is the newline join of the accumulated lines; the answer
// is the order-preserving concatenation of every marked span, excised
// from the sentence at its first occurrence. An accumulator whose text
// reduces to an empty prompt produces no record.
func (s *Segmenter) flushOpen() {
	acc := s.open
	s.open = nil
	if acc == nil {
		return
	}

	var fullB, answerB strings.Builder
	for i, line := range acc.lines {
		if i > 0 {
			fullB.WriteString("\n")
		}
		for _, m := range line {
			fullB.WriteString(m.Text)
			if m.Marked {
				answerB.WriteString(m.Text)
			}
		}
	}
	full := strings.TrimSpace(fullB.String())
	answer := strings.TrimSpace(answerB.String())

	rec := Record{
		Type:       TypeGrammarReading,
		Number:     acc.number,
		Question:   stripOrdinal(excise(full, answer)),
		Answer:     answer,
		SourcePage: acc.page,
	}
	if !rec.Valid() {
		return
	}
	s.records = append(s.records, rec)
}

func (s *Segmenter) isWatermarked(text string) bool {
	for _, w := range s.watermarks {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}
