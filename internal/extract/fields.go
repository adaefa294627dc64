package extract

import (
	"regexp"
	"strings"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

var (
	numberedLineRe  = regexp.MustCompile(`^(\d+)\.`)
	ordinalPrefixRe = regexp.MustCompile(`^\d+\.[\s　]*`)
	kanjiKanaRe     = regexp.MustCompile(`(\d+)\.(.*)「(.*)」`)
)

// spanMark pairs a span's text with its answer-mark classification. The
// classification happens when the span's page is in hand, so accumulated
// spans never need their originating page's underline set again.
type spanMark struct {
	Text   string
	Marked bool
}

// markSpans classifies every span of a line against the page's underlines.
func markSpans(spans []layout.Span, underlines []layout.Rect) []spanMark {
	marks := make([]spanMark, 0, len(spans))
	for _, s := range spans {
		marks = append(marks, spanMark{
			Text:   s.Text,
			Marked: layout.IsSpanMarked(s, underlines),
		})
	}
	return marks
}

// splitMarked concatenates a line's span texts and, separately, the texts
// of its marked spans. Disjoint marked runs merge with no separator; that
// mirrors how a styled answer split across adjacent runs reads as one
// token in the source layout.
func splitMarked(marks []spanMark) (full, answer string) {
	var fullB, answerB strings.Builder
	for _, m := range marks {
		fullB.WriteString(m.Text)
		if m.Marked {
			answerB.WriteString(m.Text)
		}
	}
	return fullB.String(), answerB.String()
}

// excise replaces the first occurrence of answer inside sentence with the
// placeholder token. A missing or empty answer leaves the sentence as is.
func excise(sentence, answer string) string {
	if answer == "" || !strings.Contains(sentence, answer) {
		return sentence
	}
	return strings.Replace(sentence, answer, Placeholder, 1)
}

// stripOrdinal removes a leading "N. " prefix from a question prompt.
func stripOrdinal(text string) string {
	return strings.TrimSpace(ordinalPrefixRe.ReplaceAllString(text, ""))
}

// fillInBlankRecord builds a Fill-in-the-Blank record from one marked
// line. The answer is the concatenation of marked spans; its first
// occurrence in the sentence becomes the placeholder.
func fillInBlankRecord(marks []spanMark, lineText string, page int) Record {
	full, answer := splitMarked(marks)
	answer = strings.TrimSpace(answer)
	question := stripOrdinal(excise(full, answer))
	return Record{
		Type:       TypeFillInBlank,
		Number:     strings.SplitN(lineText, ".", 2)[0],
		Question:   question,
		Answer:     answer,
		SourcePage: page,
	}
}

// kanjiKanaRecord parses a vocabulary reading line of the shape
// "N.<text>「<reading>」". The bracketed reading is the answer.
func kanjiKanaRecord(lineText string, page int) (Record, bool) {
	m := kanjiKanaRe.FindStringSubmatch(lineText)
	if m == nil {
		return Record{}, false
	}
	return Record{
		Type:       TypeVocabularyKanjiKana,
		Number:     m[1],
		Question:   strings.TrimSpace(m[2]),
		Answer:     strings.TrimSpace(m[3]),
		SourcePage: page,
	}, true
}

// synonymRecord parses a synonym line "N.<prompt>=<answer>", splitting on
// the first "=" and then the first "." on the left side.
func synonymRecord(lineText string, page int) (Record, bool) {
	eq := strings.SplitN(lineText, "=", 2)
	if len(eq) != 2 {
		return Record{}, false
	}
	dot := strings.SplitN(eq[0], ".", 2)
	if len(dot) != 2 {
		return Record{}, false
	}
	return Record{
		Type:       TypeSynonym,
		Number:     strings.TrimSpace(dot[0]),
		Question:   strings.TrimSpace(dot[1]),
		Answer:     strings.TrimSpace(eq[1]),
		SourcePage: page,
	}, true
}

// constructionRecord parses a sentence-construction line "…⇒…". The left
// side is kept whole, ordinal included, matching the source layout's
// literal rendering of these items.
func constructionRecord(lineText string, page int) (Record, bool) {
	parts := strings.SplitN(lineText, "⇒", 2)
	if len(parts) != 2 {
		return Record{}, false
	}
	left := strings.TrimSpace(parts[0])
	return Record{
		Type:       TypeSentenceConstruction,
		Number:     left,
		Question:   left,
		Answer:     strings.TrimSpace(parts[1]),
		SourcePage: page,
	}, true
}
