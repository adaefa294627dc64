package extract

import (
	"regexp"
	"strings"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

var listeningLabelRe = regexp.MustCompile(`^\d+番`)

// ListeningSegmenter walks the listening-script document block by block.
// A block starting with a "N番" label opens a new question; every
// following block appends to it until the next label. On finalize the
// last accumulated line becomes the question prompt and the preceding
// lines become the dialogue.
type ListeningSegmenter struct {
	watermarks []string
	number     string
	page       int
	parts      []string
	active     bool
	records    []Record
}

// NewListeningSegmenter creates a listening segmenter with no open
// question. Blocks containing any watermark substring are dropped before
// label detection.
func NewListeningSegmenter(watermarks []string) *ListeningSegmenter {
	return &ListeningSegmenter{watermarks: watermarks}
}

// ProcessBlock consumes one paragraph block in reading order. page is the
// block's 1-based page number; the question keeps the page it opened on.
func (ls *ListeningSegmenter) ProcessBlock(block layout.Block, page int) {
	text := strings.TrimSpace(block.Text())
	if ls.isWatermarked(text) {
		return
	}

	if listeningLabelRe.MatchString(text) {
		ls.flushOpen()
		ls.active = true
		ls.page = page
		if idx := strings.Index(text, "\n"); idx >= 0 {
			ls.number = text[:idx]
			ls.parts = append(ls.parts, strings.Split(text[idx+1:], "\n")...)
		} else {
			ls.number = text
		}
		return
	}

	if ls.active && text != "" {
		ls.parts = append(ls.parts, strings.Split(text, "\n")...)
	}
}

// Finish flushes the open question, if any, and returns every record
// segmented so far.
func (ls *ListeningSegmenter) Finish() []Record {
	ls.flushOpen()
	return ls.records
}

// flushOpen finalizes the open question. With more than one accumulated
// line the last becomes the prompt and the rest, newline-joined, the
// dialogue; a single line is the prompt with no dialogue. A label with no
// content at all produces no record.
func (ls *ListeningSegmenter) flushOpen() {
	if !ls.active {
		return
	}
	ls.active = false
	parts := ls.parts
	ls.parts = nil

	rec := Record{
		Type:       TypeListening,
		Number:     ls.number,
		SourcePage: ls.page,
	}
	switch {
	case len(parts) > 1:
		rec.Question = parts[len(parts)-1]
		rec.Dialogue = strings.Join(parts[:len(parts)-1], "\n")
	case len(parts) == 1:
		rec.Question = parts[0]
	}
	if !rec.Valid() {
		return
	}
	ls.records = append(ls.records, rec)
}

func (ls *ListeningSegmenter) isWatermarked(text string) bool {
	for _, w := range ls.watermarks {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}
