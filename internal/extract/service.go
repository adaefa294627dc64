package extract

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

// PageSource supplies per-page decompositions of one open document.
// Implementations own the underlying document handle; pages must be
// requested strictly in increasing order because segmenter state carries
// across page boundaries.
type PageSource interface {
	PageCount() int
	Page(number int) (layout.Page, error)
	Close() error
}

// QuestionExtractor is the alternative, model-backed extraction strategy:
// given one page's plain text it returns that page's question records.
type QuestionExtractor interface {
	ExtractPage(ctx context.Context, pageText string, pageNumber int) ([]Record, error)
}

// Service runs whole-document extraction scans over a PageSource.
type Service struct {
	watermarks []string
}

// NewService creates an extraction service. watermarks are exact
// substrings whose presence disqualifies a line or block from parsing.
func NewService(watermarks []string) *Service {
	return &Service{watermarks: watermarks}
}

// GrammarVocabResult reports a grammar/vocab answer-key scan.
type GrammarVocabResult struct {
	Records     []Record
	PagesFailed int
}

// ExtractGrammarVocab scans the grammar/vocab answer key. Underlines are
// recomputed per page and lines are fed to the segmenter in reading
// order; a page that fails to decompose is logged and skipped without
// aborting the scan.
func (s *Service) ExtractGrammarVocab(src PageSource) (*GrammarVocabResult, error) {
	if src == nil {
		return nil, fmt.Errorf("page source cannot be nil")
	}

	seg := NewSegmenter(s.watermarks)
	failed := 0
	for n := 1; n <= src.PageCount(); n++ {
		page, err := src.Page(n)
		if err != nil {
			log.Printf("page %d: skipping, decomposition failed: %v", n, err)
			failed++
			continue
		}
		underlines := layout.Underlines(page.Drawings)
		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				seg.ProcessLine(line, underlines, n)
			}
		}
	}

	return &GrammarVocabResult{Records: seg.Finish(), PagesFailed: failed}, nil
}

// ListeningResult reports a listening-script scan.
type ListeningResult struct {
	Records     []Record
	PagesFailed int
}

// ExtractListening scans the listening-script document block by block.
func (s *Service) ExtractListening(src PageSource) (*ListeningResult, error) {
	if src == nil {
		return nil, fmt.Errorf("page source cannot be nil")
	}

	seg := NewListeningSegmenter(s.watermarks)
	failed := 0
	for n := 1; n <= src.PageCount(); n++ {
		page, err := src.Page(n)
		if err != nil {
			log.Printf("page %d: skipping, decomposition failed: %v", n, err)
			failed++
			continue
		}
		for _, block := range page.Blocks {
			seg.ProcessBlock(block, n)
		}
	}

	return &ListeningResult{Records: seg.Finish(), PagesFailed: failed}, nil
}

// ModelResult reports a model-backed extraction scan.
type ModelResult struct {
	Records     []Record
	PagesFailed int
}

// ExtractWithModel hands each page's watermark-filtered plain text to the
// extractor. A page whose extraction or response decoding fails is logged
// and contributes zero records; the remaining pages still run.
func (s *Service) ExtractWithModel(ctx context.Context, src PageSource, extractor QuestionExtractor) (*ModelResult, error) {
	if src == nil {
		return nil, fmt.Errorf("page source cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}

	result := &ModelResult{}
	for n := 1; n <= src.PageCount(); n++ {
		page, err := src.Page(n)
		if err != nil {
			log.Printf("page %d: skipping, decomposition failed: %v", n, err)
			result.PagesFailed++
			continue
		}
		text := s.cleanPageText(page)
		if text == "" {
			continue
		}
		records, err := extractor.ExtractPage(ctx, text, n)
		if err != nil {
			log.Printf("page %d: skipping, extraction failed: %v", n, err)
			result.PagesFailed++
			continue
		}
		result.Records = append(result.Records, records...)
	}
	return result, nil
}

// cleanPageText renders the page as plain text with watermark-listed
// lines removed.
func (s *Service) cleanPageText(page layout.Page) string {
	var lines []string
	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			text := line.Text()
			if s.isWatermarked(text) {
				continue
			}
			lines = append(lines, text)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (s *Service) isWatermarked(text string) bool {
	for _, w := range s.watermarks {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}
