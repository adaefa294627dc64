package extract

import (
	"testing"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

func textBlock(lines ...string) layout.Block {
	block := layout.Block{}
	for _, text := range lines {
		block.Lines = append(block.Lines, textLine(text))
	}
	return block
}

func TestListeningSegmenterDialogueSplit(t *testing.T) {
	seg := NewListeningSegmenter(nil)
	seg.ProcessBlock(textBlock("1番"), 1)
	seg.ProcessBlock(textBlock("店員：いらっしゃいませ"), 1)
	seg.ProcessBlock(textBlock("何を買いますか。"), 1)

	records := seg.Finish()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Number != "1番" {
		t.Errorf("number = %q, want 1番", rec.Number)
	}
	if rec.Dialogue != "店員：いらっしゃいませ" {
		t.Errorf("dialogue = %q", rec.Dialogue)
	}
	if rec.Question != "何を買いますか。" {
		t.Errorf("question = %q", rec.Question)
	}
	if rec.Type != TypeListening {
		t.Errorf("type = %q", rec.Type)
	}
}

func TestListeningSegmenterSinglePartIsQuestion(t *testing.T) {
	seg := NewListeningSegmenter(nil)
	seg.ProcessBlock(textBlock("2番", "何時に起きますか。"), 1)

	records := seg.Finish()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Dialogue != "" {
		t.Errorf("dialogue = %q, want empty", records[0].Dialogue)
	}
	if records[0].Question != "何時に起きますか。" {
		t.Errorf("question = %q", records[0].Question)
	}
}

func TestListeningSegmenterMultipleQuestions(t *testing.T) {
	seg := NewListeningSegmenter(nil)
	seg.ProcessBlock(textBlock("1番", "男：こんにちは"), 1)
	seg.ProcessBlock(textBlock("どこへ行きますか。"), 1)
	seg.ProcessBlock(textBlock("2番", "女：すみません"), 2)
	seg.ProcessBlock(textBlock("何を頼みますか。"), 2)

	records := seg.Finish()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Number != "1番" || records[0].SourcePage != 1 {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Number != "2番" || records[1].SourcePage != 2 {
		t.Errorf("second record = %+v", records[1])
	}
	if records[1].Dialogue != "女：すみません" {
		t.Errorf("second dialogue = %q", records[1].Dialogue)
	}
}

func TestListeningSegmenterIgnoresLeadingBlocks(t *testing.T) {
	seg := NewListeningSegmenter(nil)
	seg.ProcessBlock(textBlock("聴解スクリプト"), 1)
	seg.ProcessBlock(textBlock("1番", "質問です。"), 1)

	records := seg.Finish()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Dialogue != "" || records[0].Question != "質問です。" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestListeningSegmenterWatermarkExclusion(t *testing.T) {
	seg := NewListeningSegmenter([]string{"Script Nghe"})
	seg.ProcessBlock(textBlock("1番", "男：おはよう"), 1)
	seg.ProcessBlock(textBlock("Script Nghe 2024"), 1)
	seg.ProcessBlock(textBlock("何と言いましたか。"), 1)

	records := seg.Finish()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Dialogue != "男：おはよう" {
		t.Errorf("dialogue = %q, watermark block must not contribute", records[0].Dialogue)
	}
}

func TestListeningSegmenterLabelWithoutContent(t *testing.T) {
	// A bare label with no following content cannot produce a record
	// that satisfies the non-empty question invariant.
	seg := NewListeningSegmenter(nil)
	seg.ProcessBlock(textBlock("3番"), 1)

	if records := seg.Finish(); len(records) != 0 {
		t.Errorf("expected no record for a contentless label, got %d", len(records))
	}
}

func TestListeningSegmenterEndOfDocumentFlush(t *testing.T) {
	seg := NewListeningSegmenter(nil)
	seg.ProcessBlock(textBlock("4番", "最後の質問です。"), 3)

	records := seg.Finish()
	if len(records) != 1 {
		t.Fatalf("document ending mid-question must still flush, got %d records", len(records))
	}
	if records[0].SourcePage != 3 {
		t.Errorf("source page = %d, want 3", records[0].SourcePage)
	}
}
