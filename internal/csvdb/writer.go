// Package csvdb reads and writes the question database: a UTF-8,
// byte-order-mark prefixed CSV with one header row and a fixed column
// order.
package csvdb

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/yuukibui/jlpt-extract/internal/extract"
)

// utf8BOM prefixes output files so spreadsheet tools pick up the
// encoding; Japanese text renders garbled without it in several of them.
const utf8BOM = "\xef\xbb\xbf"

// Columns is the fixed output schema, in order.
var Columns = []string{"type", "number", "dialogue", "question", "choices", "answer", "source_page"}

// WriteFile writes records to path in the fixed schema. Fields a record
// never set render as empty strings. A sink failure aborts the whole
// run, so the error carries the path.
func WriteFile(path string, records []extract.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("cannot write to %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("cannot write header to %s: %w", path, err)
	}
	for _, rec := range records {
		if err := w.Write(row(rec)); err != nil {
			return fmt.Errorf("cannot write record to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("cannot flush %s: %w", path, err)
	}
	return nil
}

func row(rec extract.Record) []string {
	return []string{
		string(rec.Type),
		rec.Number,
		rec.Dialogue,
		rec.Question,
		rec.Choices,
		rec.Answer,
		strconv.Itoa(rec.SourcePage),
	}
}
