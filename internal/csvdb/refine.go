package csvdb

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/yuukibui/jlpt-extract/internal/extract"
)

// RefineQuestion replaces the first occurrence of a non-empty answer
// inside the question with the placeholder token. Once substituted the
// answer no longer occurs in the question, so the operation is
// idempotent: refining refined output is a no-op.
func RefineQuestion(question, answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" || !strings.Contains(question, answer) {
		return question
	}
	return strings.Replace(question, answer, extract.Placeholder, 1)
}

// RefineFile reads a manually corrected database from inPath, reformats
// each row's question against its corrected answer, and writes the
// result to outPath. The input's column order is preserved as-is; only
// the question column changes and the row count stays identical.
// Returns the number of rows processed.
func RefineFile(inPath, outPath string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("manual correction file not found at %s", inPath)
		}
		return 0, fmt.Errorf("cannot open %s: %w", inPath, err)
	}
	defer in.Close()

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("cannot parse %s: %w", inPath, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("manual correction file %s is empty", inPath)
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	questionCol, answerCol := -1, -1
	for i, name := range header {
		switch name {
		case "question":
			questionCol = i
		case "answer":
			answerCol = i
		}
	}
	if questionCol < 0 || answerCol < 0 {
		return 0, fmt.Errorf("%s must have question and answer columns", inPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("cannot create output file %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := out.WriteString(utf8BOM); err != nil {
		return 0, fmt.Errorf("cannot write to %s: %w", outPath, err)
	}
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("cannot write header to %s: %w", outPath, err)
	}

	count := 0
	for _, record := range rows[1:] {
		if questionCol < len(record) && answerCol < len(record) {
			record[questionCol] = RefineQuestion(record[questionCol], record[answerCol])
		}
		if err := w.Write(record); err != nil {
			return 0, fmt.Errorf("cannot write record to %s: %w", outPath, err)
		}
		count++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("cannot flush %s: %w", outPath, err)
	}
	return count, nil
}
