// Package pdfdoc opens exam PDFs and decomposes each page into the
// layout model the extractors consume: text blocks with font metadata
// plus the page's vector drawing primitives. Reading uses
// ledongthuc/pdf; structural validation uses pdfcpu.
package pdfdoc

import (
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/yuukibui/jlpt-extract/internal/layout"
)

// Fallback page size when a page carries no resolvable MediaBox.
// A4 portrait, the stock JLPT exam sheet size.
const (
	defaultPageWidth  = 595.0
	defaultPageHeight = 842.0
)

// Document is an open PDF ready for page decomposition. It implements
// extract.PageSource.
type Document struct {
	file   *os.File
	reader *pdf.Reader
	closed bool
}

// Open validates and opens the PDF at path. maxFileSize caps the input
// size in bytes; a non-positive value disables the cap.
func Open(path string, maxFileSize int64) (*Document, error) {
	if err := ValidateFile(path, maxFileSize); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	return &Document{file: f, reader: r}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.reader.NumPage()
}

// Close releases the underlying file. Further page access fails.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.file.Close()
}

// Page decomposes page number (1-based) into layout form. Malformed
// page data surfaces as an error for that page only, so a scan can skip
// it and continue.
func (d *Document) Page(number int) (page layout.Page, err error) {
	if d.closed {
		return layout.Page{}, fmt.Errorf("document is closed")
	}
	if number < 1 || number > d.reader.NumPage() {
		return layout.Page{}, fmt.Errorf("invalid page number %d", number)
	}

	// ledongthuc/pdf panics on malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: malformed page data: %v", number, r)
		}
	}()

	p := d.reader.Page(number)
	if p.V.IsNull() {
		return layout.Page{}, fmt.Errorf("page %d: missing page object", number)
	}

	width, height := pageSize(p)

	content := p.Content()
	blocks := assemblePage(content.Text, height)

	drawings, err := pageDrawings(p, height)
	if err != nil {
		return layout.Page{}, fmt.Errorf("page %d: %w", number, err)
	}

	return layout.Page{
		Number:   number,
		Width:    width,
		Height:   height,
		Blocks:   blocks,
		Drawings: drawings,
	}, nil
}

// pageDrawings parses the page's content streams for path-painting
// primitives and returns them in layout space.
func pageDrawings(p pdf.Page, pageHeight float64) ([]layout.Drawing, error) {
	contents := p.V.Key("Contents")
	if contents.IsNull() {
		return nil, nil
	}

	var drawings []layout.Drawing
	appendStream := func(v pdf.Value) error {
		if v.Kind() != pdf.Stream {
			return nil
		}
		data, err := io.ReadAll(v.Reader())
		if err != nil {
			return fmt.Errorf("cannot read content stream: %w", err)
		}
		drawings = append(drawings, parseDrawings(data, pageHeight)...)
		return nil
	}

	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			if err := appendStream(contents.Index(i)); err != nil {
				return nil, err
			}
		}
		return drawings, nil
	}
	if err := appendStream(contents); err != nil {
		return nil, err
	}
	return drawings, nil
}

// pageSize resolves the page's MediaBox, walking up the page tree for
// an inherited one when the page object carries none.
func pageSize(p pdf.Page) (width, height float64) {
	current := p.V
	for i := 0; i < 10; i++ {
		box := current.Key("MediaBox")
		if !box.IsNull() && box.Kind() == pdf.Array && box.Len() == 4 {
			w := numeric(box.Index(2)) - numeric(box.Index(0))
			h := numeric(box.Index(3)) - numeric(box.Index(1))
			if w > 0 && h > 0 {
				return w, h
			}
		}
		parent := current.Key("Parent")
		if parent.IsNull() {
			break
		}
		current = parent
	}
	return defaultPageWidth, defaultPageHeight
}

func numeric(v pdf.Value) float64 {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64())
	case pdf.Real:
		return v.Float64()
	default:
		return 0
	}
}
