// Package extract pulls the plain-text layer out of uploaded PDF documents.
//
// Parsing is delegated to github.com/ledongthuc/pdf, which is pure Go and
// works on an in-memory io.ReaderAt, so uploads never touch the disk.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/porticus-lab/bionic-api/internal/apperr"
)

// Caller-facing messages, kept stable for the front-end.
const (
	msgEmptyUpload = "No selected file"
	msgCorrupt     = "Failed to open PDF. File may be corrupt or password-protected."
	msgNoText      = "No text content found in PDF"
)

// Document is the text extracted from a PDF.
type Document struct {
	// Text is every page's text concatenated in page order.
	Text string
	// Pages holds the text of each page; pages without a text layer are empty.
	Pages []string
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Extractor extracts text from PDF bytes. It holds no state and is safe for
// concurrent use.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses data as a PDF and returns its text.
//
// It fails with [apperr.EmptyUpload] for an empty buffer,
// [apperr.CorruptDocument] when the buffer is not a readable PDF (encrypted
// documents included) and [apperr.NoTextContent] when every page is blank.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*Document, error) {
	doc, err := e.ExtractPages(ctx, data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, apperr.New(apperr.NoTextContent, msgNoText)
	}
	return doc, nil
}

// ExtractPages is like Extract but returns blank documents without error.
func (e *Extractor) ExtractPages(ctx context.Context, data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.EmptyUpload, msgEmptyUpload)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = apperr.Wrap(apperr.CorruptDocument, msgCorrupt, fmt.Errorf("extract: parser panic: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Wrap(apperr.CorruptDocument, msgCorrupt, err)
	}

	n := r.NumPage()
	doc = &Document{Pages: make([]string, 0, n)}
	var all strings.Builder
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(r.Page(i))
		if err != nil {
			return nil, apperr.Wrap(apperr.CorruptDocument, msgCorrupt, fmt.Errorf("extract: page %d: %w", i, err))
		}
		doc.Pages = append(doc.Pages, text)
		all.WriteString(text)
	}
	doc.Text = all.String()
	return doc, nil
}

func pageText(p pdf.Page) (string, error) {
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
