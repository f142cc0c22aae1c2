package render

import (
	"context"
	"strings"

	"github.com/porticus-lab/bionic-api/internal/apperr"
)

// Printer turns a complete HTML document into a PDF. [*Converter] is the
// production implementation.
type Printer interface {
	ConvertHTML(ctx context.Context, html string, pg *PageConfig) (*Result, error)
}

// Renderer produces reader PDFs from HTML fragments.
type Renderer struct {
	printer Printer
	page    PageConfig
}

// NewRenderer returns a Renderer printing through p with the default page setup.
func NewRenderer(p Printer) *Renderer {
	return &Renderer{printer: p, page: DefaultPageConfig()}
}

// Render wraps fragment in the document shell and prints it.
// An empty fragment is an [apperr.MissingField] error.
func (r *Renderer) Render(ctx context.Context, fragment string, style Style) (*Result, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, apperr.New(apperr.MissingField, "Missing 'text' in request")
	}
	doc, err := Shell(fragment, style)
	if err != nil {
		return nil, err
	}
	pg := r.page
	return r.printer.ConvertHTML(ctx, doc, &pg)
}
