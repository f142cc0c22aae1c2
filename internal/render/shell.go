package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// Style holds the reading settings applied to a rendered document.
type Style struct {
	LineSpacing   float64 // unitless line-height
	TextSize      float64 // px
	LetterSpacing float64 // px
}

// DefaultStyle returns the settings used when the caller sends none:
// line spacing 1.5, 16px text, no extra letter spacing.
func DefaultStyle() Style {
	return Style{LineSpacing: 1.5, TextSize: 16, LetterSpacing: 0}
}

// StyleInput is a partially specified Style, as decoded from a request.
// Nil fields fall back to [DefaultStyle].
type StyleInput struct {
	LineSpacing   *float64
	TextSize      *float64
	LetterSpacing *float64
}

// Resolved returns the complete Style for in.
func (in StyleInput) Resolved() Style {
	s := DefaultStyle()
	if in.LineSpacing != nil {
		s.LineSpacing = *in.LineSpacing
	}
	if in.TextSize != nil {
		s.TextSize = *in.TextSize
	}
	if in.LetterSpacing != nil {
		s.LetterSpacing = *in.LetterSpacing
	}
	return s
}

// DefaultFilenameStem names documents whose caller gave no filename.
const DefaultFilenameStem = "processed"

var pathSeparators = strings.NewReplacer("/", "-", "\\", "-")

// Filename returns the attachment name for a document with the given stem.
// Path separators in stem become "-" so the name stays a single path
// element.
func Filename(stem string) string {
	stem = pathSeparators.Replace(stem)
	if stem == "" {
		stem = DefaultFilenameStem
	}
	return "bionic-" + stem + ".pdf"
}

// The utility classes mirror the ones the reader front-end emits.
var shellTemplate = template.Must(template.New("shell").Funcs(template.FuncMap{
	"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;700&display=swap');

  @page { margin: 2cm; }
  body {
    font-family: 'Inter', sans-serif;
    line-height: {{num .Style.LineSpacing}};
    font-size: {{num .Style.TextSize}}px;
    letter-spacing: {{num .Style.LetterSpacing}}px;
    color: #374151;
  }
  strong {
    font-weight: 700;
    color: #000;
  }
  .text-lg { font-size: 1.125rem; }
  .font-semibold { font-weight: 600; }
  .text-gray-800 { color: #1f2937; }
  .mb-2 { margin-bottom: 0.5rem; }
  .mt-4 { margin-top: 1rem; }
  .ml-4 { margin-left: 1rem; }
  .mb-1 { margin-bottom: 0.25rem; }
</style>
</head>
<body>
{{.Fragment}}
</body>
</html>
`))

// Shell embeds an HTML fragment in the styled reader document. The fragment
// is inserted verbatim; it is produced by the reader front-end, not by end
// users.
func Shell(fragment string, style Style) (string, error) {
	var buf bytes.Buffer
	err := shellTemplate.Execute(&buf, struct {
		Fragment string
		Style    Style
	}{fragment, style})
	if err != nil {
		return "", fmt.Errorf("render: building document: %w", err)
	}
	return buf.String(), nil
}
