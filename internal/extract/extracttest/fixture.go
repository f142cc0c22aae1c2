// Package extracttest builds small PDF documents for tests.
package extracttest

import (
	"bytes"
	"fmt"
)

// Text returns a content stream that draws line with the built-in font.
func Text(line string) []byte {
	return []byte(fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line))
}

// BuildPDF returns a minimal, well-formed PDF with one page per content
// stream. Every page references a Helvetica font under /F1.
func BuildPDF(contentStreams ...[]byte) []byte {
	var buf bytes.Buffer
	offsets := map[int]int{}
	obj := func(id int, body string) {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	buf.WriteString("%PDF-1.4\n")

	n := len(contentStreams)
	fontID := 3 + n*2

	kids := make([]byte, 0, n*8)
	for i := range contentStreams {
		if i > 0 {
			kids = append(kids, ' ')
		}
		kids = fmt.Appendf(kids, "%d 0 R", 3+i*2)
	}

	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	obj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))

	for i, cs := range contentStreams {
		pageID, csID := 3+i*2, 4+i*2
		obj(pageID, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>",
			csID, fontID))
		obj(csID, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(cs), cs))
	}
	obj(fontID, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	size := fontID + 1
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < size; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
	return buf.Bytes()
}
