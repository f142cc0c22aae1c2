package ai

import (
	"regexp"
	"strings"
)

// graphDeclaration matches a Mermaid flowchart header such as "graph TD" or
// "graph LR".
var graphDeclaration = regexp.MustCompile(`graph [A-Z]{2}`)

// CleanDiagram normalizes model output that should be bare Mermaid code.
//
// In order, it removes every "```mermaid" and "```" fence marker, drops any
// text before the first graph declaration, and trims surrounding whitespace.
// When no declaration is present the fence-stripped, trimmed text is
// returned as is; CleanDiagram never invents one. It is idempotent.
func CleanDiagram(raw string) string {
	s := strings.ReplaceAll(raw, "```mermaid", "")
	s = strings.ReplaceAll(s, "```", "")

	if loc := graphDeclaration.FindStringIndex(s); loc != nil {
		s = s[loc[0]:]
	}
	return strings.TrimSpace(s)
}
