package ai

import (
	"fmt"
	"unicode/utf8"
)

// Input caps, in characters (runes).
const (
	MaxChatContext = 30000
	MaxSpeechText  = 4000
	MaxDiagramText = 8000
)

// Markers appended when an input is cut.
const (
	ChatTruncationMarker   = "...(truncated)"
	SpeechTruncationMarker = "... (text truncated)"
)

// NotFoundAnswer is the phrase the model must use when the document does not
// answer the question.
const NotFoundAnswer = "I couldn't find that information in the document."

// truncate returns the first n runes of s and whether anything was cut.
func truncate(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i, count := 0, 0
	for i = range s {
		if count == n {
			break
		}
		count++
	}
	return s[:i], true
}

// truncateWithMarker cuts s to n runes and appends marker when it was cut.
func truncateWithMarker(s string, n int, marker string) string {
	if cut, ok := truncate(s, n); ok {
		return cut + marker
	}
	return s
}

func summarizePrompt(text string) string {
	return "Summarize the following document in a few concise bullet points:\n\n---\n\n" + text
}

func chatPrompt(context, question string) string {
	return fmt.Sprintf(`You are a helpful AI teaching assistant.
You are provided with a document text below.
Answer the user's question based ONLY on that text.
If the answer is not in the text, say %q.
Keep answers concise and helpful.

DOCUMENT CONTEXT:
%s

USER QUESTION:
%s
`, NotFoundAnswer, truncateWithMarker(context, MaxChatContext, ChatTruncationMarker), question)
}

// NarrationStyle is the delivery requested for generated speech.
const NarrationStyle = "Say this in a clear, professional, American accent"

func speechRequest(text string) SpeechRequest {
	return SpeechRequest{
		Text:  truncateWithMarker(text, MaxSpeechText, SpeechTruncationMarker),
		Style: NarrationStyle,
	}
}

// diagramPrompt cuts text to MaxDiagramText runes. Unlike chat and speech,
// no marker is appended.
func diagramPrompt(text string) string {
	cut, _ := truncate(text, MaxDiagramText)
	return `Create a text-based flowchart using Mermaid.js syntax for the following text.

STRICT RULES:
1. Start strictly with 'graph TD'.
2. Use standard nodes: A[Topic] --> B(Subtopic).
3. Do NOT use brackets within node labels (e.g., avoid [Text (Extra)]).
4. Do NOT use Markdown formatting (no ` + "```mermaid or ```" + `).
5. Return ONLY the code. No text before or after.

TEXT:
` + cut + "\n"
}
