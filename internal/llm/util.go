package llm

import "strings"

// CleanJSONBlock strips a surrounding markdown code fence from a model
// response. Gemini wraps JSON in ```json fences often enough that every
// caller has to handle it before unmarshalling.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if first, rest, ok := strings.Cut(body, "\n"); ok && isLanguageTag(first) {
		body = rest
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// isLanguageTag reports whether a fence's first line is an info string
// like "json" rather than the start of the payload.
func isLanguageTag(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	return len(line) < 20 && !strings.ContainsAny(line, " {[\"")
}
