package analysis

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

const snippetLen = 100

// cleanModelResponse strips Markdown code fences around the reply and checks
// that what is left looks like a JSON object. It returns "" otherwise.
func cleanModelResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	if !(strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}")) {
		slog.Error("[Analyzer] Model response does not appear to be a JSON object after cleaning",
			slog.String("original_response_snippet", snippet(response)),
			slog.String("cleaned_response_snippet", snippet(cleaned)))
		return ""
	}

	return cleaned
}

func snippet(s string) string {
	if len(s) <= snippetLen {
		return s
	}
	cut := snippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
