package search

import "strings"

// snippetMaxRunes caps snippet length. Snippets come from the best-scoring
// segment of a page, never from segment identifiers.
const snippetMaxRunes = 240

// makeSnippet builds a display snippet from segment text.
// Whitespace is collapsed, and text longer than the cap is cut at the last
// word boundary before it with an ellipsis appended.
func makeSnippet(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= snippetMaxRunes {
		return collapsed
	}

	cut := string(runes[:snippetMaxRunes])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
