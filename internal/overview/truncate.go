package overview

import "strings"

// TruncationMarker is appended to any content cut at the word budget. Full
// content stays retrievable through the get operation.
const TruncationMarker = "... [truncated: use get for full content]"

// DefaultTruncateWords is the word budget applied when the caller does not
// supply one.
const DefaultTruncateWords = 200

// Truncate cuts content to the first budget whitespace-delimited words and
// appends the truncation marker. Content at or under the budget is returned
// untouched; truncation never splits a word. A non-positive budget disables
// truncation.
func Truncate(content string, budget int) string {
	if budget <= 0 {
		return content
	}

	words := strings.Fields(content)
	if len(words) <= budget {
		return content
	}

	return strings.Join(words[:budget], " ") + " " + TruncationMarker
}
