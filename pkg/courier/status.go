package courier

import (
	"strings"
	"unicode"
)

// StatusPending is the display status used when a provider reports nothing.
const StatusPending = "Pending"

// NormalizeStatus converts an arbitrary provider status token (snake_case,
// kebab-case, free text, mixed case) into a consistent title-cased display
// form. Empty or blank input yields StatusPending. The function is pure and
// total, and idempotent on already-normalized input.
func NormalizeStatus(status string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(status)
	words := strings.Fields(s)
	if len(words) == 0 {
		return StatusPending
	}
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
