package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the result at maxLen
// runes. Counting runes rather than bytes keeps a multibyte character from
// being split mid-sequence. A maxLen of zero or less means no cap.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= maxLen {
		return trimmed
	}
	return string(runes[:maxLen])
}
