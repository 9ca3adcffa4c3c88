package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims input, drops control characters and caps it at maxLen
// bytes without splitting a rune. Used for staff and till identifiers.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen <= 0 || len(cleaned) <= maxLen {
		return cleaned
	}
	cut := 0
	for i := range cleaned {
		if i > maxLen {
			break
		}
		cut = i
	}
	return cleaned[:cut]
}
