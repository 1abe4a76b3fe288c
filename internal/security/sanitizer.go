package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const maxDescriptionLength = 500

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims whitespace, removes null bytes and caps the length in runes.
func SanitizeString(input string, maxLen int) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if utf8.RuneCountInString(input) > maxLen {
		input = string([]rune(input)[:maxLen])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeDescription cleans free text before it is written to the ledger.
func SanitizeDescription(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return SanitizeString(SanitizeHTML(input), maxDescriptionLength)
}
