package asr

import (
	"strings"
	"unicode"
)

// Assemble joins final transcript segments into one utterance: whitespace is
// collapsed and sentence starts are capitalized.
func Assemble(segments []string) string {
	if len(segments) == 0 {
		return ""
	}

	joined := strings.Join(segments, " ")
	normalized := strings.Join(strings.Fields(joined), " ")
	if normalized == "" {
		return ""
	}
	return capitalizeSentences(normalized)
}

// capitalizeSentences uppercases the first letter after start and after
// sentence-ending punctuation followed by a space.
func capitalizeSentences(text string) string {
	runes := []rune(text)

	var out strings.Builder
	out.Grow(len(text))

	capitalizeNext := true
	for _, r := range runes {
		switch {
		case capitalizeNext && unicode.IsLetter(r):
			r = unicode.ToUpper(r)
			capitalizeNext = false
		case capitalizeNext && unicode.IsDigit(r):
			// Numbers start sentences unchanged, e.g. "3 apples".
			capitalizeNext = false
		case r == '.' || r == '!' || r == '?':
			capitalizeNext = true
		}
		out.WriteRune(r)
	}

	return out.String()
}
