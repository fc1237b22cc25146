package emit

import (
	"strings"
	"unicode"
)

// sanitizeIdentifier replaces every character that cannot appear in an
// identifier with an underscore. It never drops characters, so distinct
// inputs of the same length stay distinct unless they differ only in
// punctuation.
func sanitizeIdentifier(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// exportedName converts a sanitized snake_case name into an exported Go
// identifier. The second result is false when the input cannot form a
// valid identifier at all (empty, or no leading letter after
// sanitization).
func exportedName(s string) (string, bool) {
	var sb strings.Builder
	for _, part := range strings.Split(sanitizeIdentifier(s), "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	name := sb.String()
	if name == "" {
		return "", false
	}
	if first := []rune(name)[0]; !unicode.IsLetter(first) {
		return "", false
	}
	return name, true
}

// packageName converts a namespace segment into a Go package name. The
// second result is false when nothing identifier-like remains.
func packageName(segment string) (string, bool) {
	cleaned := strings.ReplaceAll(sanitizeIdentifier(strings.ToLower(segment)), "_", "")
	if cleaned == "" {
		return "", false
	}
	if first := []rune(cleaned)[0]; !unicode.IsLetter(first) {
		return "", false
	}
	return cleaned, true
}
