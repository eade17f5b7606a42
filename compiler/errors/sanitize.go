package errors

import (
	"fmt"
	"strings"
	"unicode"
)

// Sanitization keeps proprietary source content out of every outward-facing
// message. Raw token values are replaced with a redacted placeholder naming
// only their length, filesystem-like paths collapse to <REDACTED>, and
// unusual characters are cited by code point.

// RedactContent replaces a raw source substring with a placeholder carrying
// only its length in characters.
func RedactContent(raw string) string {
	return fmt.Sprintf("[content sanitized, %d chars]", len([]rune(raw)))
}

// RedactPair describes an expected/actual pair without leaking either value.
func RedactPair(expected, actual string) string {
	return fmt.Sprintf("[expected: %d chars, actual: %d chars]",
		len([]rune(expected)), len([]rune(actual)))
}

// DescribeRune cites a character by its Unicode code point instead of
// echoing it.
func DescribeRune(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// RedactPaths replaces filesystem-like path segments in a message with a
// placeholder. A path is an absolute token starting with `/` that holds at
// least two slashes, a drive-letter token such as `C:\` or `C:/`, or a token
// holding at least two backslashes; relative forward-slash paths are kept.
func RedactPaths(message string) string {
	fields := strings.Fields(message)
	changed := false
	for i, f := range fields {
		if looksLikePath(f) {
			fields[i] = "<REDACTED>"
			changed = true
		}
	}
	if !changed {
		return message
	}
	return strings.Join(fields, " ")
}

func looksLikePath(s string) bool {
	trimmed := strings.Trim(s, "\"'.,;:()")
	if strings.HasPrefix(trimmed, "/") && strings.Count(trimmed, "/") >= 2 {
		return true
	}
	if len(trimmed) > 2 && trimmed[1] == ':' && (trimmed[2] == '\\' || trimmed[2] == '/') {
		return true
	}
	if strings.Count(trimmed, "\\") >= 2 {
		return true
	}
	return false
}

// SanitizeMessage applies the full redaction pipeline to a message template
// that is already free of raw token values: paths are redacted and control
// or otherwise unusual characters are rewritten as code-point citations.
func SanitizeMessage(message string) string {
	message = RedactPaths(message)
	var b strings.Builder
	for _, r := range message {
		if r == '\n' || r == '\t' || (unicode.IsPrint(r) && r < 0x2028) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(DescribeRune(r))
	}
	return b.String()
}
