package util

import (
	"strings"
	"unicode/utf8"
)

// StripCodeFences removes a leading ``` fence (with an optional language tag
// such as ```json) and a trailing ``` fence. Text without fences is only trimmed.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// language tag runs up to the first newline
		if i := strings.IndexByte(s, '\n'); i != -1 && isFenceTag(s[:i]) {
			s = s[i+1:]
		} else if isFenceTag(s) {
			s = ""
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return true
}

// Truncate cuts s to at most max runes, appending an ellipsis when it had to cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "…"
}

// Short is Truncate with the width used for log lines.
func Short(s string) string {
	return Truncate(s, 180)
}
