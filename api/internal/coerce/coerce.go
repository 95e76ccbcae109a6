// Package coerce forces unreliable upstream text into the response shapes
// the dispatcher promises its callers.
package coerce

import (
	"encoding/json"
	"regexp"
	"strings"

	"promptify/api/internal/prompt"
	"promptify/api/internal/util"
)

// SecondPromptPlaceholder fills the second slot when the upstream text could
// not be read as a pair.
const SecondPromptPlaceholder = "Could not generate a second prompt due to a formatting issue."

var arraySpan = regexp.MustCompile(`(?s)\[.*\]`)

// Pair always returns two strings. A JSON array of exactly two strings,
// optionally fenced or embedded in surrounding text, is returned as is;
// anything else yields raw followed by SecondPromptPlaceholder.
func Pair(raw string) (prompt.Pair, bool) {
	stripped := util.StripCodeFences(raw)
	if p, ok := parsePair(stripped); ok {
		return p, true
	}
	if m := arraySpan.FindString(stripped); m != "" && m != stripped {
		if p, ok := parsePair(m); ok {
			return p, true
		}
	}
	return prompt.Pair{raw, SecondPromptPlaceholder}, false
}

func parsePair(s string) (prompt.Pair, bool) {
	var items []any
	if err := json.Unmarshal([]byte(s), &items); err != nil || len(items) != 2 {
		return prompt.Pair{}, false
	}
	var p prompt.Pair
	for i, it := range items {
		str, ok := it.(string)
		if !ok {
			return prompt.Pair{}, false
		}
		p[i] = str
	}
	return p, true
}

// Single returns the upstream text trimmed, without any parsing.
func Single(raw string) string {
	return strings.TrimSpace(raw)
}
