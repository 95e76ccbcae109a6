package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fences", in: `  ["a","b"] `, want: `["a","b"]`},
		{name: "json tag", in: "```json\n[\"x\",\"y\"]\n```", want: `["x","y"]`},
		{name: "bare fence", in: "```\nhello\n```", want: "hello"},
		{name: "upper tag", in: "```JSON\n{}\n```", want: "{}"},
		{name: "only opening", in: "```json\n[1]", want: "[1]"},
		{name: "inline content after fence", in: "```[\"a\",\"b\"]```", want: `["a","b"]`},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab…", Truncate("abc", 2))
	assert.Equal(t, "пр…", Truncate("привет", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
