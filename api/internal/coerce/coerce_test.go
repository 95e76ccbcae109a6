package coerce

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"promptify/api/internal/prompt"
)

func TestPair(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   prompt.Pair
		parsed bool
	}{
		{"plain array", `["a","b"]`, prompt.Pair{"a", "b"}, true},
		{"fenced json", "```json\n[\"x\",\"y\"]\n```", prompt.Pair{"x", "y"}, true},
		{"bare fence", "```\n[\"x\",\"y\"]\n```", prompt.Pair{"x", "y"}, true},
		{"surrounding prose", "Sure! Here you go:\n[\"one\", \"two\"]\nEnjoy.", prompt.Pair{"one", "two"}, true},
		{"not json", "not json", prompt.Pair{"not json", SecondPromptPlaceholder}, false},
		{"three elements", `["a","b","c"]`, prompt.Pair{`["a","b","c"]`, SecondPromptPlaceholder}, false},
		{"one element", `["a"]`, prompt.Pair{`["a"]`, SecondPromptPlaceholder}, false},
		{"non string", `["a", 2]`, prompt.Pair{`["a", 2]`, SecondPromptPlaceholder}, false},
		{"object", `{"a":"b"}`, prompt.Pair{`{"a":"b"}`, SecondPromptPlaceholder}, false},
		{"empty", "", prompt.Pair{"", SecondPromptPlaceholder}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parsed := Pair(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Pair(%q) (-want +got):\n%s", tt.raw, diff)
			}
			assert.Equal(t, tt.parsed, parsed)
		})
	}
}

func TestSingle(t *testing.T) {
	assert.Equal(t, "answer", Single("  answer \n"))
	assert.Equal(t, "```go\nx\n```", Single("```go\nx\n```"))
}
