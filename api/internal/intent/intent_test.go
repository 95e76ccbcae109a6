package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"write code for x", Technical},
		{"schedule a call", Scheduling},
		{"hello world", General},
		{"Send an EMAIL to the team", Communication},
		{"fix the email parsing code", Technical},
		{"create a blog post", Content},
		{"book a meeting room", Scheduling},
		{"design a REST API", Technical},
		{"", General},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
			assert.Equal(t, Classify(tt.in), Classify(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, Technical, Parse(" Technical "))
	assert.Equal(t, General, Parse("unknown"))
}
