package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateLine(t *testing.T) {
	tests := map[string]struct {
		line     string
		maxLen   int
		expected string
	}{
		"short line unchanged": {
			line:     "user: hello there",
			maxLen:   100,
			expected: "user: hello there",
		},
		"exact length unchanged": {
			line:     "abcde",
			maxLen:   5,
			expected: "abcde",
		},
		"long line truncated with ellipsis": {
			line:     "agent: " + strings.Repeat("word ", 30),
			maxLen:   20,
			expected: strings.TrimSpace(("agent: " + strings.Repeat("word ", 30))[:20]) + "…",
		},
		"zero max disables truncation": {
			line:     strings.Repeat("x", 500),
			maxLen:   0,
			expected: strings.Repeat("x", 500),
		},
		"negative max disables truncation": {
			line:     strings.Repeat("x", 500),
			maxLen:   -1,
			expected: strings.Repeat("x", 500),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncateLine(tt.line, tt.maxLen))
		})
	}
}

func TestTruncateLineDropsTrailingSpace(t *testing.T) {
	// A cut landing on a space must not leave "word …".
	out := truncateLine("hello world again", 6)
	assert.Equal(t, "hello…", out)
}
