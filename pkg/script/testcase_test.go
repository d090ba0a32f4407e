package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseValidate(t *testing.T) {
	tests := map[string]struct {
		turns       []TurnExpectation
		expectErr   bool
		errContains string
	}{
		"valid sequential turns": {
			turns: []TurnExpectation{
				{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
				{StepOrder: 2, UserInput: "Bye", ExpectedKeywords: []string{"goodbye"}},
			},
		},
		"no turns": {
			turns:       []TurnExpectation{},
			expectErr:   true,
			errContains: "at least one turn",
		},
		"step order gap": {
			turns: []TurnExpectation{
				{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
				{StepOrder: 3, UserInput: "Bye", ExpectedKeywords: []string{"goodbye"}},
			},
			expectErr:   true,
			errContains: "sequential",
		},
		"duplicate step order": {
			turns: []TurnExpectation{
				{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
				{StepOrder: 1, UserInput: "Bye", ExpectedKeywords: []string{"goodbye"}},
			},
			expectErr:   true,
			errContains: "sequential",
		},
		"starts at zero": {
			turns: []TurnExpectation{
				{StepOrder: 0, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
			},
			expectErr:   true,
			errContains: "sequential",
		},
		"empty keyword list": {
			turns: []TurnExpectation{
				{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{}},
			},
			expectErr:   true,
			errContains: "expectedKeywords cannot be empty",
		},
		"whitespace keyword": {
			turns: []TurnExpectation{
				{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi", "   "}},
			},
			expectErr:   true,
			errContains: "empty or whitespace",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tc, err := NewTestCase("tc-1", "Calm caller", tt.turns)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, tc)
		})
	}
}

func TestValidateTrimsKeywords(t *testing.T) {
	tc, err := NewTestCase("tc-trim", "persona", []TurnExpectation{
		{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"  hi ", "there"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "there"}, tc.Turns[0].ExpectedKeywords)
}

func TestValidateRequiresTestID(t *testing.T) {
	_, err := NewTestCase("", "persona", []TurnExpectation{
		{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testId")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hi there", Normalize("  Hi \t THERE  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestMatchesResponse(t *testing.T) {
	tests := map[string]struct {
		turn     TurnExpectation
		response string
		want     bool
	}{
		"containment is case-insensitive": {
			turn:     TurnExpectation{ExpectedKeywords: []string{"hi", "there"}},
			response: "Hi there, welcome!",
			want:     true,
		},
		"containment ignores keyword order": {
			turn:     TurnExpectation{ExpectedKeywords: []string{"there", "hi"}},
			response: "Hi there",
			want:     true,
		},
		"substring matches inside words": {
			turn:     TurnExpectation{ExpectedKeywords: []string{"hi"}},
			response: "this is fine",
			want:     true,
		},
		"missing keyword fails": {
			turn:     TurnExpectation{ExpectedKeywords: []string{"help", "options"}},
			response: "Sure, let me check",
			want:     false,
		},
		"exact match passes on normalized equality": {
			turn:     TurnExpectation{ExpectedKeywords: []string{"help", "options"}, ExactMatchRequired: true},
			response: "  Help   OPTIONS ",
			want:     true,
		},
		"exact match fails on extra words": {
			turn:     TurnExpectation{ExpectedKeywords: []string{"help", "options"}, ExactMatchRequired: true},
			response: "help options please",
			want:     false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.turn.MatchesResponse(tt.response))
		})
	}
}
