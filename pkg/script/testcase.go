// Package script defines the ordered test case model, its construction-time
// invariants, and loaders for YAML and Gherkin feature documents.
package script

import (
	"fmt"
	"strings"

	"github.com/convocheck/convocheck/pkg/util"
)

const KindTestCase = "TestCase"

// TurnExpectation is a single scripted exchange: the line the caller speaks
// and the keywords the agent's reply must contain.
type TurnExpectation struct {
	// StepOrder is the 1-based position of this turn within the case.
	StepOrder int `json:"stepOrder"`

	// UserInput is the scripted line the simulated caller speaks.
	UserInput string `json:"userInput"`

	// ExpectedKeywords are the tokens the agent reply must contain.
	ExpectedKeywords []string `json:"expectedKeywords"`

	// ExactMatchRequired requires the reply to equal the space-joined
	// keyword list after normalization, instead of mere containment.
	ExactMatchRequired bool `json:"exactMatchRequired,omitempty"`
}

// TestCase is an ordered deterministic flow definition for a single test.
type TestCase struct {
	util.TypeMeta `json:",inline"`

	TestID  string            `json:"testId"`
	Persona string            `json:"persona"`
	Turns   []TurnExpectation `json:"turns"`
}

func (tc *TestCase) UnmarshalJSON(data []byte) error {
	type Doppleganger TestCase

	tmp := (*Doppleganger)(tc)
	return util.UnmarshalWithKind(data, tmp, KindTestCase)
}

// NewTestCase builds a validated test case.
func NewTestCase(testID, persona string, turns []TurnExpectation) (*TestCase, error) {
	tc := &TestCase{
		TestID:  testID,
		Persona: persona,
		Turns:   turns,
	}

	if err := tc.Validate(); err != nil {
		return nil, err
	}

	return tc, nil
}

// Validate enforces the construction invariants: a non-empty test id, at
// least one turn, strictly sequential step order starting at 1, and
// non-empty keywords. Keywords are trimmed in place.
func (tc *TestCase) Validate() error {
	if tc.TestID == "" {
		return fmt.Errorf("test case requires a testId")
	}

	if len(tc.Turns) == 0 {
		return fmt.Errorf("test case '%s' requires at least one turn expectation", tc.TestID)
	}

	for i := range tc.Turns {
		turn := &tc.Turns[i]

		if turn.StepOrder != i+1 {
			return fmt.Errorf("test case '%s': turns must be sequential starting at 1, got step %d at position %d", tc.TestID, turn.StepOrder, i+1)
		}

		if len(turn.ExpectedKeywords) == 0 {
			return fmt.Errorf("test case '%s' step %d: expectedKeywords cannot be empty", tc.TestID, turn.StepOrder)
		}

		for j, keyword := range turn.ExpectedKeywords {
			trimmed := strings.TrimSpace(keyword)
			if trimmed == "" {
				return fmt.Errorf("test case '%s' step %d: keywords cannot be empty or whitespace", tc.TestID, turn.StepOrder)
			}
			turn.ExpectedKeywords[j] = trimmed
		}
	}

	return nil
}

// Normalize lowercases text and collapses all whitespace runs to single
// spaces. Both sides of every match comparison go through it.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// JoinedKeywords returns the space-joined keyword list, the exact phrase an
// exact-match turn requires.
func (t *TurnExpectation) JoinedKeywords() string {
	return strings.Join(t.ExpectedKeywords, " ")
}

// MatchesResponse reports whether an agent reply satisfies this turn. Under
// exact matching the normalized reply must equal the normalized joined
// keyword list. Otherwise every keyword must appear as a case-insensitive
// substring of the normalized reply; containment is deliberately not
// word-boundary aware ("hi" matches inside "this"), which downstream
// consumers rely on.
func (t *TurnExpectation) MatchesResponse(text string) bool {
	normalized := Normalize(text)

	if t.ExactMatchRequired {
		return normalized == Normalize(t.JoinedKeywords())
	}

	for _, keyword := range t.ExpectedKeywords {
		if !strings.Contains(normalized, strings.ToLower(keyword)) {
			return false
		}
	}

	return true
}
