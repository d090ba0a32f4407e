package runner

import (
	"github.com/convocheck/convocheck/pkg/evaluate"
	"github.com/convocheck/convocheck/pkg/transcript"
)

// RunResult is the outcome of one test case run within a suite.
type RunResult struct {
	CaseID   string `json:"caseId"`
	CasePath string `json:"casePath"`
	Persona  string `json:"persona"`
	RunID    string `json:"runId,omitempty"`

	Passed bool `json:"passed"`

	// Error is set when the run could not complete, e.g. a capability
	// failure. A completed-but-failing case carries its failure detail in
	// the evaluation instead.
	Error string `json:"error,omitempty"`

	Transcript transcript.Transcript `json:"transcript,omitempty"`
	Evaluation *evaluate.Evaluation  `json:"evaluation,omitempty"`
}
