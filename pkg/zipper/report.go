// Package zipper aligns a transcript against its originating test case and
// produces a step-by-step report with aggregate metrics.
package zipper

type StepReport struct {
	StepOrder          int      `json:"stepOrder"`
	ExpectedUserInput  string   `json:"expectedUserInput"`
	ActualUserInput    *string  `json:"actualUserInput"`
	ExpectedKeywords   []string `json:"expectedKeywords,omitempty"`
	ExactMatchRequired bool     `json:"exactMatchRequired,omitempty"`
	AgentResponse      *string  `json:"agentResponse"`
	Passed             bool     `json:"passed"`

	// Details is a human-readable failure reason, empty when the step passed.
	Details string `json:"details,omitempty"`
}

type Metrics struct {
	TotalSteps            int     `json:"totalSteps"`
	StepsPassed           int     `json:"stepsPassed"`
	StepsFailed           int     `json:"stepsFailed"`
	FailureSteps          []int   `json:"failureSteps"`
	FirstFailureStep      *int    `json:"firstFailureStep"`
	UserDeviationDetected bool    `json:"userDeviationDetected"`
	Coverage              float64 `json:"coverage"`
}

type Report struct {
	OverallPassed bool         `json:"overallPassed"`
	Failures      []string     `json:"failures"`
	Steps         []StepReport `json:"steps"`
	Metrics       Metrics      `json:"metrics"`
}
