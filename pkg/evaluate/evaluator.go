// Package evaluate composes the zipper report with a tone judgment into one
// overall verdict.
package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/convocheck/convocheck/pkg/llm"
	"github.com/convocheck/convocheck/pkg/script"
	"github.com/convocheck/convocheck/pkg/transcript"
	"github.com/convocheck/convocheck/pkg/zipper"
)

const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Evaluation is the final verdict for one run.
type Evaluation struct {
	Status           string         `json:"status"`
	SentimentSummary string         `json:"sentimentSummary"`
	ZipperReport     *zipper.Report `json:"zipperReport"`
}

type Evaluator struct {
	judge SentimentJudge
}

// NewEvaluator creates an evaluator with an explicit sentiment judge.
func NewEvaluator(judge SentimentJudge) (*Evaluator, error) {
	if judge == nil {
		return nil, fmt.Errorf("sentiment judge cannot be nil")
	}

	return &Evaluator{judge: judge}, nil
}

// NewEvaluatorForClient picks the judge for the given generation capability:
// the heuristic rule-based judge when none is configured, the LLM judge
// otherwise.
func NewEvaluatorForClient(client llm.Client) (*Evaluator, error) {
	if client == nil || llm.IsNoop(client) {
		return NewEvaluator(RuleBasedJudge{})
	}

	judge, err := NewLLMJudge(client)
	if err != nil {
		return nil, err
	}

	return NewEvaluator(judge)
}

// Evaluate validates the transcript against the test case and folds in the
// sentiment verdict. Sentiment can only downgrade a zipper pass to a fail,
// never upgrade a zipper fail. A judge failure returns an error rather than
// a partial evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, tr transcript.Transcript, tc *script.TestCase) (*Evaluation, error) {
	report := zipper.Validate(tr, tc)

	summary, err := e.judge.Summarize(ctx, tr)
	if err != nil {
		return nil, err
	}

	overall := report.OverallPassed
	if overall && strings.HasPrefix(strings.ToLower(summary), "fail") {
		overall = false
	}

	status := StatusFail
	if overall {
		status = StatusPass
	}

	return &Evaluation{
		Status:           status,
		SentimentSummary: summary,
		ZipperReport:     report,
	}, nil
}
