package zipper

import (
	"fmt"
	"strings"

	"github.com/convocheck/convocheck/pkg/script"
	"github.com/convocheck/convocheck/pkg/transcript"
)

const (
	reasonUserDeviation  = "User deviation detected"
	reasonMissingKeyword = "Missing keywords"
	reasonExactMismatch  = "Exact match failed"
)

// findNextSpeaker scans forward from start (exclusive) for the next row with
// the given speaker. The boolean result is false when the transcript ends
// first; not-found is an expected outcome, not an error.
func findNextSpeaker(tr transcript.Transcript, start int, speaker transcript.Speaker) (int, transcript.Row, bool) {
	for idx := start + 1; idx < len(tr); idx++ {
		if tr[idx].Speaker == speaker {
			return idx, tr[idx], true
		}
	}
	return 0, transcript.Row{}, false
}

// Validate maps transcript rows onto the test case's expectations with a
// single forward cursor and surfaces granular failures. A structural gap (no
// further user or agent row) fails the current step and stops processing;
// later expectations are left unreported rather than marked failed.
func Validate(tr transcript.Transcript, tc *script.TestCase) *Report {
	steps := make([]StepReport, 0, len(tc.Turns))
	failures := []string{}
	cursor := -1

	for i := range tc.Turns {
		expectation := &tc.Turns[i]

		userIdx, userRow, ok := findNextSpeaker(tr, cursor, transcript.SpeakerUser)
		if !ok {
			failures = append(failures, fmt.Sprintf("Step %d Failed: Missing user input in transcript", expectation.StepOrder))
			steps = append(steps, StepReport{
				StepOrder:         expectation.StepOrder,
				ExpectedUserInput: expectation.UserInput,
				Passed:            false,
				Details:           fmt.Sprintf("transcript missing speaker 'user' after index %d", cursor),
			})
			break
		}

		cursor = userIdx
		actualUserText := userRow.Text
		userMatch := strings.Contains(script.Normalize(actualUserText), strings.ToLower(expectation.UserInput))

		agentIdx, agentRow, ok := findNextSpeaker(tr, cursor, transcript.SpeakerAgent)
		if !ok {
			failures = append(failures, fmt.Sprintf("Step %d Failed: Agent never responded", expectation.StepOrder))
			steps = append(steps, StepReport{
				StepOrder:         expectation.StepOrder,
				ExpectedUserInput: expectation.UserInput,
				ActualUserInput:   &actualUserText,
				Passed:            false,
				Details:           fmt.Sprintf("transcript missing speaker 'agent' after index %d", cursor),
			})
			break
		}

		cursor = agentIdx
		agentText := agentRow.Text
		agentPass := expectation.MatchesResponse(agentText)

		stepPass := agentPass && userMatch
		var reasons []string
		if !stepPass {
			if !userMatch {
				reasons = append(reasons, reasonUserDeviation)
			}
			if !agentPass {
				if expectation.ExactMatchRequired {
					reasons = append(reasons, reasonExactMismatch)
				} else {
					reasons = append(reasons, reasonMissingKeyword)
				}
			}

			got := agentText
			if got == "" {
				got = "NO_RESPONSE"
			}
			failures = append(failures, fmt.Sprintf("Step %d Failed: Expected %v, got '%s'", expectation.StepOrder, expectation.ExpectedKeywords, got))
		}

		steps = append(steps, StepReport{
			StepOrder:          expectation.StepOrder,
			ExpectedUserInput:  expectation.UserInput,
			ActualUserInput:    &actualUserText,
			ExpectedKeywords:   expectation.ExpectedKeywords,
			ExactMatchRequired: expectation.ExactMatchRequired,
			AgentResponse:      &agentText,
			Passed:             stepPass,
			Details:            strings.Join(reasons, "; "),
		})
	}

	return &Report{
		OverallPassed: len(failures) == 0 && allPassed(steps),
		Failures:      failures,
		Steps:         steps,
		Metrics:       deriveMetrics(steps),
	}
}

func allPassed(steps []StepReport) bool {
	for _, step := range steps {
		if !step.Passed {
			return false
		}
	}
	return true
}

func deriveMetrics(steps []StepReport) Metrics {
	metrics := Metrics{
		TotalSteps:   len(steps),
		FailureSteps: []int{},
	}

	for _, step := range steps {
		if step.Passed {
			metrics.StepsPassed++
		} else {
			metrics.FailureSteps = append(metrics.FailureSteps, step.StepOrder)
		}
		if strings.Contains(step.Details, "User deviation") {
			metrics.UserDeviationDetected = true
		}
	}

	metrics.StepsFailed = metrics.TotalSteps - metrics.StepsPassed
	if metrics.StepsFailed < 0 {
		metrics.StepsFailed = 0
	}
	if len(metrics.FailureSteps) > 0 {
		first := metrics.FailureSteps[0]
		metrics.FirstFailureStep = &first
	}
	if metrics.TotalSteps > 0 {
		metrics.Coverage = float64(metrics.StepsPassed) / float64(metrics.TotalSteps)
	}

	return metrics
}
