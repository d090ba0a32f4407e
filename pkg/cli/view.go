package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/convocheck/convocheck/pkg/results"
	"github.com/convocheck/convocheck/pkg/runner"
)

const defaultMaxLineLength = 100

// NewViewCmd creates the view command for rendering saved run results.
func NewViewCmd() *cobra.Command {
	var (
		caseFilter     string
		showTranscript bool
		maxLineLength  = defaultMaxLineLength
	)

	cmd := &cobra.Command{
		Use:   "view <results-file>",
		Short: "Pretty-print suite results from a JSON file",
		Long: `Render the JSON output produced by "convocheck run" in a human-friendly format.

Examples:
  convocheck view convocheck-smoke-out.json
  convocheck view --case billing --transcript results.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := results.Load(args[0])
			if err != nil {
				return err
			}

			filtered := results.Filter(loaded, caseFilter)
			if len(filtered) == 0 {
				if caseFilter == "" {
					return errors.New("no cases found in results")
				}
				return fmt.Errorf("no cases matched filter %q", caseFilter)
			}

			for idx, result := range filtered {
				if idx > 0 {
					fmt.Println()
				}
				printRunResult(result, viewOptions{
					showTranscript: showTranscript,
					maxLineLength:  maxLineLength,
				})
			}

			fmt.Println()
			printStats(results.CalculateStats(args[0], filtered))

			return nil
		},
	}

	cmd.Flags().StringVar(&caseFilter, "case", "", "Only show results for cases whose id contains this value")
	cmd.Flags().BoolVar(&showTranscript, "transcript", false, "Include the full transcript for each case")
	cmd.Flags().IntVar(&maxLineLength, "max-line-length", maxLineLength, "Maximum characters per transcript line")

	return cmd
}

type viewOptions struct {
	showTranscript bool
	maxLineLength  int
}

func printRunResult(result *runner.RunResult, opts viewOptions) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	bold.Printf("Case: %s\n", result.CaseID)
	if result.Persona != "" {
		fmt.Printf("  Persona: %s\n", result.Persona)
	}

	if result.Passed {
		green.Printf("  Status: PASSED\n")
	} else {
		red.Printf("  Status: FAILED\n")
		if reason := results.FailureReason(result); reason != "" {
			fmt.Printf("  Reason: %s\n", reason)
		}
	}

	if result.Evaluation != nil {
		fmt.Printf("  Sentiment: %s\n", result.Evaluation.SentimentSummary)

		if report := result.Evaluation.ZipperReport; report != nil {
			for _, step := range report.Steps {
				marker := "✓"
				printer := green
				if !step.Passed {
					marker = "✗"
					printer = red
				}
				printer.Printf("  %s Step %d", marker, step.StepOrder)
				if step.Details != "" {
					fmt.Printf(" - %s", step.Details)
				}
				fmt.Println()
			}
		}
	}

	if opts.showTranscript && len(result.Transcript) > 0 {
		fmt.Println("  Transcript:")
		for _, row := range result.Transcript {
			fmt.Printf("    %s\n", truncateLine(fmt.Sprintf("%s: %s", row.Speaker, row.Text), opts.maxLineLength))
		}
	}
}

func printStats(stats results.Stats) {
	bold := color.New(color.Bold)

	bold.Println("=== Statistics ===")
	fmt.Printf("Cases Passed: %d/%d\n", stats.CasesPassed, stats.CasesTotal)
	if stats.StepsTotal > 0 {
		fmt.Printf("Steps Passed: %d/%d\n", stats.StepsPassed, stats.StepsTotal)
		fmt.Printf("Average Coverage: %.0f%%\n", stats.AverageCoverage*100)
	}
}

func truncateLine(line string, maxLen int) string {
	if maxLen <= 0 || len(line) <= maxLen {
		return line
	}
	return strings.TrimSpace(line[:maxLen]) + "…"
}
