package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/convocheck/convocheck/pkg/results"
	"github.com/convocheck/convocheck/pkg/runner"
	"github.com/convocheck/convocheck/pkg/util"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var outputFormat string
	var casePattern string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run [suite-file]",
		Short: "Run a suite of conversational test cases",
		Long:  `Run every test case referenced by the specified suite file.`,
		Example: `  convocheck run suite.yaml
  convocheck run --case 'billing.*' --verbose suite.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suiteFile := args[0]

			spec, err := runner.FromFile(suiteFile)
			if err != nil {
				return fmt.Errorf("failed to load suite config: %w", err)
			}

			suiteRunner, err := runner.NewRunner(spec)
			if err != nil {
				return fmt.Errorf("failed to create suite runner: %w", err)
			}

			display := newProgressDisplay(verbose)

			ctx := util.WithVerbose(context.Background(), verbose)
			runResults, err := suiteRunner.RunWithProgress(ctx, casePattern, display.handleProgress)
			if err != nil {
				return fmt.Errorf("suite run failed: %w", err)
			}

			outputFile := fmt.Sprintf("convocheck-%s-out.json", spec.Metadata.Name)
			if err := saveResultsToFile(runResults, outputFile); err != nil {
				return fmt.Errorf("failed to save results to file: %w", err)
			}
			fmt.Printf("\n📄 Results saved to: %s\n", outputFile)

			if err := displayResults(runResults, outputFormat); err != nil {
				return fmt.Errorf("failed to display results: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&casePattern, "case", "", "Only run cases whose id matches this regular expression")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// progressDisplay handles interactive progress display
type progressDisplay struct {
	verbose bool
	green   *color.Color
	red     *color.Color
	yellow  *color.Color
	cyan    *color.Color
	bold    *color.Color
}

func newProgressDisplay(verbose bool) *progressDisplay {
	return &progressDisplay{
		verbose: verbose,
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
		cyan:    color.New(color.FgCyan),
		bold:    color.New(color.Bold),
	}
}

func (d *progressDisplay) handleProgress(event runner.ProgressEvent) {
	switch event.Type {
	case runner.EventSuiteStart:
		d.bold.Println("\n=== Starting Suite ===")

	case runner.EventCaseStart:
		fmt.Println()
		d.cyan.Printf("Case: %s\n", event.Case.CaseID)
		if event.Case.Persona != "" {
			fmt.Printf("  Persona: %s\n", event.Case.Persona)
		}

	case runner.EventCaseSimulating:
		fmt.Printf("  → Simulating conversation...\n")

	case runner.EventCaseEvaluating:
		fmt.Printf("  → Evaluating transcript...\n")

	case runner.EventCaseError:
		d.red.Printf("  ✗ Case failed to run\n")
		if event.Case.Error != "" {
			fmt.Printf("    Error: %s\n", event.Case.Error)
		}

	case runner.EventCaseComplete:
		if event.Case.Passed {
			d.green.Printf("  ✓ Case passed\n")
		} else {
			d.red.Printf("  ✗ Case failed\n")
			if reason := results.FailureReason(event.Case); reason != "" {
				fmt.Printf("    Reason: %s\n", reason)
			}
		}

	case runner.EventSuiteComplete:
		fmt.Println()
		d.bold.Println("=== Suite Complete ===")
	}
}

func displayResults(runResults []*runner.RunResult, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runResults)

	case "text":
		return displayTextResults(runResults)

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func displayTextResults(runResults []*runner.RunResult) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	fmt.Println()
	bold.Println("=== Results Summary ===")
	fmt.Println()

	for _, result := range runResults {
		fmt.Printf("Case: %s\n", result.CaseID)
		fmt.Printf("  Path: %s\n", result.CasePath)
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
				metrics := report.Metrics
				fmt.Printf("  Steps: %d/%d passed (coverage %.0f%%)\n", metrics.StepsPassed, metrics.TotalSteps, metrics.Coverage*100)
				if metrics.FirstFailureStep != nil {
					fmt.Printf("  First failing step: %d\n", *metrics.FirstFailureStep)
				}
			}
		}

		fmt.Println()
	}

	stats := results.CalculateStats("", runResults)

	bold.Println("=== Overall Statistics ===")
	fmt.Printf("Total Cases: %d\n", stats.CasesTotal)

	if stats.CasesPassed == stats.CasesTotal {
		green.Printf("Cases Passed: %d/%d\n", stats.CasesPassed, stats.CasesTotal)
	} else {
		fmt.Printf("Cases Passed: %d/%d\n", stats.CasesPassed, stats.CasesTotal)
	}

	if stats.StepsTotal > 0 {
		if stats.StepsPassed == stats.StepsTotal {
			green.Printf("Steps Passed: %d/%d\n", stats.StepsPassed, stats.StepsTotal)
		} else {
			fmt.Printf("Steps Passed: %d/%d\n", stats.StepsPassed, stats.StepsTotal)
		}
		fmt.Printf("Average Coverage: %.0f%%\n", stats.AverageCoverage*100)
	}

	return nil
}

func saveResultsToFile(runResults []*runner.RunResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(runResults); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	return nil
}
