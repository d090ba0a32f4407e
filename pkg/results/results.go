// Package results provides utilities for loading, filtering, and analyzing
// suite run results.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/convocheck/convocheck/pkg/runner"
)

// Stats holds computed statistics from suite run results.
type Stats struct {
	ResultsFile     string  `json:"resultsFile"`
	CasesTotal      int     `json:"casesTotal"`
	CasesPassed     int     `json:"casesPassed"`
	CasePassRate    float64 `json:"casePassRate"`
	StepsTotal      int     `json:"stepsTotal"`
	StepsPassed     int     `json:"stepsPassed"`
	StepPassRate    float64 `json:"stepPassRate"`
	AverageCoverage float64 `json:"averageCoverage"`
}

// Load reads a JSON results file and returns the parsed run results.
func Load(path string) ([]*runner.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var results []*runner.RunResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results JSON: %w", err)
	}

	return results, nil
}

// Filter returns the subset of results whose case ids contain the filter
// substring.
func Filter(results []*runner.RunResult, filter string) []*runner.RunResult {
	if filter == "" {
		return results
	}

	filter = strings.ToLower(filter)
	filtered := make([]*runner.RunResult, 0, len(results))
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.CaseID), filter) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// CalculateStats computes statistics from suite run results.
func CalculateStats(resultsFile string, results []*runner.RunResult) Stats {
	stats := Stats{
		ResultsFile: resultsFile,
		CasesTotal:  len(results),
	}

	coverageSum := 0.0
	covered := 0
	for _, result := range results {
		if result.Passed {
			stats.CasesPassed++
		}

		if result.Evaluation != nil && result.Evaluation.ZipperReport != nil {
			metrics := result.Evaluation.ZipperReport.Metrics
			stats.StepsTotal += metrics.TotalSteps
			stats.StepsPassed += metrics.StepsPassed
			coverageSum += metrics.Coverage
			covered++
		}
	}

	if stats.CasesTotal > 0 {
		stats.CasePassRate = float64(stats.CasesPassed) / float64(stats.CasesTotal)
	}
	if stats.StepsTotal > 0 {
		stats.StepPassRate = float64(stats.StepsPassed) / float64(stats.StepsTotal)
	}
	if covered > 0 {
		stats.AverageCoverage = coverageSum / float64(covered)
	}

	return stats
}

// FailureReason returns the most actionable failure detail for a result: the
// run error if the case never completed, otherwise the first zipper failure,
// otherwise a failing sentiment summary.
func FailureReason(r *runner.RunResult) string {
	if r.Error != "" {
		return r.Error
	}
	if r.Evaluation == nil {
		return ""
	}
	if report := r.Evaluation.ZipperReport; report != nil && len(report.Failures) > 0 {
		return report.Failures[0]
	}
	if strings.HasPrefix(strings.ToLower(r.Evaluation.SentimentSummary), "fail") {
		return r.Evaluation.SentimentSummary
	}
	return ""
}
