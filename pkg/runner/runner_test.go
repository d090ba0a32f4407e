package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convocheck/convocheck/pkg/store"
)

const caseYAML = `kind: TestCase
testId: %s
persona: Calm caller
turns:
  - stepOrder: 1
    userInput: Hello
    expectedKeywords: [hi, there]
  - stepOrder: 2
    userInput: Need help
    expectedKeywords: [help, options]
`

const featureContent = `Feature: Greetings

  Scenario: Quick greeting
    Given a test case with id "feature-greeting"
    And turn 1 where user says "Hello"
    And the agent should respond with keywords "hi, there"
`

func writeCaseFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	write("alpha.yaml", caseFile("alpha-case"))
	write("beta.yaml", caseFile("beta-case"))
	write("greetings.feature", featureContent)

	return dir
}

func caseFile(id string) string {
	return fmt.Sprintf(caseYAML, id)
}

func suiteSpecFor(dir string) *SuiteSpec {
	return &SuiteSpec{
		Metadata: SuiteMetadata{Name: "test-suite"},
		Config: SuiteConfig{
			CaseSets: []CaseSet{
				{Glob: filepath.Join(dir, "*.yaml")},
				{Path: filepath.Join(dir, "greetings.feature")},
			},
		},
		basePath: dir,
	}
}

func TestNewRunnerNilSpec(t *testing.T) {
	_, err := NewRunner(nil)
	require.Error(t, err)
}

func TestRunAllCasesPass(t *testing.T) {
	dir := writeCaseFiles(t)

	runs := store.NewInMemoryRunStore(0)
	suiteRunner, err := NewRunnerWithStore(suiteSpecFor(dir), runs)
	require.NoError(t, err)

	results, err := suiteRunner.Run(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, result := range results {
		assert.True(t, result.Passed, "case %s should pass with the default responder", result.CaseID)
		assert.Empty(t, result.Error)
		require.NotNil(t, result.Evaluation)
		assert.Equal(t, 1.0, result.Evaluation.ZipperReport.Metrics.Coverage)
		assert.NotEmpty(t, result.RunID)
	}

	recorded := runs.ListRecent(0)
	assert.Len(t, recorded, 3)
	for _, run := range recorded {
		assert.Equal(t, store.RunStatusCompleted, run.Status)
		assert.NotEmpty(t, run.Transcript)
	}
}

func TestRunFiltersByCasePattern(t *testing.T) {
	dir := writeCaseFiles(t)

	suiteRunner, err := NewRunner(suiteSpecFor(dir))
	require.NoError(t, err)

	results, err := suiteRunner.Run(context.Background(), "^alpha")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alpha-case", results[0].CaseID)
}

func TestRunInvalidPattern(t *testing.T) {
	dir := writeCaseFiles(t)

	suiteRunner, err := NewRunner(suiteSpecFor(dir))
	require.NoError(t, err)

	_, err = suiteRunner.Run(context.Background(), "([")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile regexp")
}

func TestRunEmitsProgressEvents(t *testing.T) {
	dir := writeCaseFiles(t)

	suiteRunner, err := NewRunner(suiteSpecFor(dir))
	require.NoError(t, err)

	var events []ProgressEventType
	_, err = suiteRunner.RunWithProgress(context.Background(), "^alpha", func(event ProgressEvent) {
		events = append(events, event.Type)
	})
	require.NoError(t, err)

	assert.Equal(t, []ProgressEventType{
		EventSuiteStart,
		EventCaseStart,
		EventCaseSimulating,
		EventCaseEvaluating,
		EventCaseComplete,
		EventSuiteComplete,
	}, events)
}

func TestConcurrentRunsKeepSeparateCallbacks(t *testing.T) {
	dir := writeCaseFiles(t)

	suiteRunner, err := NewRunner(suiteSpecFor(dir))
	require.NoError(t, err)

	patterns := []string{"^alpha", "^beta"}
	counts := make([]int, len(patterns))

	var wg sync.WaitGroup
	for i := range patterns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suiteRunner.RunWithProgress(context.Background(), patterns[i], func(ProgressEvent) {
				counts[i]++
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Each run delivers its six events only to its own callback.
	assert.Equal(t, []int{6, 6}, counts)
}

func TestRunParallelCasesAreIndependent(t *testing.T) {
	dir := writeCaseFiles(t)

	spec := suiteSpecFor(dir)
	spec.Config.MaxParallel = 3

	suiteRunner, err := NewRunner(spec)
	require.NoError(t, err)

	results, err := suiteRunner.Run(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Result order matches collection order regardless of scheduling.
	ids := []string{results[0].CaseID, results[1].CaseID, results[2].CaseID}
	assert.Equal(t, []string{"alpha-case", "beta-case", "feature-greeting"}, ids)
}

func TestRunBadCaseDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("kind: TestCase\ntestId: broken\n"), 0644))

	spec := &SuiteSpec{
		Metadata: SuiteMetadata{Name: "broken"},
		Config: SuiteConfig{
			CaseSets: []CaseSet{{Path: filepath.Join(dir, "broken.yaml")}},
		},
	}

	suiteRunner, err := NewRunner(spec)
	require.NoError(t, err)

	_, err = suiteRunner.Run(context.Background(), "")
	require.Error(t, err)
}
