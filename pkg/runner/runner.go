package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/convocheck/convocheck/pkg/evaluate"
	"github.com/convocheck/convocheck/pkg/llm"
	"github.com/convocheck/convocheck/pkg/script"
	"github.com/convocheck/convocheck/pkg/simulate"
	"github.com/convocheck/convocheck/pkg/store"
	"github.com/convocheck/convocheck/pkg/util"
)

type SuiteRunner interface {
	Run(ctx context.Context, casePattern string) ([]*RunResult, error)
	RunWithProgress(ctx context.Context, casePattern string, callback ProgressCallback) ([]*RunResult, error)
}

type suiteRunner struct {
	spec *SuiteSpec
	runs store.RunStore

	// mu serializes progress callback invocations across parallel cases.
	mu sync.Mutex
}

var _ SuiteRunner = &suiteRunner{}

type caseConfig struct {
	path string
	tc   *script.TestCase
}

// NewRunner creates a SuiteRunner from a suite spec. Runs are recorded in an
// in-memory run store; use NewRunnerWithStore to supply another backend.
func NewRunner(spec *SuiteSpec) (SuiteRunner, error) {
	return NewRunnerWithStore(spec, store.NewInMemoryRunStore(0))
}

func NewRunnerWithStore(spec *SuiteSpec, runs store.RunStore) (SuiteRunner, error) {
	if spec == nil {
		return nil, fmt.Errorf("suite spec cannot be nil")
	}
	if runs == nil {
		return nil, fmt.Errorf("run store cannot be nil")
	}

	return &suiteRunner{
		spec: spec,
		runs: runs,
	}, nil
}

func (r *suiteRunner) Run(ctx context.Context, casePattern string) ([]*RunResult, error) {
	return r.RunWithProgress(ctx, casePattern, NoopProgressCallback)
}

func (r *suiteRunner) RunWithProgress(ctx context.Context, casePattern string, callback ProgressCallback) ([]*RunResult, error) {
	if callback == nil {
		callback = NoopProgressCallback
	}

	if casePattern == "" {
		casePattern = "." // match every case id
	}

	caseMatcher, err := regexp.Compile(casePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile regexp for case id match: %w", err)
	}

	r.emit(callback, ProgressEvent{
		Type:    EventSuiteStart,
		Message: fmt.Sprintf("Starting suite: %s", r.spec.Metadata.Name),
	})

	client, err := llm.NewClient(r.spec.Config.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client from suite config: %w", err)
	}

	ctx = llm.WithClient(ctx, client)

	caseConfigs, err := r.collectCaseConfigs(caseMatcher)
	if err != nil {
		return nil, err
	}

	results := make([]*RunResult, len(caseConfigs))

	// Independent cases share no state, so they may run in parallel up to
	// the configured bound.
	eg, egCtx := errgroup.WithContext(ctx)
	limit := r.spec.Config.MaxParallel
	if limit < 1 {
		limit = 1
	}
	eg.SetLimit(limit)

	for i, cc := range caseConfigs {
		eg.Go(func() error {
			results[i] = r.runCase(egCtx, cc, callback)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	r.emit(callback, ProgressEvent{
		Type:    EventSuiteComplete,
		Message: "Suite complete",
	})

	return results, nil
}

func (r *suiteRunner) collectCaseConfigs(rx *regexp.Regexp) ([]caseConfig, error) {
	caseConfigs := make([]caseConfig, 0)

	for _, cs := range r.spec.Config.CaseSets {
		var paths []string
		var err error

		if cs.Glob != "" {
			paths, err = filepath.Glob(cs.Glob)
			if err != nil {
				return nil, fmt.Errorf("failed to glob %s: %w", cs.Glob, err)
			}
		} else if cs.Path != "" {
			paths = []string{cs.Path}
		}

		for _, path := range paths {
			cases, err := loadCases(path)
			if err != nil {
				return nil, err
			}

			for _, tc := range cases {
				if !rx.MatchString(tc.TestID) {
					continue
				}
				caseConfigs = append(caseConfigs, caseConfig{path: path, tc: tc})
			}
		}
	}

	return caseConfigs, nil
}

// loadCases reads one document: a Gherkin feature file may define several
// cases, a TestCase YAML exactly one.
func loadCases(path string) ([]*script.TestCase, error) {
	if strings.EqualFold(filepath.Ext(path), ".feature") {
		return script.LoadFeatureFile(path)
	}

	tc, err := script.FromFile(path)
	if err != nil {
		return nil, err
	}

	return []*script.TestCase{tc}, nil
}

func (r *suiteRunner) runCase(ctx context.Context, cc caseConfig, callback ProgressCallback) *RunResult {
	result := &RunResult{
		CaseID:   cc.tc.TestID,
		CasePath: cc.path,
		Persona:  cc.tc.Persona,
	}

	r.emit(callback, ProgressEvent{
		Type:    EventCaseStart,
		Message: fmt.Sprintf("Starting case: %s", cc.tc.TestID),
		Case:    result,
	})

	client, ok := llm.FromContext(ctx)
	if !ok {
		client = llm.NoopClient{}
	}

	result.RunID = r.runs.Create(cc.tc.TestID)

	r.emit(callback, ProgressEvent{
		Type:    EventCaseSimulating,
		Message: fmt.Sprintf("Simulating case: %s", cc.tc.TestID),
		Case:    result,
	})
	if util.IsVerbose(ctx) {
		fmt.Printf("  → Simulating '%s' as persona '%s'…\n", cc.tc.TestID, cc.tc.Persona)
	}

	sim := simulate.NewSimulator(client, nil, r.spec.Config.Simulation)
	tr, err := sim.Run(ctx, cc.tc)
	if err != nil {
		return r.failCase(result, fmt.Errorf("simulation failed: %w", err), callback)
	}
	result.Transcript = tr

	r.emit(callback, ProgressEvent{
		Type:    EventCaseEvaluating,
		Message: fmt.Sprintf("Evaluating case: %s", cc.tc.TestID),
		Case:    result,
	})

	evaluator, err := evaluate.NewEvaluatorForClient(client)
	if err != nil {
		return r.failCase(result, fmt.Errorf("failed to create evaluator: %w", err), callback)
	}

	evaluation, err := evaluator.Evaluate(ctx, tr, cc.tc)
	if err != nil {
		return r.failCase(result, fmt.Errorf("evaluation failed: %w", err), callback)
	}

	result.Evaluation = evaluation
	result.Passed = evaluation.Status == evaluate.StatusPass

	r.runs.Update(result.RunID, store.RunUpdate{
		Status:     store.RunStatusCompleted,
		Transcript: tr,
		Evaluation: evaluation,
	})

	r.emit(callback, ProgressEvent{
		Type:    EventCaseComplete,
		Message: fmt.Sprintf("Completed case: %s (passed: %v)", cc.tc.TestID, result.Passed),
		Case:    result,
	})

	return result
}

func (r *suiteRunner) failCase(result *RunResult, err error, callback ProgressCallback) *RunResult {
	result.Passed = false
	result.Error = err.Error()

	r.runs.Update(result.RunID, store.RunUpdate{
		Status:     store.RunStatusFailed,
		Transcript: result.Transcript,
	})

	r.emit(callback, ProgressEvent{
		Type:    EventCaseError,
		Message: fmt.Sprintf("Case failed to run: %s", result.CaseID),
		Case:    result,
	})

	return result
}

// emit serializes callback invocations so parallel cases never interleave
// inside the consumer. The callback belongs to one RunWithProgress call, so
// concurrent runs on the same runner never see each other's events.
func (r *suiteRunner) emit(callback ProgressCallback, event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	callback(event)
}
