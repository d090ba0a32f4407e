// Package runner loads suite documents and executes their test cases through
// the simulator and evaluator.
package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/convocheck/convocheck/pkg/llm"
	"github.com/convocheck/convocheck/pkg/simulate"
	"github.com/convocheck/convocheck/pkg/util"
)

const KindSuite = "Suite"

type SuiteSpec struct {
	util.TypeMeta `json:",inline"`

	Metadata SuiteMetadata `json:"metadata"`
	Config   SuiteConfig   `json:"config"`

	basePath string
}

type SuiteMetadata struct {
	Name string `json:"name"`
}

type SuiteConfig struct {
	// LLM configures the optional text-generation capability used for
	// paraphrasing, steering, and the sentiment judge.
	LLM *llm.EnvConfig `json:"llm,omitempty"`

	// Simulation controls the conversation simulator.
	Simulation simulate.Config `json:"simulation,omitempty"`

	// CaseSets name the test case documents to run.
	CaseSets []CaseSet `json:"caseSets"`

	// MaxParallel bounds how many independent cases run concurrently.
	// Zero or one means sequential execution.
	MaxParallel int `json:"maxParallel,omitempty"`
}

type CaseSet struct {
	// Exactly one of Glob or Path must be set. Files ending in .feature are
	// parsed as Gherkin; everything else as TestCase YAML.
	Glob string `json:"glob,omitempty"`
	Path string `json:"path,omitempty"`
}

func (s *SuiteSpec) UnmarshalJSON(data []byte) error {
	type Doppleganger SuiteSpec

	tmp := (*Doppleganger)(s)
	return util.UnmarshalWithKind(data, tmp, KindSuite)
}

// BasePath returns the directory the suite document was loaded from.
func (s *SuiteSpec) BasePath() string {
	return s.basePath
}

// Read parses a suite document, schema-checks it, and resolves case set
// paths relative to basePath.
func Read(data []byte, basePath string) (*SuiteSpec, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert suite document to JSON: %w", err)
	}

	if err := validateSuiteDocument(jsonData); err != nil {
		return nil, err
	}

	spec := &SuiteSpec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, err
	}

	if err := spec.TypeMeta.Validate(KindSuite); err != nil {
		return nil, err
	}

	spec.basePath = basePath

	if len(spec.Config.CaseSets) == 0 {
		return nil, fmt.Errorf("suite '%s' must define at least one case set", spec.Metadata.Name)
	}

	for i := range spec.Config.CaseSets {
		cs := &spec.Config.CaseSets[i]
		if cs.Path != "" && cs.Glob != "" {
			return nil, fmt.Errorf("case set at index %d: only one of path or glob can be set", i)
		}
		if cs.Path == "" && cs.Glob == "" {
			return nil, fmt.Errorf("case set at index %d: one of path or glob must be set", i)
		}
		resolveFilePath(&cs.Path, basePath)
		resolveFilePath(&cs.Glob, basePath)
	}

	return spec, nil
}

func resolveFilePath(filePath *string, basePath string) {
	if *filePath == "" || filepath.IsAbs(*filePath) {
		return
	}

	*filePath = filepath.Join(basePath, *filePath)
}

// FromFile loads a suite document from a YAML file.
func FromFile(path string) (*SuiteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s' for suite spec: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", path, err)
	}

	return Read(data, filepath.Dir(absPath))
}
