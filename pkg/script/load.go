package script

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Read parses a TestCase YAML document, schema-checks it, and validates the
// resulting case.
func Read(data []byte) (*TestCase, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert test case document to JSON: %w", err)
	}

	if err := validateCaseDocument(jsonData); err != nil {
		return nil, err
	}

	tc := &TestCase{}
	if err := yaml.Unmarshal(data, tc); err != nil {
		return nil, err
	}

	if err := tc.TypeMeta.Validate(KindTestCase); err != nil {
		return nil, err
	}

	if err := tc.Validate(); err != nil {
		return nil, err
	}

	return tc, nil
}

// FromFile loads a TestCase document from a YAML file.
func FromFile(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s' for test case: %w", path, err)
	}

	tc, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load test case at path %s: %w", path, err)
	}

	return tc, nil
}
