package runner

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// suiteDocumentSchema describes the YAML/JSON shape of a Suite document. It
// is checked before strict decoding so a typoed section surfaces as a schema
// error rather than a misleading empty-config error.
var suiteDocumentSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"kind", "metadata", "config"},
	Properties: map[string]*jsonschema.Schema{
		"apiVersion": {Type: "string"},
		"kind":       {Type: "string"},
		"metadata": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*jsonschema.Schema{
				"name": {Type: "string"},
			},
		},
		"config": {
			Type:     "object",
			Required: []string{"caseSets"},
			Properties: map[string]*jsonschema.Schema{
				"llm": {Type: "object"},
				"simulation": {
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"naturalizeUserPrompts": {Type: "boolean"},
						"disfluencyRate":        {Type: "number"},
					},
				},
				"caseSets": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"glob": {Type: "string"},
							"path": {Type: "string"},
						},
					},
				},
				"maxParallel": {Type: "integer"},
			},
		},
	},
}

var resolveSuiteDocumentSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	return suiteDocumentSchema.Resolve(nil)
})

// validateSuiteDocument validates raw JSON against the suite document schema.
func validateSuiteDocument(data []byte) error {
	resolved, err := resolveSuiteDocumentSchema()
	if err != nil {
		return fmt.Errorf("failed to resolve suite schema: %w", err)
	}

	var instance map[string]any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("suite document is not an object: %w", err)
	}

	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("suite document failed schema validation: %w", err)
	}

	return nil
}
