package script

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// caseDocumentSchema describes the YAML/JSON shape of a TestCase document.
// It is checked before strict decoding so authors get structural errors
// pointing at the document rather than at the Go types.
var caseDocumentSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"kind", "testId", "persona", "turns"},
	Properties: map[string]*jsonschema.Schema{
		"apiVersion": {Type: "string"},
		"kind":       {Type: "string"},
		"testId":     {Type: "string"},
		"persona":    {Type: "string"},
		"turns": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"stepOrder", "userInput", "expectedKeywords"},
				Properties: map[string]*jsonschema.Schema{
					"stepOrder": {Type: "integer"},
					"userInput": {Type: "string"},
					"expectedKeywords": {
						Type:  "array",
						Items: &jsonschema.Schema{Type: "string"},
					},
					"exactMatchRequired": {Type: "boolean"},
				},
			},
		},
	},
}

var resolveCaseDocumentSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	return caseDocumentSchema.Resolve(nil)
})

// validateCaseDocument validates raw JSON against the case document schema.
func validateCaseDocument(data []byte) error {
	resolved, err := resolveCaseDocumentSchema()
	if err != nil {
		return fmt.Errorf("failed to resolve test case schema: %w", err)
	}

	var instance map[string]any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("test case document is not an object: %w", err)
	}

	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("test case document failed schema validation: %w", err)
	}

	return nil
}
