package classification

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "classification.json"

// Schema validates decoded classifier replies against the result contract.
type Schema struct {
	compiled *jsonschema.Schema
}

// NewSchema compiles the result schema. DocumentType is restricted to
// DocumentTypes(letterOfRepresentation).
func NewSchema(letterOfRepresentation bool) (*Schema, error) {
	raw, err := json.Marshal(schemaDocument(letterOfRepresentation))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Schema{compiled: compiled}, nil
}

// Validate checks v, a value produced by json.Unmarshal into any.
func (s *Schema) Validate(v any) error {
	if err := s.compiled.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaValidation, err)
	}
	return nil
}

func schemaDocument(letterOfRepresentation bool) map[string]any {
	types := DocumentTypes(letterOfRepresentation)
	enum := make([]string, len(types))
	for i, t := range types {
		enum[i] = string(t)
	}

	fields := make(map[string]any, len(IdentifierFields))
	for _, name := range IdentifierFields {
		fields[name] = map[string]any{"type": []string{"string", "null"}}
	}

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"required":             []string{"DocumentType", "Identifier"},
		"additionalProperties": false,
		"properties": map[string]any{
			"DocumentType": map[string]any{
				"type": "string",
				"enum": enum,
			},
			"Identifier": map[string]any{
				"type":                 []string{"object", "null"},
				"additionalProperties": false,
				"properties":           fields,
			},
		},
	}
}
