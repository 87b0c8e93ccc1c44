// Package jsonschema implements schema.Schema for JSON Schema definitions.
package jsonschema

import (
	"bytes"
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/goccy/go-json"
	jsv "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "schema.json"

// JSONSchema is a JSON Schema schema.Schema implementation.
type JSONSchema struct {
	definition string
	compiled   *jsv.Schema
}

var _ schema.Schema = (*JSONSchema)(nil)

// NewJSONSchema compiles a JSON Schema definition.
func NewJSONSchema(definition string) (*JSONSchema, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(definition)); err != nil {
		return nil, fmt.Errorf("failed to parse json schema: %w", err)
	}

	compiled, err := jsv.CompileString(schemaURL, definition)
	if err != nil {
		return nil, fmt.Errorf("failed to compile json schema: %w", err)
	}

	return &JSONSchema{
		definition: compact.String(),
		compiled:   compiled,
	}, nil
}

// MustNewJSONSchema is like NewJSONSchema but panics on error.
func MustNewJSONSchema(definition string) *JSONSchema {
	s, err := NewJSONSchema(definition)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *JSONSchema) DataFormat() schema.DataFormat {
	return schema.DataFormatJSON
}

// FullyQualifiedName is always empty: JSON Schema has no record name.
func (s *JSONSchema) FullyQualifiedName() string {
	return ""
}

// String returns the compact form of the definition.
func (s *JSONSchema) String() string {
	return s.definition
}

// Read decodes JSON data and validates the result.
func (s *JSONSchema) Read(data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json data: %w", err)
	}
	if err := s.validateGeneric(value); err != nil {
		return nil, err
	}
	return value, nil
}

// Write validates value and encodes it as JSON.
func (s *JSONSchema) Write(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, schema.NewValidationError(fmt.Errorf("failed to marshal json data: %w", err))
	}

	generic, err := normalize(data)
	if err != nil {
		return nil, schema.NewValidationError(err)
	}
	if err := s.validateGeneric(generic); err != nil {
		return nil, err
	}
	return data, nil
}

// Validate checks value against the schema. Structs are accepted and
// normalised through their JSON encoding first.
func (s *JSONSchema) Validate(value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return schema.NewValidationError(fmt.Errorf("failed to marshal json data: %w", err))
	}
	generic, err := normalize(data)
	if err != nil {
		return schema.NewValidationError(err)
	}
	return s.validateGeneric(generic)
}

func (s *JSONSchema) validateGeneric(value any) error {
	if err := s.compiled.Validate(value); err != nil {
		return schema.NewValidationError(err)
	}
	return nil
}

// normalize turns encoded JSON into the generic value tree the validator expects.
func normalize(data []byte) (any, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to normalize json data: %w", err)
	}
	return generic, nil
}
