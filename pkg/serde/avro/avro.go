// Package avro implements schema.Schema for Avro definitions using hamba/avro.
package avro

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	hambavro "github.com/hamba/avro/v2"
)

// Option configures an AvroSchema.
type Option func(*AvroSchema)

// WithReturnRecordName keeps the record name when reading a union of records:
// the value is returned as map[string]any{"namespace.Name": record}.
func WithReturnRecordName() Option {
	return func(s *AvroSchema) {
		s.returnRecordName = true
	}
}

// AvroSchema is an Avro schema.Schema implementation.
type AvroSchema struct {
	definition       string
	parsed           hambavro.Schema
	returnRecordName bool
}

var _ schema.Schema = (*AvroSchema)(nil)

// NewAvroSchema parses an Avro schema definition.
// The definition text is kept verbatim as the registry string form.
func NewAvroSchema(definition string, opts ...Option) (*AvroSchema, error) {
	// A private cache keeps different versions of the same named type apart.
	parsed, err := hambavro.ParseWithCache(definition, "", &hambavro.SchemaCache{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse avro schema: %w", err)
	}

	s := &AvroSchema{
		definition: definition,
		parsed:     parsed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustNewAvroSchema is like NewAvroSchema but panics on error.
func MustNewAvroSchema(definition string, opts ...Option) *AvroSchema {
	s, err := NewAvroSchema(definition, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *AvroSchema) DataFormat() schema.DataFormat {
	return schema.DataFormatAvro
}

// FullyQualifiedName returns "namespace.name" for named schemas and the
// type name for everything else.
func (s *AvroSchema) FullyQualifiedName() string {
	if named, ok := s.parsed.(hambavro.NamedSchema); ok {
		return named.FullName()
	}
	return string(s.parsed.Type())
}

func (s *AvroSchema) String() string {
	return s.definition
}

// Canonical returns the Parsing Canonical Form of the schema.
func (s *AvroSchema) Canonical() string {
	return s.parsed.String()
}

// Parsed returns the underlying hamba/avro schema.
func (s *AvroSchema) Parsed() hambavro.Schema {
	return s.parsed
}

// Read decodes Avro binary data into generic values (records become map[string]any).
func (s *AvroSchema) Read(data []byte) (any, error) {
	var value any
	if err := s.decode(data, &value); err != nil {
		return nil, err
	}
	return unwrapUnions(s.parsed, value, s.returnRecordName), nil
}

// ReadInto decodes Avro binary data into v, which must be a pointer.
// Struct fields are matched with `avro` tags.
func (s *AvroSchema) ReadInto(data []byte, v any) error {
	return s.decode(data, v)
}

// decode fails when data ends before the value does. hambavro.Unmarshal
// reports that case as success, so an empty or cut-off payload would read
// as a zero value.
func (s *AvroSchema) decode(data []byte, v any) error {
	r := hambavro.NewReader(nil, 0).Reset(data)
	r.ReadVal(s.parsed, v)

	if err := r.Error; err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("failed to unmarshal avro data: %w", err)
	}
	return nil
}

// Write encodes value as Avro binary. Maps and tagged structs are both accepted.
// Union values may be bare, as returned by Read, or wrapped in a single-entry
// map keyed by the member name.
func (s *AvroSchema) Write(value any) ([]byte, error) {
	data, err := hambavro.Marshal(s.parsed, wrapUnions(s.parsed, value))
	if err != nil {
		return nil, schema.NewValidationError(fmt.Errorf("failed to marshal avro data: %w", err))
	}
	return data, nil
}

// Validate reports whether value can be encoded with the schema.
func (s *AvroSchema) Validate(value any) error {
	_, err := s.Write(value)
	return err
}
