package deserialization

import (
	"errors"
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/avro"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/jsonschema"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
)

// ErrUnsupportedDataFormat is returned for a registry data format with no schema implementation.
var ErrUnsupportedDataFormat = errors.New("unsupported data format")

// SchemaFactory builds the schema a version was written with.
type SchemaFactory func(version *schema.SchemaVersion) (schema.Schema, error)

// NewSchemaFactory returns the factory for the formats this module implements.
func NewSchemaFactory(returnRecordName bool) SchemaFactory {
	return func(version *schema.SchemaVersion) (schema.Schema, error) {
		switch version.DataFormat {
		case schema.DataFormatAvro:
			var opts []avro.Option
			if returnRecordName {
				opts = append(opts, avro.WithReturnRecordName())
			}
			s, err := avro.NewAvroSchema(version.Definition, opts...)
			if err != nil {
				return nil, err
			}
			return s, nil
		case schema.DataFormatJSON:
			s, err := jsonschema.NewJSONSchema(version.Definition)
			if err != nil {
				return nil, err
			}
			return s, nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDataFormat, version.DataFormat)
		}
	}
}
