package gsrctl

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/avro"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/encoding"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/jsonschema"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// VersionFetcher is satisfied by *registry.Client.
type VersionFetcher interface {
	GetSchemaVersion(ctx context.Context, versionID uuid.UUID) (*schema.SchemaVersion, error)
}

// ValueDeserializer is satisfied by *deserialization.Deserializer.
type ValueDeserializer interface {
	Deserialize(ctx context.Context, topic string, data []byte) (*schema.DataAndSchema, error)
}

// SchemaRegisterer is satisfied by *serialization.Serializer.
type SchemaRegisterer interface {
	Register(ctx context.Context, topic string, isKey bool, s schema.Schema) (*schema.SchemaVersion, error)
}

// Inspect prints the envelope header of data without contacting the registry.
func Inspect(w io.Writer, data []byte) error {
	header, err := encoding.ParseHeader(data)
	if err != nil {
		return err
	}

	compression := encoding.CompressionNone
	if header.Compressed() {
		compression = encoding.CompressionZlib
	}

	return writeJSON(w, map[string]any{
		"schemaVersionId": header.SchemaVersionID.String(),
		"compression":     compression,
		"payloadBytes":    len(data) - encoding.HeaderSize,
	})
}

// Decode deserializes data as read from topic and prints the value with its schema name.
func Decode(ctx context.Context, w io.Writer, d ValueDeserializer, topic string, data []byte) error {
	result, err := d.Deserialize(ctx, topic, data)
	if err != nil {
		return err
	}
	if result == nil {
		return writeJSON(w, nil)
	}

	out := map[string]any{"value": result.Data}
	if result.Schema != nil {
		out["schema"] = result.Schema.FullyQualifiedName()
		out["dataFormat"] = result.Schema.DataFormat()
	}
	return writeJSON(w, out)
}

// Fetch prints one schema version.
func Fetch(ctx context.Context, w io.Writer, fetcher VersionFetcher, versionID string) error {
	id, err := uuid.Parse(versionID)
	if err != nil {
		return fmt.Errorf("invalid schema version id %q: %w", versionID, err)
	}

	version, err := fetcher.GetSchemaVersion(ctx, id)
	if err != nil {
		return err
	}

	out := map[string]any{
		"schemaName":      version.SchemaName,
		"schemaVersionId": version.VersionID.String(),
		"dataFormat":      version.DataFormat,
		"status":          version.Status,
		"definition":      version.Definition,
	}
	if version.VersionNumber != nil {
		out["versionNumber"] = *version.VersionNumber
	}
	return writeJSON(w, out)
}

// RegisterRequest describes a schema file to resolve against the registry.
type RegisterRequest struct {
	Topic      string
	IsKey      bool
	SchemaFile string
	DataFormat schema.DataFormat
}

// Register resolves the schema in req.SchemaFile, creating it when auto-register is enabled.
func Register(ctx context.Context, w io.Writer, registerer SchemaRegisterer, req RegisterRequest) error {
	definition, err := os.ReadFile(req.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	sch, err := parseSchema(req.DataFormat, string(definition))
	if err != nil {
		return err
	}

	version, err := registerer.Register(ctx, req.Topic, req.IsKey, sch)
	if err != nil {
		return err
	}

	return writeJSON(w, map[string]any{
		"schemaName":      version.SchemaName,
		"schemaVersionId": version.VersionID.String(),
	})
}

func parseSchema(format schema.DataFormat, definition string) (schema.Schema, error) {
	switch format {
	case schema.DataFormatAvro:
		s, err := avro.NewAvroSchema(definition)
		if err != nil {
			return nil, err
		}
		return s, nil
	case schema.DataFormatJSON:
		s, err := jsonschema.NewJSONSchema(definition)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported data format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
