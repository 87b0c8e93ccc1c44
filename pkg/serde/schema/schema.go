// Package schema defines the format-agnostic schema capability used by the serde
// components and the data model shared with the registry client.
// Implementations for specific formats (Avro, JSON Schema) are in separate packages.
package schema

import (
	"github.com/google/uuid"
)

// DataFormat identifies the serialization format of a schema.
type DataFormat string

const (
	DataFormatAvro DataFormat = "AVRO"
	DataFormatJSON DataFormat = "JSON"
)

// IsValid checks if the data format is one of the supported formats.
func (f DataFormat) IsValid() bool {
	switch f {
	case DataFormatAvro, DataFormatJSON:
		return true
	}
	return false
}

// String returns the string representation of the data format.
func (f DataFormat) String() string {
	return string(f)
}

// SchemaVersionStatus is the lifecycle state of a schema version in the registry.
type SchemaVersionStatus string

const (
	StatusAvailable SchemaVersionStatus = "AVAILABLE"
	StatusPending   SchemaVersionStatus = "PENDING"
	StatusFailure   SchemaVersionStatus = "FAILURE"
	StatusDeleting  SchemaVersionStatus = "DELETING"
)

// Schema is a parsed schema definition able to read, write and validate values.
//
// Implementations must be immutable: read/write/validate are pure functions of the
// definition and their input. Serializers cache by Schema identity, so callers should
// reuse the same Schema value for the same definition.
type Schema interface {
	// DataFormat returns the format of this schema.
	DataFormat() DataFormat
	// FullyQualifiedName returns the fully-qualified name of this schema
	// (e.g. "namespace.Name" for Avro records). May be empty.
	FullyQualifiedName() string
	// String returns the stable string form of the definition sent to the registry.
	String() string
	// Read decodes raw bytes into a value.
	Read(data []byte) (any, error)
	// Write encodes a value into raw bytes.
	Write(value any) ([]byte, error)
	// Validate checks that the value conforms to the schema.
	Validate(value any) error
}

// SchemaVersion is a single registered version of a schema.
type SchemaVersion struct {
	SchemaName    string
	VersionID     uuid.UUID
	Definition    string
	DataFormat    DataFormat
	Status        SchemaVersionStatus
	VersionNumber *int64
}

// IsAvailable reports whether the version can be used for reading and writing.
func (v *SchemaVersion) IsAvailable() bool {
	return v != nil && v.Status == StatusAvailable
}

// DataAndSchema wraps a value together with the schema it is written with or was read with.
type DataAndSchema struct {
	Data   any
	Schema Schema
}
