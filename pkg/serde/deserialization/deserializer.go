// Package deserialization turns Glue wire format bytes back into (value, schema) pairs.
package deserialization

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sokol111/glue-schema-registry/pkg/registry"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/encoding"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const opDeserialize = "Deserialize"

// VersionFetcher fetches schema versions by id. *registry.Client satisfies it.
type VersionFetcher interface {
	GetSchemaVersion(ctx context.Context, versionID uuid.UUID) (*schema.SchemaVersion, error)
}

// Secondary handles data that is not in the Glue wire format,
// e.g. records written before the producer switched to the registry.
type Secondary interface {
	Deserialize(ctx context.Context, topic string, data []byte) (*schema.DataAndSchema, error)
}

// SecondaryFunc adapts a function to Secondary.
type SecondaryFunc func(ctx context.Context, topic string, data []byte) (*schema.DataAndSchema, error)

func (f SecondaryFunc) Deserialize(ctx context.Context, topic string, data []byte) (*schema.DataAndSchema, error) {
	return f(ctx, topic, data)
}

// Deserializer reads values written by serialization.Serializer or any other
// Glue Schema Registry client.
type Deserializer struct {
	client           VersionFetcher
	parser           encoding.WireFormatParser
	secondary        Secondary
	factory          SchemaFactory
	returnRecordName bool
	log              *zap.Logger

	mu    sync.RWMutex
	cache map[uuid.UUID]schema.Schema
}

// Option configures a Deserializer.
type Option func(*Deserializer)

// WithSecondaryDeserializer delegates data with an unknown leading byte to secondary.
func WithSecondaryDeserializer(secondary Secondary) Option {
	return func(d *Deserializer) {
		d.secondary = secondary
	}
}

// WithSchemaFactory replaces the factory that builds schemas from registry versions.
func WithSchemaFactory(factory SchemaFactory) Option {
	return func(d *Deserializer) {
		d.factory = factory
	}
}

// WithReturnRecordName keeps record names on Avro union values (default factory only).
func WithReturnRecordName(enabled bool) Option {
	return func(d *Deserializer) {
		d.returnRecordName = enabled
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Deserializer) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDeserializer creates a Deserializer that fetches unknown versions from client.
func NewDeserializer(client VersionFetcher, opts ...Option) *Deserializer {
	parser, _ := encoding.NewGlueWireFormat(encoding.CompressionNone)
	d := &Deserializer{
		client: client,
		parser: parser,
		log:    zap.NewNop(),
		cache:  make(map[uuid.UUID]schema.Schema),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.factory == nil {
		d.factory = NewSchemaFactory(d.returnRecordName)
	}
	return d
}

// Deserialize decodes data read from topic. Nil data yields a nil result and no error.
func (d *Deserializer) Deserialize(ctx context.Context, topic string, data []byte) (*schema.DataAndSchema, error) {
	if data == nil {
		return nil, nil
	}

	versionID, payload, err := d.parser.Parse(data)
	if err != nil {
		if errors.Is(err, encoding.ErrUnknownEncoding) {
			if d.secondary != nil {
				d.log.Debug("delegating to secondary deserializer", zap.String("topic", topic))
				return d.secondary.Deserialize(ctx, topic, data)
			}
			return nil, &registry.Error{Op: opDeserialize, Err: fmt.Errorf("no secondary deserializer: %w", err)}
		}
		return nil, fmt.Errorf("failed to parse wire format: %w", err)
	}

	writerSchema, err := d.schemaFor(ctx, versionID)
	if err != nil {
		return nil, err
	}

	value, err := writerSchema.Read(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to read value: %w", err)
	}

	return &schema.DataAndSchema{Data: value, Schema: writerSchema}, nil
}

func (d *Deserializer) schemaFor(ctx context.Context, versionID uuid.UUID) (schema.Schema, error) {
	d.mu.RLock()
	cached, exists := d.cache[versionID]
	d.mu.RUnlock()

	if exists {
		return cached, nil
	}

	version, err := d.client.GetSchemaVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	writerSchema, err := d.factory(version)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema for version %s: %w", versionID, err)
	}

	d.mu.Lock()
	d.cache[versionID] = writerSchema
	d.mu.Unlock()

	d.log.Debug("cached writer schema",
		zap.Stringer("schema-version-id", versionID),
		zap.String("schema-name", version.SchemaName),
		zap.String("data-format", string(version.DataFormat)),
	)

	return writerSchema, nil
}
