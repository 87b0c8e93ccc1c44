// Package serialization turns (value, schema) pairs into Glue wire format bytes.
package serialization

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/Sokol111/glue-schema-registry/pkg/registry"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/encoding"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/naming"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrMissingSchema is returned when a value is passed without a schema.
	ErrMissingSchema = errors.New("value has no schema")

	// ErrSchemaNotComparable is returned for schema implementations that cannot be cache keys.
	ErrSchemaNotComparable = errors.New("schema type is not comparable")
)

// SchemaVersionResolver resolves a schema definition to its registry version.
// *registry.Resolver satisfies it.
type SchemaVersionResolver interface {
	GetOrRegister(ctx context.Context, req registry.Request) (*schema.SchemaVersion, error)
}

// Serializer writes values with their schema version id in front.
//
// Resolved versions are cached per schema object for the lifetime of the
// Serializer. The cache key ignores the topic: serializing the same schema
// object under another topic reuses the version resolved first. Schema
// implementations must therefore be comparable; pointer types are, and
// others fail with ErrSchemaNotComparable.
type Serializer struct {
	resolver      SchemaVersionResolver
	builder       encoding.WireFormatBuilder
	naming        naming.Strategy
	compatibility schema.CompatibilityMode
	compression   encoding.Compression
	metadata      registry.Metadata
	log           *zap.Logger

	mu    sync.RWMutex
	cache map[schema.Schema]*schema.SchemaVersion
	group singleflight.Group
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithNamingStrategy selects how schema names are derived. Defaults to naming.TopicNameStrategy.
func WithNamingStrategy(strategy naming.Strategy) Option {
	return func(s *Serializer) {
		if strategy != nil {
			s.naming = strategy
		}
	}
}

// WithCompatibility sets the compatibility mode used when a schema has to be created.
func WithCompatibility(mode schema.CompatibilityMode) Option {
	return func(s *Serializer) {
		s.compatibility = mode
	}
}

// WithCompression selects payload compression.
func WithCompression(compression encoding.Compression) Option {
	return func(s *Serializer) {
		s.compression = compression
	}
}

// WithMetadata attaches metadata to every schema version the serializer creates.
func WithMetadata(metadata registry.Metadata) Option {
	return func(s *Serializer) {
		s.metadata = metadata
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Serializer) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSerializer creates a Serializer backed by resolver.
func NewSerializer(resolver SchemaVersionResolver, opts ...Option) *Serializer {
	s := &Serializer{
		resolver:      resolver,
		naming:        naming.TopicNameStrategy,
		compatibility: schema.DefaultCompatibilityMode,
		compression:   encoding.CompressionNone,
		log:           zap.NewNop(),
		cache:         make(map[schema.Schema]*schema.SchemaVersion),
	}
	for _, opt := range opts {
		opt(s)
	}
	_, s.builder = encoding.NewGlueWireFormat(s.compression)
	return s
}

// Serialize encodes v for topic. A nil v yields nil bytes and no error.
func (s *Serializer) Serialize(ctx context.Context, topic string, isKey bool, v *schema.DataAndSchema) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if v.Schema == nil {
		return nil, ErrMissingSchema
	}

	version, err := s.Register(ctx, topic, isKey, v.Schema)
	if err != nil {
		return nil, err
	}

	payload, err := v.Schema.Write(v.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to write value: %w", err)
	}

	return s.builder.Build(version.VersionID, payload), nil
}

// Register resolves and caches the version of s without serializing anything.
// It is useful to fail fast at startup for schemas known in advance.
//
// Concurrent misses for the same name and definition share one registry
// lookup. A caller whose ctx ends stops waiting, but the shared lookup keeps
// going for the others and still fills the cache.
func (s *Serializer) Register(ctx context.Context, topic string, isKey bool, sch schema.Schema) (*schema.SchemaVersion, error) {
	if sch == nil {
		return nil, ErrMissingSchema
	}
	if !reflect.TypeOf(sch).Comparable() {
		return nil, fmt.Errorf("%w: %T", ErrSchemaNotComparable, sch)
	}

	s.mu.RLock()
	cached, exists := s.cache[sch]
	s.mu.RUnlock()

	if exists {
		return cached, nil
	}

	req := registry.Request{
		Definition:    sch.String(),
		SchemaName:    s.naming(topic, isKey, sch),
		DataFormat:    sch.DataFormat(),
		Compatibility: s.compatibility,
		Metadata:      s.metadata,
	}

	lookupCtx := context.WithoutCancel(ctx)
	resultCh := s.group.DoChan(req.SchemaName+"\x00"+req.Definition, func() (any, error) {
		version, err := s.resolver.GetOrRegister(lookupCtx, req)
		if err != nil {
			return nil, err
		}
		s.store(sch, version)

		s.log.Debug("resolved schema version",
			zap.String("topic", topic),
			zap.String("schema-name", req.SchemaName),
			zap.Stringer("schema-version-id", version.VersionID),
		)
		return version, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultCh:
		if result.Err != nil {
			return nil, result.Err
		}
		version := result.Val.(*schema.SchemaVersion)
		// A caller that joined another caller's lookup may hold a different schema object.
		s.store(sch, version)
		return version, nil
	}
}

func (s *Serializer) store(sch schema.Schema, version *schema.SchemaVersion) {
	s.mu.Lock()
	s.cache[sch] = version
	s.mu.Unlock()
}
