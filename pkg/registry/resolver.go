package registry

import (
	"context"
	"errors"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const opGetOrRegister = "GetOrRegister"

// Request describes the schema a writer wants a version id for.
type Request struct {
	Definition    string
	SchemaName    string
	DataFormat    schema.DataFormat
	Compatibility schema.CompatibilityMode
	Metadata      Metadata
}

// Resolver turns a schema definition into exactly one registry version.
type Resolver struct {
	client       Registry
	autoRegister bool
	log          *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithAutoRegister allows the resolver to create missing schemas and versions.
// When disabled (the default) the not-found error is returned to the caller.
func WithAutoRegister(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.autoRegister = enabled
	}
}

func WithResolverLogger(log *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

func NewResolver(client Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client: client,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrRegister returns the version whose definition matches req.
//
// A lookup that fails with ErrSchemaVersionNotFound registers a new version,
// one that fails with ErrSchemaNotFound creates the schema. Either way the
// resulting id is fetched again so the caller gets the registry's view of it.
// Every other failure is returned as *Error.
func (r *Resolver) GetOrRegister(ctx context.Context, req Request) (*schema.SchemaVersion, error) {
	version, err := r.client.GetSchemaByDefinition(ctx, req.Definition, req.SchemaName)
	if err == nil {
		return version, nil
	}

	if !IsNotFound(err) || !r.autoRegister {
		return nil, asError(err, req.SchemaName)
	}

	var versionID uuid.UUID
	if errors.Is(err, ErrSchemaVersionNotFound) {
		r.log.Debug("schema version not found, registering",
			zap.String("schema-name", req.SchemaName),
		)
		versionID, err = r.client.RegisterSchemaVersion(ctx, req.Definition, req.SchemaName, req.Metadata)
	} else {
		r.log.Debug("schema not found, creating",
			zap.String("schema-name", req.SchemaName),
		)
		compatibility := req.Compatibility
		if compatibility == "" {
			compatibility = schema.DefaultCompatibilityMode
		}
		versionID, err = r.client.CreateSchema(ctx, req.SchemaName, req.DataFormat, req.Definition, compatibility, req.Metadata)
	}
	if err != nil {
		return nil, asError(err, req.SchemaName)
	}

	version, err = r.client.GetSchemaVersion(ctx, versionID)
	if err != nil {
		return nil, asError(err, req.SchemaName)
	}
	return version, nil
}

func asError(err error, schemaName string) error {
	var registryErr *Error
	if errors.As(err, &registryErr) {
		return err
	}
	return &Error{Op: opGetOrRegister, SchemaName: schemaName, Err: err}
}
