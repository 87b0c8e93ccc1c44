// Package registry is a typed façade over the AWS Glue Schema Registry.
//
// It narrows the Glue API down to one registry, translates responses into
// schema.SchemaVersion values and structured errors, and waits for the
// registry's asynchronous compatibility check after a new version is written.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultRegistryName    = "default-registry"
	DefaultMaxWaitAttempts = 10
	DefaultWaitInterval    = 3 * time.Second
)

// Registry is the set of registry operations used by the resolver and the serde.
type Registry interface {
	// GetSchemaVersion fetches a version by id. Versions that are not AVAILABLE are rejected.
	GetSchemaVersion(ctx context.Context, versionID uuid.UUID) (*schema.SchemaVersion, error)

	// GetSchemaByDefinition finds the version of schemaName whose definition matches exactly.
	GetSchemaByDefinition(ctx context.Context, definition, schemaName string) (*schema.SchemaVersion, error)

	// RegisterSchemaVersion adds a version under an existing schema and waits until it is AVAILABLE.
	RegisterSchemaVersion(ctx context.Context, definition, schemaName string, metadata Metadata) (uuid.UUID, error)

	// CreateSchema creates a schema together with its first version.
	CreateSchema(ctx context.Context, schemaName string, dataFormat schema.DataFormat, definition string,
		compatibility schema.CompatibilityMode, metadata Metadata) (uuid.UUID, error)

	// PutSchemaVersionMetadata attaches metadata to a version, one call per entry.
	PutSchemaVersionMetadata(ctx context.Context, versionID uuid.UUID, metadata Metadata) error
}

// Client implements Registry against a single Glue registry.
type Client struct {
	api              GlueAPI
	registryName     string
	maxWaitAttempts  int
	waitInterval     time.Duration
	initialWaitDelay time.Duration
	initialDelaySet  bool
	log              *zap.Logger
	tracer           trace.Tracer
	metrics          instruments
}

var _ Registry = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithRegistryName selects the registry all operations run against.
func WithRegistryName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.registryName = name
		}
	}
}

// WithMaxWaitAttempts sets how many times a pending version is polled. Values below 1 are ignored.
func WithMaxWaitAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxWaitAttempts = attempts
		}
	}
}

// WithWaitInterval sets the delay between polls of a pending version.
func WithWaitInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval >= 0 {
			c.waitInterval = interval
		}
	}
}

// WithInitialWaitDelay sets the delay before the first poll. Defaults to the wait interval.
func WithInitialWaitDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.initialWaitDelay = delay
			c.initialDelaySet = true
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithMeterProvider records call counts and durations with mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		if mp != nil {
			c.metrics = newInstruments(mp)
		}
	}
}

// NewClient creates a registry client on top of api.
func NewClient(api GlueAPI, opts ...Option) *Client {
	c := &Client{
		api:             api,
		registryName:    DefaultRegistryName,
		maxWaitAttempts: DefaultMaxWaitAttempts,
		waitInterval:    DefaultWaitInterval,
		log:             zap.NewNop(),
		tracer:          otel.GetTracerProvider().Tracer(instrumentationName),
		metrics:         newInstruments(otel.GetMeterProvider()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.initialDelaySet {
		c.initialWaitDelay = c.waitInterval
	}
	return c
}

// RegistryName returns the registry the client works against.
func (c *Client) RegistryName() string {
	return c.registryName
}

func (c *Client) GetSchemaVersion(ctx context.Context, versionID uuid.UUID) (_ *schema.SchemaVersion, err error) {
	const op = "GetSchemaVersion"

	ctx, span := c.startSpan(ctx, op, attribute.String("glue.schema_version_id", versionID.String()))
	defer func() { span.end(err) }()

	c.log.Debug("getting schema version", zap.Stringer("schema-version-id", versionID))

	out, err := c.api.GetSchemaVersion(ctx, &glue.GetSchemaVersionInput{
		SchemaVersionId: aws.String(versionID.String()),
	})
	if err != nil {
		return nil, &Error{Op: op, VersionID: versionID, Err: classify(err)}
	}

	if out.SchemaVersionId == nil || out.Status != types.SchemaVersionStatusAvailable {
		return nil, &Error{
			Op:        op,
			VersionID: versionID,
			Err:       fmt.Errorf("%w: status is %q", ErrSchemaVersionNotAvailable, out.Status),
		}
	}

	id, err := uuid.Parse(aws.ToString(out.SchemaVersionId))
	if err != nil {
		return nil, &Error{Op: op, VersionID: versionID, Err: fmt.Errorf("invalid schema version id: %w", err)}
	}

	return &schema.SchemaVersion{
		SchemaName:    schemaNameFromARN(aws.ToString(out.SchemaArn)),
		VersionID:     id,
		Definition:    aws.ToString(out.SchemaDefinition),
		DataFormat:    schema.DataFormat(out.DataFormat),
		Status:        schema.SchemaVersionStatus(out.Status),
		VersionNumber: versionNumber(out.VersionNumber),
	}, nil
}

func (c *Client) GetSchemaByDefinition(ctx context.Context, definition, schemaName string) (_ *schema.SchemaVersion, err error) {
	const op = "GetSchemaByDefinition"

	ctx, span := c.startSpan(ctx, op, attribute.String("glue.schema_name", schemaName))
	defer func() { span.end(err) }()

	c.log.Debug("getting schema version by definition",
		zap.String("schema-name", schemaName),
		zap.String("definition", definition),
	)

	out, err := c.api.GetSchemaByDefinition(ctx, &glue.GetSchemaByDefinitionInput{
		SchemaId:         c.schemaID(schemaName),
		SchemaDefinition: aws.String(definition),
	})
	if err != nil {
		return nil, &Error{Op: op, SchemaName: schemaName, Err: classify(err)}
	}

	if out.SchemaVersionId == nil || out.Status != types.SchemaVersionStatusAvailable {
		return nil, &Error{
			Op:         op,
			SchemaName: schemaName,
			Err:        fmt.Errorf("%w: status is %q", ErrSchemaVersionNotAvailable, out.Status),
		}
	}

	id, err := uuid.Parse(aws.ToString(out.SchemaVersionId))
	if err != nil {
		return nil, &Error{Op: op, SchemaName: schemaName, Err: fmt.Errorf("invalid schema version id: %w", err)}
	}

	return &schema.SchemaVersion{
		SchemaName: schemaNameFromARN(aws.ToString(out.SchemaArn)),
		VersionID:  id,
		Definition: definition,
		DataFormat: schema.DataFormat(out.DataFormat),
		Status:     schema.SchemaVersionStatus(out.Status),
	}, nil
}

func (c *Client) RegisterSchemaVersion(ctx context.Context, definition, schemaName string, metadata Metadata) (_ uuid.UUID, err error) {
	const op = "RegisterSchemaVersion"

	spanCtx, span := c.startSpan(ctx, op, attribute.String("glue.schema_name", schemaName))
	defer func() { span.end(err) }()

	out, err := c.api.RegisterSchemaVersion(spanCtx, &glue.RegisterSchemaVersionInput{
		SchemaId:         c.schemaID(schemaName),
		SchemaDefinition: aws.String(definition),
	})
	if err != nil {
		return uuid.Nil, &Error{Op: op, SchemaName: schemaName, Err: classify(err)}
	}

	id, err := uuid.Parse(aws.ToString(out.SchemaVersionId))
	if err != nil {
		return uuid.Nil, &Error{Op: op, SchemaName: schemaName, Err: fmt.Errorf("invalid schema version id: %w", err)}
	}

	c.log.Info("registered schema version",
		zap.String("schema-name", schemaName),
		zap.Stringer("schema-version-id", id),
		zap.String("status", string(out.Status)),
	)

	if out.Status != types.SchemaVersionStatusAvailable {
		if err := c.WaitForSchemaEvolutionCheck(spanCtx, id); err != nil {
			return uuid.Nil, err
		}
	}

	if len(metadata) > 0 {
		if err := c.PutSchemaVersionMetadata(spanCtx, id, metadata); err != nil {
			return uuid.Nil, err
		}
	}

	return id, nil
}

func (c *Client) CreateSchema(
	ctx context.Context,
	schemaName string,
	dataFormat schema.DataFormat,
	definition string,
	compatibility schema.CompatibilityMode,
	metadata Metadata,
) (_ uuid.UUID, err error) {
	const op = "CreateSchema"

	spanCtx, span := c.startSpan(ctx, op,
		attribute.String("glue.schema_name", schemaName),
		attribute.String("glue.data_format", string(dataFormat)),
		attribute.String("glue.compatibility", string(compatibility)),
	)
	defer func() { span.end(err) }()

	out, err := c.api.CreateSchema(spanCtx, &glue.CreateSchemaInput{
		RegistryId:       &types.RegistryId{RegistryName: aws.String(c.registryName)},
		SchemaName:       aws.String(schemaName),
		DataFormat:       types.DataFormat(dataFormat),
		Compatibility:    types.Compatibility(compatibility),
		SchemaDefinition: aws.String(definition),
	})
	if err != nil {
		classified := classify(err)
		if errors.Is(classified, ErrSchemaAlreadyExists) {
			// Lost the race against another writer: the schema exists now, add the version to it.
			c.log.Warn("schema created concurrently, registering version instead",
				zap.String("schema-name", schemaName),
			)
			return c.RegisterSchemaVersion(spanCtx, definition, schemaName, metadata)
		}
		return uuid.Nil, &Error{Op: op, SchemaName: schemaName, Err: classified}
	}

	id, err := uuid.Parse(aws.ToString(out.SchemaVersionId))
	if err != nil {
		return uuid.Nil, &Error{Op: op, SchemaName: schemaName, Err: fmt.Errorf("invalid schema version id: %w", err)}
	}

	c.log.Info("created schema",
		zap.String("schema-name", schemaName),
		zap.String("registry-name", c.registryName),
		zap.Stringer("schema-version-id", id),
		zap.String("data-format", string(dataFormat)),
		zap.String("compatibility", string(compatibility)),
	)

	if out.SchemaVersionStatus != types.SchemaVersionStatusAvailable {
		if err := c.WaitForSchemaEvolutionCheck(spanCtx, id); err != nil {
			return uuid.Nil, err
		}
	}

	if len(metadata) > 0 {
		if err := c.PutSchemaVersionMetadata(spanCtx, id, metadata); err != nil {
			return uuid.Nil, err
		}
	}

	return id, nil
}

func (c *Client) schemaID(schemaName string) *types.SchemaId {
	return &types.SchemaId{
		SchemaName:   aws.String(schemaName),
		RegistryName: aws.String(c.registryName),
	}
}

// schemaNameFromARN returns the last path segment of a schema ARN.
func schemaNameFromARN(arn string) string {
	return arn[strings.LastIndex(arn, "/")+1:]
}

// versionNumber accepts both the pointer and the value form used by Glue outputs.
func versionNumber(v any) *int64 {
	switch n := v.(type) {
	case *int64:
		return n
	case int64:
		return &n
	}
	return nil
}
