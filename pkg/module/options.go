// Package module wires the registry client and the serde into fx applications.
package module

import (
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/config"
	"github.com/Sokol111/glue-schema-registry/pkg/registry"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/deserialization"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/naming"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/serialization"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// The builders below translate Config into component options. cmd/gsrctl uses them without fx.

func ClientOptions(cfg config.Config, log *zap.Logger, tp trace.TracerProvider) []registry.Option {
	opts := []registry.Option{
		registry.WithRegistryName(cfg.RegistryName),
		registry.WithMaxWaitAttempts(cfg.MaxWaitAttempts),
		registry.WithWaitInterval(cfg.WaitInterval),
		registry.WithLogger(log),
	}
	if tp != nil {
		opts = append(opts, registry.WithTracerProvider(tp))
	}
	return opts
}

func ResolverOptions(cfg config.Config, log *zap.Logger) []registry.ResolverOption {
	return []registry.ResolverOption{
		registry.WithAutoRegister(cfg.AutoRegister),
		registry.WithResolverLogger(log),
	}
}

func SerializerOptions(cfg config.Config, log *zap.Logger) ([]serialization.Option, error) {
	strategy, err := naming.Lookup(cfg.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to configure serializer: %w", err)
	}
	return []serialization.Option{
		serialization.WithNamingStrategy(strategy),
		serialization.WithCompatibility(cfg.Compatibility),
		serialization.WithCompression(cfg.Compression),
		serialization.WithMetadata(registry.MetadataFromMap(cfg.Metadata)),
		serialization.WithLogger(log),
	}, nil
}

func DeserializerOptions(cfg config.Config, log *zap.Logger, secondary deserialization.Secondary) []deserialization.Option {
	opts := []deserialization.Option{
		deserialization.WithReturnRecordName(cfg.ReturnRecordName),
		deserialization.WithLogger(log),
	}
	if secondary != nil {
		opts = append(opts, deserialization.WithSecondaryDeserializer(secondary))
	}
	return opts
}

// GlueConfig extracts the AWS endpoint settings from cfg.
func GlueConfig(cfg config.Config) registry.GlueConfig {
	return registry.GlueConfig{Region: cfg.Region, Endpoint: cfg.Endpoint}
}
