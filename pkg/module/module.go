package module

import (
	"context"
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/config"
	"github.com/Sokol111/glue-schema-registry/pkg/kafka"
	"github.com/Sokol111/glue-schema-registry/pkg/logger"
	"github.com/Sokol111/glue-schema-registry/pkg/observability"
	"github.com/Sokol111/glue-schema-registry/pkg/registry"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/deserialization"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/serialization"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewCoreModule provides viper and the zap logger.
func NewCoreModule(opts ...config.ViperOption) fx.Option {
	return fx.Options(
		logger.NewZapLoggingModule(),
		config.NewViperModule(opts...),
	)
}

// NewObservabilityModule provides the tracer and meter providers picked up by the registry
// client and the Kafka message serializer.
func NewObservabilityModule(opts ...observability.Option) fx.Option {
	return fx.Options(
		observability.NewObservabilityConfigModule(opts...),
		observability.NewTracingModule(),
		observability.NewMetricsModule(),
	)
}

// NewSchemaRegistryModule provides everything between the AWS SDK and the Kafka adapters.
// It expects *viper.Viper and *zap.Logger, e.g. from NewCoreModule.
func NewSchemaRegistryModule() fx.Option {
	return fx.Options(
		config.NewSchemaRegistryConfigModule(),
		NewGlueModule(),
		NewRegistryModule(),
		NewSerdeModule(),
	)
}

// NewGlueModule provides a registry.GlueAPI backed by the AWS SDK.
// Leave it out and supply your own registry.GlueAPI to use a custom client.
func NewGlueModule() fx.Option {
	return fx.Provide(provideGlueAPI)
}

func provideGlueAPI(cfg config.Config, log *zap.Logger) (registry.GlueAPI, error) {
	api, err := registry.NewGlueAPI(context.Background(), GlueConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create glue client: %w", err)
	}

	log.Info("glue client created",
		zap.String("region", api.Options().Region),
		zap.String("registry-name", cfg.RegistryName),
	)

	return api, nil
}

// NewRegistryModule provides *registry.Client and *registry.Resolver on top of a registry.GlueAPI.
func NewRegistryModule() fx.Option {
	return fx.Module("schema-registry",
		fx.Provide(
			provideClient,
			provideResolver,
			func(c *registry.Client) deserialization.VersionFetcher { return c },
			func(r *registry.Resolver) serialization.SchemaVersionResolver { return r },
		),
	)
}

type clientParams struct {
	fx.In

	API            registry.GlueAPI
	Config         config.Config
	Log            *zap.Logger
	TracerProvider trace.TracerProvider `optional:"true"`
	MeterProvider  metric.MeterProvider `optional:"true"`
}

func provideClient(p clientParams) *registry.Client {
	opts := ClientOptions(p.Config, p.Log, p.TracerProvider)
	if p.MeterProvider != nil {
		opts = append(opts, registry.WithMeterProvider(p.MeterProvider))
	}
	return registry.NewClient(p.API, opts...)
}

func provideResolver(client *registry.Client, cfg config.Config, log *zap.Logger) *registry.Resolver {
	return registry.NewResolver(client, ResolverOptions(cfg, log)...)
}

// NewSerdeModule provides the serializer, the deserializer and their Kafka adapters.
// A deserialization.Secondary in the container, if any, receives non-Glue data.
func NewSerdeModule() fx.Option {
	return fx.Module("serde",
		fx.Provide(
			provideSerializer,
			provideDeserializer,
			provideMessageSerializer,
			func(d *deserialization.Deserializer) *kafka.MessageDeserializer {
				return kafka.NewMessageDeserializer(d)
			},
		),
	)
}

func provideSerializer(resolver serialization.SchemaVersionResolver, cfg config.Config, log *zap.Logger) (*serialization.Serializer, error) {
	opts, err := SerializerOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	return serialization.NewSerializer(resolver, opts...), nil
}

type messageSerializerParams struct {
	fx.In

	Serializer     *serialization.Serializer
	Log            *zap.Logger
	TracerProvider trace.TracerProvider `optional:"true"`
}

func provideMessageSerializer(p messageSerializerParams) *kafka.MessageSerializer {
	return kafka.NewMessageSerializer(p.Serializer, p.Log, kafka.WithTracerProvider(p.TracerProvider))
}

type deserializerParams struct {
	fx.In

	Fetcher   deserialization.VersionFetcher
	Config    config.Config
	Log       *zap.Logger
	Secondary deserialization.Secondary `optional:"true"`
}

func provideDeserializer(p deserializerParams) *deserialization.Deserializer {
	return deserialization.NewDeserializer(p.Fetcher, DeserializerOptions(p.Config, p.Log, p.Secondary)...)
}
