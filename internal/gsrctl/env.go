package gsrctl

import (
	"context"
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/config"
	"github.com/Sokol111/glue-schema-registry/pkg/logger"
	"github.com/Sokol111/glue-schema-registry/pkg/module"
	"github.com/Sokol111/glue-schema-registry/pkg/registry"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/deserialization"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/serialization"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Env holds the components a command needs.
type Env struct {
	Config       config.Config
	Log          *zap.Logger
	Client       *registry.Client
	Serializer   *serialization.Serializer
	Deserializer *deserialization.Deserializer
}

// NewEnv connects to Glue using the AWS default credential chain.
func NewEnv(ctx context.Context, flags *Config) (*Env, error) {
	cfg, _, err := flags.Load()
	if err != nil {
		return nil, err
	}

	api, err := registry.NewGlueAPI(ctx, module.GlueConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create glue client: %w", err)
	}

	return NewEnvWithAPI(cfg, api, flags.Verbose)
}

// NewEnvWithAPI builds the components on top of api.
func NewEnvWithAPI(cfg config.Config, api registry.GlueAPI, verbose bool) (*Env, error) {
	logConf := logger.DefaultConfig()
	logConf.Development = true
	logConf.Level = zapcore.WarnLevel
	if verbose {
		logConf.Level = zapcore.DebugLevel
	}
	logConf.OutputPaths = []string{"stderr"}

	log, _, err := logger.New(logConf)
	if err != nil {
		return nil, err
	}

	client := registry.NewClient(api, module.ClientOptions(cfg, log, nil)...)
	resolver := registry.NewResolver(client, module.ResolverOptions(cfg, log)...)

	serOpts, err := module.SerializerOptions(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Env{
		Config:       cfg,
		Log:          log,
		Client:       client,
		Serializer:   serialization.NewSerializer(resolver, serOpts...),
		Deserializer: deserialization.NewDeserializer(client, module.DeserializerOptions(cfg, log, nil)...),
	}, nil
}

// Close flushes the logger.
func (e *Env) Close() error {
	return logger.Sync(e.Log)
}
