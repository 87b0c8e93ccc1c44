// Package config loads the schema registry serde settings from viper.
package config

import (
	"fmt"
	"time"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/encoding"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	RegistryName     string                   `mapstructure:"registry-name"`
	Region           string                   `mapstructure:"region"`
	Endpoint         string                   `mapstructure:"endpoint"`
	MaxWaitAttempts  int                      `mapstructure:"max-wait-attempts"`
	WaitInterval     time.Duration            `mapstructure:"wait-interval"`
	Compatibility    schema.CompatibilityMode `mapstructure:"compatibility"`
	NamingStrategy   string                   `mapstructure:"naming-strategy"`
	AutoRegister     bool                     `mapstructure:"auto-register"`
	Compression      encoding.Compression     `mapstructure:"compression"`
	ReturnRecordName bool                     `mapstructure:"return-record-name"`
	// Metadata is attached to every schema version the serializer creates.
	// Keys are lower-cased by viper.
	Metadata map[string]string `mapstructure:"metadata"`
}

// NewSchemaRegistryConfigModule provides Config read from the "schema-registry" section.
func NewSchemaRegistryConfigModule() fx.Option {
	return fx.Provide(newConfig)
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	cfg, err := Load(v)
	if err != nil {
		return cfg, err
	}

	logger.Info("loaded schema registry config",
		zap.String("registry-name", cfg.RegistryName),
		zap.String("region", cfg.Region),
		zap.String("compatibility", cfg.Compatibility.String()),
		zap.String("naming-strategy", cfg.NamingStrategy),
		zap.Bool("auto-register", cfg.AutoRegister),
		zap.String("compression", string(cfg.Compression)),
	)

	return cfg, nil
}

// Load reads, defaults and validates the "schema-registry" section of v.
// Every key can be overridden from the environment, e.g. SCHEMA_REGISTRY_REGION.
func Load(v *viper.Viper) (Config, error) {
	setDefaults(v)

	var root struct {
		SchemaRegistry Config `mapstructure:"schema-registry"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return Config{}, fmt.Errorf("failed to load schema registry config: %w", err)
	}

	cfg := root.SchemaRegistry
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid schema registry config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with every default applied.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}
