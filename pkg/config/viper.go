package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// viperConfig holds internal configuration options for the Viper module.
type viperConfig struct {
	configPath   *string
	noConfigFile bool
}

// ViperOption is a functional option for configuring the Viper module.
type ViperOption func(*viperConfig)

// WithConfigPath sets a direct path to the configuration file.
// Overrides the CONFIG_FILE environment variable.
func WithConfigPath(path string) ViperOption {
	return func(cfg *viperConfig) {
		cfg.configPath = &path
	}
}

// WithoutConfigFile disables loading of any config file.
// Settings then come from defaults and the environment only.
func WithoutConfigFile() ViperOption {
	return func(cfg *viperConfig) {
		cfg.noConfigFile = true
	}
}

// FilePath represents the path to a configuration file.
// Empty string means no config file will be loaded.
type FilePath string

// NewViperModule creates an fx module for Viper configuration.
// By default the config path is taken from the CONFIG_FILE environment variable.
func NewViperModule(opts ...ViperOption) fx.Option {
	cfg := &viperConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Module("viper",
		fx.Supply(resolveConfigPath(cfg)),
		fx.Provide(func(path FilePath) (*viper.Viper, error) { return NewViper(string(path)) }),
		fx.Invoke(logViperConfig),
	)
}

func logViperConfig(logger *zap.Logger, v *viper.Viper) {
	logger.Info("Configuration loaded successfully",
		zap.String("configFile", v.ConfigFileUsed()),
		zap.Strings("configKeys", v.AllKeys()),
	)
}

func resolveConfigPath(cfg *viperConfig) FilePath {
	if cfg.noConfigFile {
		return ""
	}
	if cfg.configPath != nil {
		return FilePath(*cfg.configPath)
	}
	return FilePath(os.Getenv("CONFIG_FILE"))
}

// NewViper returns a viper instance reading configFile, if not empty, with environment overrides.
// Key separators map to underscores: schema-registry.wait-interval reads SCHEMA_REGISTRY_WAIT_INTERVAL.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
	}

	return v, nil
}
