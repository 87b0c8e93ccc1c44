package config

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type dotenvConfig struct {
	path   string
	loaded bool
}

// DotEnvOption is a functional option for configuring the dotenv module.
type DotEnvOption func(*dotenvConfig)

// WithDotEnvPath sets a custom path to the .env file.
func WithDotEnvPath(path string) DotEnvOption {
	return func(cfg *dotenvConfig) {
		cfg.path = path
	}
}

// LoadDotEnv loads path into the process environment without overriding variables already set.
// It reports whether a file was loaded; a missing file is not an error.
func LoadDotEnv(path string) bool {
	return godotenv.Load(path) == nil
}

// NewDotEnvModule loads environment variables from a .env file,
// by default ".env" in the current directory. Loading happens when the module is created
// so the values are visible to the viper module.
func NewDotEnvModule(opts ...DotEnvOption) fx.Option {
	cfg := &dotenvConfig{path: ".env"}
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.loaded = LoadDotEnv(cfg.path)

	return fx.Module("dotenv",
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					if cfg.loaded {
						logger.Info("Loaded .env file", zap.String("path", cfg.path))
					} else {
						logger.Debug("No .env file loaded", zap.String("path", cfg.path))
					}
					return nil
				},
			})
		}),
	)
}
