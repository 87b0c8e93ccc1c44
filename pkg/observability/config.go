// Package observability provides the OpenTelemetry tracer and meter providers used by the
// registry client and the Kafka adapters.
package observability

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// DefaultMetricsInterval is the default metrics export interval.
	DefaultMetricsInterval = 10 * time.Second

	// DefaultShutdownTimeout bounds flushing of pending spans and metrics on stop.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultRuntimeStatsInterval is the default interval for runtime stats.
	DefaultRuntimeStatsInterval = time.Second

	// DefaultSampleRatio samples every trace.
	DefaultSampleRatio = 1.0

	DefaultServiceName = "glue-schema-registry"
)

// Config holds all observability configuration.
type Config struct {
	ServiceName           string        `mapstructure:"service-name"`
	ServiceVersion        string        `mapstructure:"service-version"`
	Environment           string        `mapstructure:"environment"`
	OtelCollectorEndpoint string        `mapstructure:"otel-collector-endpoint"`
	Tracing               TracingConfig `mapstructure:"tracing"`
	Metrics               MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample-ratio"`
}

type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type configOptions struct {
	config         *Config
	disableTracing bool
	disableMetrics bool
}

// Option is a functional option for configuring the observability config module.
type Option func(*configOptions)

// WithConfig provides a static Config (useful for tests).
func WithConfig(cfg Config) Option {
	return func(opts *configOptions) {
		opts.config = &cfg
	}
}

// WithDisableTracing disables tracing regardless of configuration.
func WithDisableTracing() Option {
	return func(opts *configOptions) {
		opts.disableTracing = true
	}
}

// WithDisableMetrics disables metrics regardless of configuration.
func WithDisableMetrics() Option {
	return func(opts *configOptions) {
		opts.disableMetrics = true
	}
}

// NewObservabilityConfigModule provides Config, loaded from the "observability" section by default.
func NewObservabilityConfigModule(opts ...Option) fx.Option {
	cfg := &configOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(provideConfig),
	)
}

func provideConfig(opts *configOptions, v *viper.Viper, logger *zap.Logger) (Config, error) {
	var cfg Config
	if opts.config != nil {
		cfg = *opts.config
	} else {
		loaded, err := LoadConfig(v)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	applyDefaults(&cfg)
	if opts.disableTracing {
		cfg.Tracing.Enabled = false
	}
	if opts.disableMetrics {
		cfg.Metrics.Enabled = false
	}

	logger.Info("loaded observability config",
		zap.Bool("tracing", cfg.Tracing.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)
	return cfg, nil
}

// LoadConfig reads the "observability" section of v. A missing section disables everything.
func LoadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if sub := v.Sub("observability"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load observability config: %w", err)
		}
	}
	applyDefaults(&cfg)

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return cfg, fmt.Errorf("tracing sample ratio must be between 0 and 1, got: %v", cfg.Tracing.SampleRatio)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Metrics.Interval == 0 {
		cfg.Metrics.Interval = DefaultMetricsInterval
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultSampleRatio
	}
}
