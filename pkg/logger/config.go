package logger

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Level specifies the minimum logging level.
	Level zapcore.Level `mapstructure:"level"`

	// Development switches to console encoding. Production (false) writes JSON.
	Development bool `mapstructure:"development"`

	// OutputPaths is a list of URLs or file paths to write logging output to.
	// If empty, defaults to stderr.
	OutputPaths []string `mapstructure:"outputPaths"`

	// ErrorOutputPaths is a list of URLs or file paths to write internal logger errors to.
	ErrorOutputPaths []string `mapstructure:"errorOutputPaths"`

	// StacktraceLevel sets the minimum level at which stacktraces are captured. Defaults to ErrorLevel.
	StacktraceLevel zapcore.Level `mapstructure:"stacktraceLevel"`
}

// DefaultConfig is the production configuration at info level.
func DefaultConfig() Config {
	return Config{
		Level:           zapcore.InfoLevel,
		StacktraceLevel: zapcore.ErrorLevel,
	}
}

func (c Config) Validate() error {
	if err := validatePaths(c.OutputPaths, "outputPaths"); err != nil {
		return err
	}
	return validatePaths(c.ErrorOutputPaths, "errorOutputPaths")
}

func validatePaths(paths []string, fieldName string) error {
	for i, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%s[%d] cannot be empty or whitespace", fieldName, i)
		}
	}
	return nil
}

// LoadConfig reads the "logger" section of v. A missing section yields DefaultConfig.
func LoadConfig(v *viper.Viper) (Config, error) {
	sub := v.Sub("logger")
	if sub == nil {
		return DefaultConfig(), nil
	}

	// Levels are configured as strings and parsed separately.
	var raw struct {
		Level            string   `mapstructure:"level"`
		Development      bool     `mapstructure:"development"`
		OutputPaths      []string `mapstructure:"outputPaths"`
		ErrorOutputPaths []string `mapstructure:"errorOutputPaths"`
		StacktraceLevel  string   `mapstructure:"stacktraceLevel"`
	}
	if err := sub.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to load logger config: %w", err)
	}

	level, err := ParseLevel(raw.Level, zapcore.InfoLevel)
	if err != nil {
		return Config{}, err
	}
	stacktraceLevel, err := ParseLevel(raw.StacktraceLevel, zapcore.ErrorLevel)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Level:            level,
		Development:      raw.Development,
		OutputPaths:      raw.OutputPaths,
		ErrorOutputPaths: raw.ErrorOutputPaths,
		StacktraceLevel:  stacktraceLevel,
	}, nil
}

// ParseLevel parses a level name, returning def for an empty string.
func ParseLevel(s string, def zapcore.Level) (zapcore.Level, error) {
	if s == "" {
		return def, nil
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return def, fmt.Errorf("invalid log level '%s': %w", s, err)
	}
	return level, nil
}
