// Package gsrctl implements the gsrctl commands on top of the registry client and the serde.
package gsrctl

import (
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/config"
	"github.com/spf13/viper"
)

// Config holds the global command-line flags.
// Non-empty flag values override the configuration file and the environment.
type Config struct {
	ConfigFile   string
	DotEnvFile   string
	RegistryName string
	Region       string
	Endpoint     string
	Verbose      bool
}

// Load resolves the schema registry configuration for a command run.
func (c *Config) Load() (config.Config, *viper.Viper, error) {
	if c.DotEnvFile != "" {
		config.LoadDotEnv(c.DotEnvFile)
	}

	v, err := config.NewViper(c.ConfigFile)
	if err != nil {
		return config.Config{}, nil, err
	}

	overrides := map[string]string{
		"schema-registry.registry-name": c.RegistryName,
		"schema-registry.region":        c.Region,
		"schema-registry.endpoint":      c.Endpoint,
	}
	for key, value := range overrides {
		if value != "" {
			v.Set(key, value)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, v, nil
}
