package config

import (
	"fmt"
	"strings"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/naming"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/samber/lo"
)

// validateConfig validates the whole schema registry configuration
func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.RegistryName) == "" {
		return fmt.Errorf("registry name cannot be empty")
	}
	if err := validateWaiting(cfg); err != nil {
		return err
	}
	if err := validateEnums(cfg); err != nil {
		return err
	}
	return validateMetadata(cfg.Metadata)
}

func validateWaiting(cfg *Config) error {
	if cfg.MaxWaitAttempts < minMaxWaitAttempts || cfg.MaxWaitAttempts > maxMaxWaitAttempts {
		return fmt.Errorf("max wait attempts must be between %d and %d, got: %d",
			minMaxWaitAttempts, maxMaxWaitAttempts, cfg.MaxWaitAttempts)
	}
	if cfg.WaitInterval < minWaitInterval || cfg.WaitInterval > maxWaitInterval {
		return fmt.Errorf("wait interval must be between %v and %v, got: %v",
			minWaitInterval, maxWaitInterval, cfg.WaitInterval)
	}
	return nil
}

func validateEnums(cfg *Config) error {
	if !lo.Contains(schema.CompatibilityModes, cfg.Compatibility) {
		return fmt.Errorf("compatibility must be one of %v, got: %q", schema.CompatibilityModes, cfg.Compatibility)
	}
	if !lo.Contains(naming.Names(), cfg.NamingStrategy) {
		return fmt.Errorf("naming strategy must be one of %v, got: %q", naming.Names(), cfg.NamingStrategy)
	}
	if !cfg.Compression.IsValid() {
		return fmt.Errorf("compression must be 'none' or 'zlib', got: %q", cfg.Compression)
	}
	return nil
}

func validateMetadata(metadata map[string]string) error {
	for key := range metadata {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("metadata keys cannot be empty")
		}
	}
	return nil
}
