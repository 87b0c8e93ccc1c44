package config

import (
	"github.com/Sokol111/glue-schema-registry/pkg/registry"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/encoding"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/naming"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/spf13/viper"
)

// setDefaults registers every key with viper so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper) {
	key := func(name string) string { return configSection + "." + name }

	v.SetDefault(key(keyRegistryName), registry.DefaultRegistryName)
	v.SetDefault(key(keyRegion), "")
	v.SetDefault(key(keyEndpoint), "")
	v.SetDefault(key(keyMaxWaitAttempts), registry.DefaultMaxWaitAttempts)
	v.SetDefault(key(keyWaitInterval), registry.DefaultWaitInterval)
	v.SetDefault(key(keyCompatibility), string(schema.DefaultCompatibilityMode))
	v.SetDefault(key(keyNamingStrategy), naming.TopicName)
	v.SetDefault(key(keyAutoRegister), false)
	v.SetDefault(key(keyCompression), string(encoding.CompressionNone))
	v.SetDefault(key(keyReturnRecordName), false)
}

// applyDefaults fills zero values, e.g. keys explicitly set to an empty string.
func applyDefaults(cfg *Config) {
	if cfg.RegistryName == "" {
		cfg.RegistryName = registry.DefaultRegistryName
	}
	if cfg.MaxWaitAttempts == 0 {
		cfg.MaxWaitAttempts = registry.DefaultMaxWaitAttempts
	}
	if cfg.WaitInterval == 0 {
		cfg.WaitInterval = registry.DefaultWaitInterval
	}
	if cfg.Compatibility == "" {
		cfg.Compatibility = schema.DefaultCompatibilityMode
	}
	if cfg.NamingStrategy == "" {
		cfg.NamingStrategy = naming.TopicName
	}
	if cfg.Compression == "" {
		cfg.Compression = encoding.CompressionNone
	}
}
