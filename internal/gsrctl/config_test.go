package gsrctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Sokol111/glue-schema-registry/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGlueAPI satisfies registry.GlueAPI; none of its methods are called here.
type stubGlueAPI struct {
	registry.GlueAPI
}

func TestConfig_Load(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema-registry:\n  registry-name: from-file\n  region: eu-west-1\n"), 0o600))
	flags := &Config{ConfigFile: path, Region: "us-east-2"}

	// Act
	cfg, v, err := flags.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.RegistryName)
	assert.Equal(t, "us-east-2", cfg.Region)
	assert.Equal(t, path, v.ConfigFileUsed())
}

func TestConfig_Load_NoFile(t *testing.T) {
	// Arrange
	flags := &Config{RegistryName: "cli"}

	// Act
	cfg, _, err := flags.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cli", cfg.RegistryName)
	assert.Equal(t, 10, cfg.MaxWaitAttempts)
}

func TestNewEnvWithAPI(t *testing.T) {
	// Arrange
	cfg, _, err := (&Config{RegistryName: "cli"}).Load()
	require.NoError(t, err)

	// Act
	env, err := NewEnvWithAPI(cfg, stubGlueAPI{}, true)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cli", env.Client.RegistryName())
	assert.NotNil(t, env.Serializer)
	assert.NotNil(t, env.Deserializer)
	assert.NoError(t, env.Close())
}
