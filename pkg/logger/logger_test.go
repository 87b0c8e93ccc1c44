package logger

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("builds production logger at configured level", func(t *testing.T) {
		// Given
		conf := DefaultConfig()
		conf.Level = zapcore.WarnLevel

		// When
		log, level, err := New(conf)

		// Then
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.Equal(t, zapcore.WarnLevel, level.Level())
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.Same(t, log, Get(context.Background()))
	})

	t.Run("writes to configured output path", func(t *testing.T) {
		// Given
		path := filepath.Join(t.TempDir(), "out.log")
		conf := DefaultConfig()
		conf.OutputPaths = []string{path}

		// When
		log, _, err := New(conf)

		// Then
		require.NoError(t, err)
		log.Info("hello")
		assert.NoError(t, log.Sync())
	})

	t.Run("atomic level can be changed at runtime", func(t *testing.T) {
		// Given
		log, level, err := New(DefaultConfig())
		require.NoError(t, err)

		// When
		level.SetLevel(zapcore.DebugLevel)

		// Then
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects blank output path", func(t *testing.T) {
		// Given
		conf := DefaultConfig()
		conf.OutputPaths = []string{"  "}

		// When
		log, _, err := New(conf)

		// Then
		require.Error(t, err)
		assert.Nil(t, log)
		assert.Contains(t, err.Error(), "outputPaths[0]")
	})
}

func TestLoadConfig(t *testing.T) {
	testCases := []struct {
		name        string
		yaml        string
		expected    Config
		expectedErr string
	}{
		{
			name:     "missing section uses defaults",
			yaml:     "schema-registry:\n  region: eu-west-1\n",
			expected: DefaultConfig(),
		},
		{
			name: "levels parsed from strings",
			yaml: "logger:\n  level: debug\n  development: true\n  stacktraceLevel: warn\n  outputPaths: [stdout]\n",
			expected: Config{
				Level:           zapcore.DebugLevel,
				Development:     true,
				OutputPaths:     []string{"stdout"},
				StacktraceLevel: zapcore.WarnLevel,
			},
		},
		{
			name:        "invalid level",
			yaml:        "logger:\n  level: loud\n",
			expectedErr: "invalid log level 'loud'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			v := viper.New()
			v.SetConfigType("yaml")
			require.NoError(t, v.ReadConfig(strings.NewReader(tc.yaml)))

			// When
			conf, err := LoadConfig(v)

			// Then
			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, conf)
		})
	}
}

func TestGet_ReturnsContextLogger(t *testing.T) {
	// Given
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)
	ctx := With(context.Background(), log)

	// When
	Get(ctx).Info("from context", zap.String("topic", "users"))

	// Then
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "from context", entry.Message)
	assert.Equal(t, "users", entry.ContextMap()["topic"])
}

func TestGet_FallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, defaultLogger, Get(nil))
	assert.Same(t, defaultLogger, Get(context.Background()))
	assert.Same(t, defaultLogger, Get(With(context.Background(), nil)))
}

func TestWith_NilContext(t *testing.T) {
	log := zap.NewNop()

	//nolint:staticcheck // nil context is part of the contract
	ctx := With(nil, log)

	assert.Same(t, log, Get(ctx))
}
