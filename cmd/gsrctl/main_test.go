package main

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/encoding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCommand(t *testing.T) {
	// Arrange
	id := uuid.New()
	data := encoding.Encode([]byte("payload"), id, true)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(bytes.NewBufferString(hex.EncodeToString(data)))
	cmd.SetArgs([]string{"inspect", "--encoding", "hex"})

	// Act
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), id.String())
	assert.Contains(t, out.String(), `"compression": "zlib"`)
}

func TestRegisterCommand_RequiresFlags(t *testing.T) {
	// Arrange
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"register"})

	// Act
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestFetchCommand_RequiresID(t *testing.T) {
	// Arrange
	cmd := newRootCmd()
	cmd.SetArgs([]string{"fetch"})

	// Act
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
}
