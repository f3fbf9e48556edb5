package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mmcp/internal/errors"
)

func TestValidate_Valid(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"agents":["cursor"],"mcpServers":{"ctx":{"command":"npx"}}}`)

	var buf bytes.Buffer
	require.NoError(t, runValidate(&buf, false))
	assert.Contains(t, buf.String(), testConfigPath+" is valid")
}

func TestValidate_Invalid(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"mode":"sync","agents":["cursor","vim","cursor"],"mcpServers":{"ctx":{"command":"npx"}}}`)

	var buf bytes.Buffer
	err := runValidate(&buf, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errValidationFailed))

	out := buf.String()
	assert.Contains(t, out, "has 2 error(s)")
	assert.Contains(t, out, "mode must be 'merge' or 'replace'")
	assert.Contains(t, out, "unknown agent 'vim'")
	assert.Contains(t, out, "listed more than once")
}

func TestValidate_JSON(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"agents":["nope"],"mcpServers":{"patch":{"env":{"A":"1"}}}}`)

	var buf bytes.Buffer
	err := runValidate(&buf, true)
	require.Error(t, err)

	var got validateResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Valid)
	assert.Equal(t, testConfigPath, got.Path)
	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "unknown agent 'nope'")
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "neither command nor URL")
}

func TestValidate_ParseError(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"mcpServers": [}`)

	var buf bytes.Buffer
	err := runValidate(&buf, true)
	require.Error(t, err)

	var got validateResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Valid)
	assert.NotEmpty(t, got.ParseError)
}
