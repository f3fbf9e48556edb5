package commands

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// stubEditor replaces the editor with fn for the duration of the test.
func stubEditor(t *testing.T, fn func(path string) error) {
	t.Helper()
	orig := openEditor
	openEditor = fn
	t.Cleanup(func() { openEditor = orig })
}

func TestEdit_CreatesMissingConfig(t *testing.T) {
	fs := setupEnv(t)
	var opened string
	stubEditor(t, func(path string) error {
		opened = path
		return nil
	})

	cmd, buf := testCommand(t)
	require.NoError(t, runEdit(cmd, nil))

	assert.Equal(t, testConfigPath, opened)
	assert.Equal(t, "Location: "+testConfigPath+"\n", buf.String())

	cfg := mustParseConfig(t, readConfig(t, fs))
	assert.Equal(t, 0, cfg.MCPServers.Len())
}

func TestEdit_ValidatesResult(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"agents":[],"mcpServers":{}}`)
	stubEditor(t, func(path string) error {
		return afero.WriteFile(fs, path, []byte(`{"mode":"overwrite","mcpServers":{}}`), 0o644)
	})

	cmd, buf := testCommand(t)
	err := runEdit(cmd, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errValidationFailed))
	assert.Contains(t, buf.String(), "mode must be 'merge' or 'replace'")
}

func TestEdit_EditorFails(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"mcpServers":{}}`)
	stubEditor(t, func(string) error { return errors.New("exec: \"nvim\": not found") })

	cmd, _ := testCommand(t)
	err := runEdit(cmd, nil)
	require.Error(t, err)

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, errors.ExitSystem, exitErr.Code)
}
