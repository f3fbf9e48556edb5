package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/backup"
	"github.com/thoreinstein/mmcp/internal/errors"
)

const handWritten = `{"theme":"dark","mcpServers":{"mine":{"command":"x"}}}`

func TestApplyThenRestore(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"mode":"replace","agents":["cursor"],"mcpServers":{"ctx":{"command":"npx"}}}`)
	cursor := filepath.Join(testHome, ".cursor", "mcp.json")
	require.NoError(t, afero.WriteFile(fs, cursor, []byte(handWritten), 0o600))

	cmd, _ := testCommand(t)
	require.NoError(t, runApply(cmd, nil))

	applied, err := afero.ReadFile(fs, cursor)
	require.NoError(t, err)
	assert.NotContains(t, string(applied), `"mine"`)

	cmd, buf := testCommand(t)
	require.NoError(t, runRestore(cmd, []string{"cursor"}))

	restored, err := afero.ReadFile(fs, cursor)
	require.NoError(t, err)
	assert.Equal(t, handWritten, string(restored))
	assert.True(t, strings.HasPrefix(buf.String(), "Restored "+cursor+" from backup "), buf.String())
}

func TestApply_NoBackup(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"agents":["cursor"],"mcpServers":{"ctx":{"command":"npx"}}}`)
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testHome, ".cursor", "mcp.json"), []byte("{}"), 0o644))

	applyNoBackup = true
	cmd, _ := testCommand(t)
	require.NoError(t, runApply(cmd, nil))

	exists, err := afero.DirExists(fs, backup.Dir(flags.Resolver()))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApply_BackupsDisabledBySettings(t *testing.T) {
	fs := setupEnv(t)
	flags.SetBackupRetention(0)
	writeConfig(t, fs, `{"agents":["cursor"],"mcpServers":{"ctx":{"command":"npx"}}}`)
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testHome, ".cursor", "mcp.json"), []byte("{}"), 0o644))

	cmd, _ := testCommand(t)
	require.NoError(t, runApply(cmd, nil))

	exists, err := afero.DirExists(fs, backup.Dir(flags.Resolver()))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRestore_List(t *testing.T) {
	fs := setupEnv(t)
	writeConfig(t, fs, `{"agents":["cursor"],"mcpServers":{"ctx":{"command":"npx"}}}`)
	cursor := filepath.Join(testHome, ".cursor", "mcp.json")
	require.NoError(t, afero.WriteFile(fs, cursor, []byte("{}"), 0o644))

	cmd, _ := testCommand(t)
	require.NoError(t, runApply(cmd, nil))

	restoreList = true
	cmd, buf := testCommand(t)
	require.NoError(t, runRestore(cmd, []string{"cursor"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "CREATED")
	assert.Contains(t, lines[1], cursor)
}

func TestRestore_NoBackups(t *testing.T) {
	setupEnv(t)
	cmd, _ := testCommand(t)

	err := runRestore(cmd, []string{"gemini-cli"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, backup.ErrNoBackupsFound))

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, errors.ExitUser, exitErr.Code)
}
