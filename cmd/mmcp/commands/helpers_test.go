package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/paths"
)

const testHome = "/home/dev"

var testConfigPath = filepath.Join(testHome, ".mmcp.json")

// setupEnv points the commands at an in-memory filesystem and resets the
// package-level flag variables.
func setupEnv(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	origFS, origResolver, origPath, origRetention := flags.FS(), flags.Resolver(), flags.GetConfigPath(), flags.BackupRetention()
	flags.SetFS(fs)
	flags.SetResolver(paths.Static{HomeDir: testHome})
	flags.SetConfigPath(testConfigPath)
	flags.SetQuiet(false)

	addURL, addEnv, addHeaders, addForce = "", nil, nil, false
	applyAgents, applyMode, applyNoBackup = nil, "", false
	restoreList, validateJSON = false, false
	doctorJSON, doctorVerbose, doctorFix = false, false, false
	listOutput, listShowSecrets = "table", false

	t.Cleanup(func() {
		flags.SetFS(origFS)
		flags.SetResolver(origResolver)
		flags.SetConfigPath(origPath)
		flags.SetBackupRetention(origRetention)
	})
	return fs
}

// testCommand returns a command whose output is captured in the buffer.
func testCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(t.Context())
	return cmd, &buf
}

func writeConfig(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte(content), 0o644))
}

func readConfig(t *testing.T, fs afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fs, testConfigPath)
	require.NoError(t, err)
	return string(data)
}
