package agent

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/internal/mcp/parser"
	"github.com/thoreinstein/mmcp/internal/paths"
)

const home = "/home/dev"

var testResolver = paths.Static{HomeDir: home}

func mustConfig(t *testing.T, canonical string) *mcp.Config {
	t.Helper()
	cfg, err := parser.Parse([]byte(canonical))
	require.NoError(t, err)
	return cfg
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// compactJSON re-encodes a JSON document on one line, keeping key order.
func compactJSON(t *testing.T, s string) string {
	t.Helper()
	obj, err := jsontree.Parse([]byte(s))
	require.NoError(t, err)
	data, err := jsontree.Marshal(obj)
	require.NoError(t, err)
	return string(data)
}

func targetByID(t *testing.T, id string) Target {
	t.Helper()
	for _, target := range Targets() {
		if target.ID == id {
			return target
		}
	}
	t.Fatalf("no target %q", id)
	return Target{}
}
