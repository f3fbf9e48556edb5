package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

func mustParse(t *testing.T, s string) *jsontree.Object {
	t.Helper()
	obj, err := jsontree.Parse([]byte(s))
	require.NoError(t, err)
	return obj
}

func compact(t *testing.T, v any) string {
	t.Helper()
	data, err := jsontree.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// configOf builds a Config from the JSON text of its mcpServers object.
func configOf(t *testing.T, mode mcp.Mode, servers string) *mcp.Config {
	t.Helper()
	cfg := mcp.NewConfig()
	cfg.Mode = mode
	for name, raw := range mustParse(t, servers).All() {
		obj, ok := raw.(*jsontree.Object)
		require.True(t, ok, "server %q must be an object", name)
		cfg.SetServer(name, mcp.ServerSpecFrom(obj))
	}
	return cfg
}
