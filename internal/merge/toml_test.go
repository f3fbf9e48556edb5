package merge

import (
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/internal/tomlpatch"
)

const codexConfig = `model = "o3"

[mcp_servers]

[mcp_servers.foo]
command = "foo"

# profile settings
[profiles.fast]
model = "o4-mini"

[mcp_servers.bar] # legacy
command = "bar"

[tui]
notifications = true
`

func TestTOML_Replace(t *testing.T) {
	cfg := configOf(t, mcp.ModeReplace, `{"context7":{"command":"npx","args":["-y","@upstash/context7-mcp"]}}`)

	got, err := TOML(codexConfig, cfg)
	require.NoError(t, err)

	want := `model = "o3"

[profiles.fast]
model = "o4-mini"

[tui]
notifications = true

[mcp_servers.context7]
command = 'npx'
args = ['-y', '@upstash/context7-mcp']
`
	assert.Equal(t, want, got)
}

func TestTOML_ReplaceWithNoServersStrips(t *testing.T) {
	got, err := TOML(codexConfig, configOf(t, mcp.ModeReplace, `{}`))
	require.NoError(t, err)

	want := `model = "o3"

[profiles.fast]
model = "o4-mini"

[tui]
notifications = true
`
	assert.Equal(t, want, got)
}

func TestTOML_ReplaceKeepsRootDottedKeys(t *testing.T) {
	input := "model = \"o3\"\nmcp_servers.foo.command = \"x\"\n\n[mcp_servers.bar]\ncommand = \"y\"\n"

	got, err := TOML(input, configOf(t, mcp.ModeReplace, `{}`))
	require.NoError(t, err)
	assert.Equal(t, "model = \"o3\"\nmcp_servers.foo.command = \"x\"\n", got)
}

func TestTOML_MergeWithNoServersIsNoOp(t *testing.T) {
	got, err := TOML(codexConfig, configOf(t, mcp.ModeMerge, `{}`))
	require.NoError(t, err)
	assert.Equal(t, codexConfig, got)
}

func TestTOML_MergeKeepsOtherServers(t *testing.T) {
	cfg := configOf(t, mcp.ModeMerge, `{"bar":{"command":"new","env":{"TOKEN":"t"}}}`)

	got, err := TOML(codexConfig, cfg)
	require.NoError(t, err)

	want := `model = "o3"

[mcp_servers]

[mcp_servers.foo]
command = "foo"

# profile settings
[profiles.fast]
model = "o4-mini"

[mcp_servers.bar] # legacy
command = 'new'

[tui]
notifications = true

[mcp_servers.bar.env]
TOKEN = 't'
`
	assert.Equal(t, want, got)
}

func TestTOML_Idempotent(t *testing.T) {
	for _, mode := range []mcp.Mode{mcp.ModeMerge, mcp.ModeReplace} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := configOf(t, mode, `{
				"name.with dot": {"command": "npx", "args": ["-y", "pkg"], "env": {"A": "1"}},
				"with space": {"url": "https://example.com/mcp", "startup_timeout_sec": 20}
			}`)

			once, err := TOML(codexConfig, cfg)
			require.NoError(t, err)
			twice, err := TOML(once, cfg)
			require.NoError(t, err)
			assert.Equal(t, once, twice)

			var decoded struct {
				Model      string                    `toml:"model"`
				MCPServers map[string]map[string]any `toml:"mcp_servers"`
			}
			require.NoError(t, toml.Unmarshal([]byte(once), &decoded))
			assert.Equal(t, "o3", decoded.Model)
			assert.Contains(t, decoded.MCPServers, "name.with dot")
			assert.Contains(t, decoded.MCPServers, "with space")
			assert.Equal(t, "npx", decoded.MCPServers["name.with dot"]["command"])
			assert.Equal(t, int64(20), decoded.MCPServers["with space"]["startup_timeout_sec"])

			if mode == mcp.ModeReplace {
				assert.NotContains(t, decoded.MCPServers, "foo")
				assert.NotContains(t, decoded.MCPServers, "bar")
			} else {
				assert.Contains(t, decoded.MCPServers, "foo")
				assert.Contains(t, decoded.MCPServers, "bar")
			}
		})
	}
}

func TestTOML_Errors(t *testing.T) {
	t.Run("invalid mode", func(t *testing.T) {
		_, err := TOML("", configOf(t, "sync", `{}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidMode))
	})

	for _, mode := range []mcp.Mode{mcp.ModeMerge, mcp.ModeReplace} {
		t.Run("malformed document in "+string(mode)+" mode", func(t *testing.T) {
			_, err := TOML("[mcp_servers\ncommand = ", configOf(t, mode, `{}`))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMalformedDocument))
		})
	}
}

func TestBuildPatches(t *testing.T) {
	cfg := configOf(t, mcp.ModeMerge, `{
		"a": {
			"command": "npx",
			"args": ["-y"],
			"env": {"K": "v"},
			"cwd": null,
			"empty": {},
			"items": [{"name": "x"}, "y"]
		},
		"b.c": {"enabled": true, "timeout": 5}
	}`)

	got := BuildPatches(cfg)

	want := []tomlpatch.Patch{
		{Path: []string{"mcp_servers", "a", "command"}, Value: "npx"},
		{Path: []string{"mcp_servers", "a", "args"}, Value: []any{"-y"}},
		{Path: []string{"mcp_servers", "a", "env", "K"}, Value: "v"},
		{Path: []string{"mcp_servers", "a", "cwd"}},
		{Path: []string{"mcp_servers", "a", "items", "0", "name"}, Value: "x"},
		{Path: []string{"mcp_servers", "a", "items", "1"}, Value: "y"},
		{Path: []string{"mcp_servers", "b.c", "enabled"}, Value: true},
		{Path: []string{"mcp_servers", "b.c", "timeout"}, Value: json.Number("5")},
	}
	assert.Equal(t, want, got)
}

func TestBuildPatches_Empty(t *testing.T) {
	assert.Empty(t, BuildPatches(mcp.NewConfig()))
}
