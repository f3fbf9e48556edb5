package merge

import (
	"slices"
	"strconv"

	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/internal/tomlpatch"
)

// TOMLServersKey is the table holding one sub-table per server in TOML
// targets.
const TOMLServersKey = "mcp_servers"

// TOML merges cfg into TOML text and returns the new text.
//
// In replace mode every [mcp_servers] and [mcp_servers.*] section is stripped
// first and the Config's servers are then written into the stripped text. In
// merge mode the patches go straight into content, so sections of servers the
// Config does not name survive untouched. Merge mode with no servers returns
// content unchanged.
//
// New server sections are appended after all retained content, in Config
// order.
func TOML(content string, cfg *mcp.Config) (string, error) {
	if err := checkMode(cfg); err != nil {
		return "", err
	}
	if err := tomlpatch.Validate(content); err != nil {
		return "", err
	}

	if cfg.Mode == mcp.ModeReplace {
		content = tomlpatch.Strip(content, TOMLServersKey)
	}
	if cfg.MCPServers.Len() == 0 {
		return content, nil
	}
	return tomlpatch.Apply(content, BuildPatches(cfg))
}

// BuildPatches flattens the Config's servers into key patches under
// mcp_servers.<name>, in Config order.
//
// Primitive values and arrays of primitives become one patch each. Nested
// objects are walked key by key; arrays holding objects or arrays are walked
// by index. A deletion marker becomes a delete patch.
func BuildPatches(cfg *mcp.Config) []tomlpatch.Patch {
	var patches []tomlpatch.Patch

	var walk func(base []string, v any)
	walk = func(base []string, v any) {
		switch val := v.(type) {
		case nil:
			patches = append(patches, tomlpatch.Patch{Path: base})
		case *jsontree.Object:
			for k, e := range val.All() {
				walk(slices.Concat(base, []string{k}), e)
			}
		case []any:
			if tomlpatch.IsPrimitiveArray(val) {
				patches = append(patches, tomlpatch.Patch{Path: base, Value: val})
				return
			}
			for i, e := range val {
				walk(slices.Concat(base, []string{strconv.Itoa(i)}), e)
			}
		default:
			if tomlpatch.IsPrimitive(val) || tomlpatch.IsPrimitiveArray(val) {
				patches = append(patches, tomlpatch.Patch{Path: base, Value: val})
			}
		}
	}

	for name, spec := range cfg.MCPServers.All() {
		if spec == nil {
			continue
		}
		walk([]string{TOMLServersKey, name}, spec.Fields())
	}
	return patches
}
