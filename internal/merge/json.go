package merge

import (
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

// ServersKey is the top-level key of the server mapping in JSON targets.
const ServersKey = "mcpServers"

// JSON merges cfg into a decoded JSON document and returns the new document.
//
// A nil doc is treated as an empty object. In merge mode with no servers the
// result equals doc; in particular a missing "mcpServers" key is not created.
// Only the top level of each server entry is merged field by field: arrays
// and objects inside an entry are replaced wholesale.
//
// The returned error wraps errors.ErrInvalidMode for an unrecognized mode and
// is marked errors.ErrMalformedDocument when doc holds "mcpServers" (or a
// server being merged) with a non-object value.
func JSON(doc *jsontree.Object, cfg *mcp.Config, norm Normalization) (*jsontree.Object, error) {
	if err := checkMode(cfg); err != nil {
		return nil, err
	}

	out := jsontree.CloneObject(doc)
	if out == nil {
		out = jsontree.NewObject()
	}

	servers, err := serversOf(out)
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case mcp.ModeReplace:
		servers = jsontree.NewObject()
		for name, spec := range cfg.MCPServers.All() {
			servers.Set(name, norm.entry(nil, spec))
		}
		out.Set(ServersKey, servers)

	case mcp.ModeMerge:
		if cfg.MCPServers.Len() > 0 {
			if servers == nil {
				servers = jsontree.NewObject()
				out.Set(ServersKey, servers)
			}
			for name, spec := range cfg.MCPServers.All() {
				existing, err := entryOf(servers, name)
				if err != nil {
					return nil, err
				}
				servers.Set(name, norm.entry(existing, spec))
			}
		}
	}

	if servers != nil {
		norm.sweep(servers)
	}
	return out, nil
}

func checkMode(cfg *mcp.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if !cfg.Mode.Valid() {
		return errors.Wrapf(errors.ErrInvalidMode, "mode %q", string(cfg.Mode))
	}
	return nil
}

// serversOf returns the server mapping of doc, or nil when the key is absent
// or null.
func serversOf(doc *jsontree.Object) (*jsontree.Object, error) {
	raw, ok := doc.Get(ServersKey)
	if !ok || raw == nil {
		return nil, nil
	}
	servers, ok := raw.(*jsontree.Object)
	if !ok {
		return nil, errors.Malformed(errors.Newf("expected an object, found %s", kindOf(raw)), "%s", ServersKey)
	}
	return servers, nil
}

func entryOf(servers *jsontree.Object, name string) (*jsontree.Object, error) {
	raw, ok := servers.Get(name)
	if !ok || raw == nil {
		return nil, nil
	}
	entry, ok := raw.(*jsontree.Object)
	if !ok {
		return nil, errors.Malformed(errors.Newf("expected an object, found %s", kindOf(raw)), "%s[%q]", ServersKey, name)
	}
	return entry, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case []any:
		return "an array"
	case *jsontree.Object:
		return "an object"
	default:
		return "a number"
	}
}
