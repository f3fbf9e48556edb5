package merge

import (
	"encoding/json"

	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

// Normalization selects the default fields a target application expects on
// its server entries.
type Normalization int

const (
	// NormalizeNone writes entries exactly as merged.
	NormalizeNone Normalization = iota

	// NormalizeLocalDefaults gives merged entries type "local", tools ["*"]
	// and args [] unless they carry their own, then backfills type, tools,
	// args and env {} on every entry in the server mapping.
	NormalizeLocalDefaults

	// NormalizeLocalTouched gives merged entries type "local" and tools ["*"]
	// unless they carry their own. Entries not named in the Config are left
	// alone.
	NormalizeLocalTouched
)

// String returns the policy name used in logs.
func (n Normalization) String() string {
	switch n {
	case NormalizeNone:
		return "none"
	case NormalizeLocalDefaults:
		return "local-defaults"
	case NormalizeLocalTouched:
		return "local-touched"
	default:
		return "unknown"
	}
}

type defaultField struct {
	key   string
	value func() any
}

var (
	defaultType  = defaultField{mcp.FieldType, func() any { return "local" }}
	defaultTools = defaultField{mcp.FieldTools, func() any { return []any{"*"} }}
	defaultArgs  = defaultField{mcp.FieldArgs, func() any { return []any{} }}
	defaultEnv   = defaultField{mcp.FieldEnv, func() any { return jsontree.NewObject() }}
)

// entryDefaults are laid down before the existing and incoming fields of a
// server named in the Config.
func (n Normalization) entryDefaults() []defaultField {
	switch n {
	case NormalizeLocalDefaults:
		return []defaultField{defaultType, defaultTools, defaultArgs}
	case NormalizeLocalTouched:
		return []defaultField{defaultType, defaultTools}
	default:
		return nil
	}
}

// sweepDefaults are backfilled onto every entry of the server mapping.
func (n Normalization) sweepDefaults() []defaultField {
	if n == NormalizeLocalDefaults {
		return []defaultField{defaultType, defaultTools, defaultArgs, defaultEnv}
	}
	return nil
}

// entry builds the merged entry for one server: defaults first, then the
// existing fields, then the incoming fields. Incoming deletion markers remove
// the field.
func (n Normalization) entry(existing *jsontree.Object, spec *mcp.ServerSpec) *jsontree.Object {
	out := jsontree.NewObject()
	for _, d := range n.entryDefaults() {
		out.Set(d.key, d.value())
	}
	for k, v := range existing.All() {
		out.Set(k, v)
	}
	if spec == nil {
		return out
	}
	for k, v := range spec.Fields().All() {
		if mcp.IsDeletion(v) {
			out.Delete(k)
			continue
		}
		out.Set(k, jsontree.Clone(v))
	}
	return out
}

// sweep backfills missing or empty default fields on every object entry.
func (n Normalization) sweep(servers *jsontree.Object) {
	defaults := n.sweepDefaults()
	if len(defaults) == 0 {
		return
	}
	for _, raw := range servers.All() {
		obj, ok := raw.(*jsontree.Object)
		if !ok {
			continue
		}
		for _, d := range defaults {
			if v, ok := obj.Get(d.key); !ok || isEmptyScalar(v) {
				obj.Set(d.key, d.value())
			}
		}
	}
}

func isEmptyScalar(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	}
	return false
}
