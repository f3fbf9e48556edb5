package jsontree

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// ErrNotObject indicates a document whose root is not a JSON object.
var ErrNotObject = errors.New("document root is not a JSON object")

// Parse decodes a JSON document whose root must be an object.
// Key order is preserved at every nesting level. Duplicate keys keep the
// position of their first occurrence and the value of their last.
func Parse(data []byte) (*Object, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrNotObject
	}
	return decodeObject(root), nil
}

func decode(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return r.Str
	default:
		if r.IsObject() {
			return decodeObject(r)
		}
		elems := r.Array()
		out := make([]any, 0, len(elems))
		for _, e := range elems {
			out = append(out, decode(e))
		}
		return out
	}
}

func decodeObject(r gjson.Result) *Object {
	obj := NewObject()
	r.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.String(), decode(value))
		return true
	})
	return obj
}
