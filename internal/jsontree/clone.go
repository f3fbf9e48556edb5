package jsontree

import (
	"encoding/json"
	"slices"
)

// Clone returns a deep copy of a tree value. Objects and arrays are copied;
// scalars are returned as is.
func Clone(v any) any {
	switch val := v.(type) {
	case *Object:
		return CloneObject(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = Clone(e)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}

// CloneObject returns a deep copy of obj. A nil object clones to nil.
func CloneObject(obj *Object) *Object {
	if obj == nil {
		return nil
	}
	out := NewObject()
	for k, v := range obj.All() {
		out.Set(k, Clone(v))
	}
	return out
}

// Equal reports whether two tree values are structurally equal.
// Object key order is ignored; array order is significant. Numbers compare
// by numeric value.
func Equal(a, b any) bool {
	a, b = widen(a), widen(b)
	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for k, v := range av.All() {
			other, ok := bv.Get(k)
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case json.Number:
		af, err := av.Float64()
		if err != nil {
			return false
		}
		switch bv := b.(type) {
		case json.Number:
			bf, err := bv.Float64()
			return err == nil && af == bf
		case float64:
			return af == bv
		case int:
			return af == float64(bv)
		}
		return false
	default:
		return a == b
	}
}

func widen(v any) any {
	s, ok := v.([]string)
	if !ok {
		return v
	}
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}
