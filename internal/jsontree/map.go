package jsontree

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is a string-keyed mapping that preserves insertion order.
//
// Setting an existing key replaces its value in place; the key keeps its
// original position. The zero value is not usable; use [NewMap].
type Map[V any] struct {
	pairs *orderedmap.OrderedMap[string, V]
}

// Object is the ordered mapping used for JSON objects.
type Object = Map[any]

// NewMap creates an empty ordered mapping.
func NewMap[V any]() *Map[V] {
	return &Map[V]{pairs: orderedmap.New[string, V]()}
}

// NewObject creates an empty JSON object.
func NewObject() *Object {
	return NewMap[any]()
}

// Len returns the number of keys.
func (m *Map[V]) Len() int {
	if m == nil || m.pairs == nil {
		return 0
	}
	return m.pairs.Len()
}

// Keys returns a copy of the keys in order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, m.Len())
	for k := range m.All() {
		out = append(out, k)
	}
	return out
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil || m.pairs == nil {
		var zero V
		return zero, false
	}
	return m.pairs.Get(key)
}

// Set stores value under key, appending the key if it is new.
func (m *Map[V]) Set(key string, value V) {
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, V]()
	}
	m.pairs.Set(key, value)
}

// Delete removes key. Deleting a missing key is a no-op.
func (m *Map[V]) Delete(key string) {
	if m == nil || m.pairs == nil {
		return
	}
	m.pairs.Delete(key)
}

// All iterates over key/value pairs in order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil || m.pairs == nil {
			return
		}
		for p := m.pairs.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}
