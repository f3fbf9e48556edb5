package jsontree

import (
	"bytes"
	"encoding/json"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeMap(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal encodes a value from the tree model as compact JSON.
// HTML characters are not escaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent encodes v with two-space indentation and a trailing newline,
// the layout the client applications write themselves.
func MarshalIndent(v any) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, errors.Wrap(err, "indenting JSON")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeMap[V any](buf *bytes.Buffer, m *Map[V]) error {
	if m == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	first := true
	for k, v := range m.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := encodeValue(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, v); err != nil {
			return errors.Wrapf(err, "encoding key %q", k)
		}
	}
	buf.WriteByte('}')
	return nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case *Object:
		return encodeMap(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, e := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case json.Number:
		if _, err := val.Float64(); err != nil {
			return errors.Wrapf(err, "invalid number %q", string(val))
		}
	}
	return encodeValue(buf, v)
}

// encodeValue writes a leaf value through encoding/json with HTML escaping
// turned off.
func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(err, "encoding %T", v)
	}
	// Encoder always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
