package tomlpatch

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// FormatKey renders a dotted key. Segments made only of ASCII letters,
// digits, '_' and '-' are written bare; all others are written as TOML
// strings.
func FormatKey(path []string) string {
	parts := make([]string, len(path))
	for i, seg := range path {
		parts[i] = formatKeySegment(seg)
	}
	return strings.Join(parts, ".")
}

func formatKeySegment(seg string) string {
	bare := seg != ""
	for i := 0; i < len(seg) && bare; i++ {
		bare = isBareKeyChar(seg[i])
	}
	if bare {
		return seg
	}
	// Strings always encode.
	s, _ := FormatValue(seg)
	return s
}

// FormatValue renders a patch value as a TOML inline value. Only primitives
// and arrays of primitives are accepted.
func FormatValue(v any) (string, error) {
	switch val := v.(type) {
	case []any:
		for i, e := range val {
			if !IsPrimitive(e) {
				return "", errors.Newf("array element %d is not a primitive (%T)", i, e)
			}
		}
	default:
		if !IsPrimitive(v) && !IsPrimitiveArray(v) {
			return "", errors.Newf("unsupported TOML value of type %T", v)
		}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetMarshalJsonNumbers(true)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrapf(err, "encoding %T", v)
	}
	return buf.String(), nil
}

// IsPrimitive reports whether v is a string, bool, or number.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case string, bool, json.Number, int, int64, float64:
		return true
	}
	return false
}

// IsPrimitiveArray reports whether v is an array whose elements are all
// primitives. An empty array qualifies.
func IsPrimitiveArray(v any) bool {
	switch arr := v.(type) {
	case []string:
		return true
	case []any:
		for _, e := range arr {
			if !IsPrimitive(e) {
				return false
			}
		}
		return true
	}
	return false
}
