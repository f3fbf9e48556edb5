// Package jsontree provides an insertion-ordered JSON mapping and the
// order-preserving parse/encode pair used for native JSON configuration files.
//
// Client applications own the JSON files mmcp writes into. Round-tripping
// through map[string]any would shuffle the user's keys, so every object in a
// decoded document is an [Object] that remembers key order.
//
// # Value Model
//
// Decoded values are one of:
//
//   - nil (JSON null)
//   - bool
//   - string
//   - json.Number (numbers keep their exact source text)
//   - []any
//   - *Object
//
// [Parse] produces this model, [Marshal] and [MarshalIndent] consume it, and
// [Clone] and [Equal] operate on it.
package jsontree
