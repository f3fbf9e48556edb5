// Package tomlpatch edits TOML documents as text.
//
// Client applications keep hand-written comments and layout in their TOML
// configuration files, so nothing here decodes a document and re-encodes it.
// Two independent passes are provided:
//
//   - [Strip] removes whole table sections by matching header lines.
//   - [Apply] sets or removes individual keys addressed by path, rewriting
//     only the lines that hold the affected key/value pairs and appending new
//     table sections when the host table does not exist yet.
//
// Every line that is not part of an affected key/value pair or section is
// carried through byte for byte.
package tomlpatch
