package tomlpatch

import (
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// ErrArrayTable indicates a patch path that runs through an array of tables.
var ErrArrayTable = errors.New("path runs through an array of tables")

// Patch sets or removes the value stored at a key path.
type Patch struct {
	// Path holds the literal key segments, outermost first.
	Path []string

	// Value is a primitive (string, bool, number) or an array of
	// primitives. A nil Value removes the key.
	Value any
}

// IsDelete reports whether the patch removes its key.
func (p Patch) IsDelete() bool {
	return p.Value == nil
}

// Apply applies patches to a TOML document in order and returns the new text.
//
// An existing key/value is rewritten in place, keeping its original key
// spelling and indentation. A new key is added after the last key/value of
// its table, or under a new table header appended at the end of the document
// when the table is not declared. A value that stands where the patch needs a
// table (or a table where it needs a value) is removed first. Removing a key
// that does not exist is a no-op.
//
// The input must be valid TOML; failures are marked with
// errors.ErrMalformedDocument. The result is validated before it is returned.
func Apply(content string, patches []Patch) (string, error) {
	if err := Validate(content); err != nil {
		return "", err
	}

	for _, p := range patches {
		if len(p.Path) == 0 {
			return "", errors.New("patch has an empty path")
		}
		next, err := applyOne(content, p)
		if err != nil {
			return "", errors.Wrapf(err, "patching %s", FormatKey(p.Path))
		}
		content = next
	}

	if err := validate(content); err != nil {
		return "", errors.Wrap(err, "patched document is not valid TOML")
	}
	return content, nil
}

// Validate checks that content is a well-formed TOML document. Failures are
// marked errors.ErrMalformedDocument.
func Validate(content string) error {
	if err := validate(content); err != nil {
		return errors.Malformed(err, "parsing TOML document")
	}
	return nil
}

func validate(content string) error {
	var doc map[string]any
	return toml.Unmarshal([]byte(content), &doc)
}

func applyOne(content string, p Patch) (string, error) {
	d, err := index(content)
	if err != nil {
		return "", errors.Malformed(err, "indexing TOML document")
	}

	for _, h := range d.headers {
		if h.array && hasPrefix(p.Path, h.path) {
			return "", ErrArrayTable
		}
	}

	var value string
	if !p.IsDelete() {
		if value, err = FormatValue(p.Value); err != nil {
			return "", err
		}
	}

	if kv := d.findKey(p.Path); kv != nil {
		if p.IsDelete() {
			return d.replaceLines(kv.start, kv.end), nil
		}
		return d.replaceLines(kv.start, kv.end, d.assignment(kv, value)), nil
	}

	remove := d.conflicts(p.Path, !p.IsDelete())
	if p.IsDelete() {
		if len(remove) == 0 {
			return content, nil
		}
		return d.without(remove), nil
	}

	if len(remove) > 0 {
		if d, err = index(d.without(remove)); err != nil {
			return "", errors.Wrap(err, "re-indexing TOML document")
		}
	}
	return d.insert(p.Path, value), nil
}

// assignment rewrites kv with a new value, keeping the text before '='.
func (d *document) assignment(kv *keyValue, value string) string {
	lineStart := d.lineStarts[kv.start]
	eq := strings.IndexByte(d.text[kv.keyEnd:], '=')
	prefix := strings.TrimRight(d.text[lineStart:kv.keyEnd+eq], " \t")
	return prefix + " = " + value
}

// conflicts collects the lines of everything that would collide with a value
// at path: key/values and sections below it and, when withAncestors is set,
// a key/value holding one of its ancestors (such as an inline table).
func (d *document) conflicts(path []string, withAncestors bool) map[int]bool {
	remove := make(map[int]bool)
	mark := func(start, end int) {
		for i := start; i <= end; i++ {
			remove[i] = true
		}
	}

	for _, kv := range d.kvs {
		if hasProperPrefix(kv.path, path) || withAncestors && hasProperPrefix(path, kv.path) {
			mark(kv.start, kv.end)
		}
	}

	for _, h := range d.headers {
		if !hasPrefix(h.path, path) {
			continue
		}
		start := h.start
		for start > 0 && strings.TrimSpace(d.lines[start-1]) == "" {
			start--
		}
		mark(start, h.end)
	}

	return remove
}

// insert adds "key = value" for a path that has no key/value yet.
func (d *document) insert(path []string, value string) string {
	host := path[:len(path)-1]

	if t := d.findTable(host); t > -2 {
		at, indent := d.lastKeyOf(t)
		line := indent + FormatKey(path[len(host):]) + " = " + value
		return d.replaceLines(at+1, at, line)
	}

	// The host may exist implicitly through dotted keys in an ancestor table.
	for i := len(d.kvs) - 1; i >= 0; i-- {
		kv := d.kvs[i]
		table := d.tablePath(kv.table)
		if len(table) < len(host) && hasProperPrefix(kv.path, host) {
			line := indentOf(d.lines[kv.start]) + FormatKey(path[len(table):]) + " = " + value
			return d.replaceLines(kv.end+1, kv.end, line)
		}
	}

	return d.appendSection(host, FormatKey(path[len(host):])+" = "+value)
}

// lastKeyOf returns the line after which a new key of table t goes, and the
// indentation of the table's existing keys.
func (d *document) lastKeyOf(t int) (int, string) {
	at, indent := -1, ""
	if t >= 0 {
		at = d.headers[t].start
	}
	for _, kv := range d.kvs {
		if kv.table == t {
			at, indent = kv.end, indentOf(d.lines[kv.start])
		}
	}
	return at, indent
}

func (d *document) appendSection(host []string, line string) string {
	lines := d.lines
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	out := make([]string, 0, len(lines)+4)
	out = append(out, lines...)
	if len(out) > 0 {
		out = append(out, "")
	}
	out = append(out, "["+FormatKey(host)+"]", line, "")
	return d.render(out)
}
