package tomlpatch

import (
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// header is a [table] or [[array.table]] line and the section it opens.
type header struct {
	path  []string
	array bool
	start int
	end   int
}

// keyValue is one key/value expression. path is absolute: the enclosing
// table path followed by the (possibly dotted) key.
type keyValue struct {
	path   []string
	table  int
	start  int
	end    int
	keyEnd int
}

// document is a line view of a TOML text plus the location of every table
// header and key/value expression in it.
type document struct {
	text       string
	lines      []string
	lineStarts []int
	headers    []header
	kvs        []keyValue
}

func index(text string) (*document, error) {
	d := &document{
		text:  text,
		lines: strings.Split(text, "\n"),
	}
	d.lineStarts = append(d.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}

	type exprRef struct {
		header bool
		idx    int
	}
	var order []exprRef
	var starts []int

	var p unstable.Parser
	p.Reset([]byte(text))

	current := -1
	var tablePath []string
	for p.NextExpression() {
		expr := p.Expression()
		keys, first, last := decodeKey(expr)
		if first < 0 {
			continue
		}
		line := d.lineOf(first)

		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			d.headers = append(d.headers, header{
				path:  keys,
				array: expr.Kind == unstable.ArrayTable,
				start: line,
			})
			current = len(d.headers) - 1
			tablePath = keys
			order = append(order, exprRef{header: true, idx: current})
			starts = append(starts, line)
		case unstable.KeyValue:
			d.kvs = append(d.kvs, keyValue{
				path:   append(slices.Clone(tablePath), keys...),
				table:  current,
				start:  line,
				keyEnd: last,
			})
			order = append(order, exprRef{idx: len(d.kvs) - 1})
			starts = append(starts, line)
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}

	last := len(d.lines) - 1
	for i, ref := range order {
		if ref.header {
			continue
		}
		limit := last
		if i+1 < len(starts) {
			limit = starts[i+1] - 1
		}
		kv := &d.kvs[ref.idx]
		kv.end = d.trimBack(kv.start, limit)
	}
	for i := range d.headers {
		limit := last
		if i+1 < len(d.headers) {
			limit = d.headers[i+1].start - 1
		}
		d.headers[i].end = d.trimBack(d.headers[i].start, limit)
	}

	return d, nil
}

// decodeKey returns the decoded key segments of an expression and the byte
// offsets where its key text begins and ends.
func decodeKey(expr *unstable.Node) ([]string, int, int) {
	var keys []string
	first, last := -1, -1
	it := expr.Key()
	for it.Next() {
		n := it.Node()
		keys = append(keys, string(n.Data))
		if first < 0 {
			first = int(n.Raw.Offset)
		}
		last = int(n.Raw.Offset + n.Raw.Length)
	}
	return keys, first, last
}

func (d *document) lineOf(offset int) int {
	return sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
}

// trimBack walks end back over blank and comment-only lines, never past start.
func (d *document) trimBack(start, end int) int {
	for end > start && isTrivia(d.lines[end]) {
		end--
	}
	return end
}

func isTrivia(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || strings.HasPrefix(s, "#")
}

func (d *document) findKey(path []string) *keyValue {
	for i := range d.kvs {
		if slices.Equal(d.kvs[i].path, path) {
			return &d.kvs[i]
		}
	}
	return nil
}

// findTable returns the index of the standard table with the given path,
// -1 for the root table, or -2 when no such table is declared.
func (d *document) findTable(path []string) int {
	if len(path) == 0 {
		return -1
	}
	for i, h := range d.headers {
		if !h.array && slices.Equal(h.path, path) {
			return i
		}
	}
	return -2
}

func (d *document) tablePath(idx int) []string {
	if idx < 0 {
		return nil
	}
	return d.headers[idx].path
}

func (d *document) render(lines []string) string {
	return strings.Join(lines, "\n")
}

func (d *document) without(remove map[int]bool) string {
	kept := make([]string, 0, len(d.lines))
	for i, line := range d.lines {
		if !remove[i] {
			kept = append(kept, line)
		}
	}
	return d.render(kept)
}

func (d *document) replaceLines(start, end int, with ...string) string {
	out := make([]string, 0, len(d.lines)+len(with))
	out = append(out, d.lines[:start]...)
	out = append(out, with...)
	out = append(out, d.lines[end+1:]...)
	return d.render(out)
}

func hasPrefix(path, prefix []string) bool {
	return len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}

func hasProperPrefix(path, prefix []string) bool {
	return len(path) > len(prefix) && hasPrefix(path, prefix)
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
