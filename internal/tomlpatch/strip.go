package tomlpatch

import (
	"strconv"
	"strings"
)

// Strip removes every table section headed by root or by a dotted sub-table
// of root (for root "mcp_servers": [mcp_servers], [mcp_servers.foo],
// [mcp_servers."a b".env], and the array-of-tables forms of those).
//
// A section runs from its header line up to the next header line, so comments
// inside a stripped section go with it while a comment above a stripped header
// stays with the section before. Headers may carry a trailing comment. Keys
// outside any table, including dotted keys such as mcp_servers.foo.command,
// are not sections and are kept. All other lines keep their original order.
// A trailing run of newlines left behind is collapsed to a single newline, and
// a result holding only blank lines becomes the empty string.
func Strip(content, root string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	skipping := false

	for _, line := range lines {
		if path, ok := parseHeader(line); ok {
			skipping = len(path) > 0 && path[0] == root
			if skipping {
				continue
			}
		} else if skipping {
			continue
		}
		kept = append(kept, line)
	}

	return tidy(strings.Join(kept, "\n"))
}

func tidy(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !strings.HasSuffix(s, "\n") {
		return s
	}
	return strings.TrimRight(s, "\n") + "\n"
}

// parseHeader recognizes a table header line and returns its key segments.
func parseHeader(line string) ([]string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}

	closing := "]"
	s = s[1:]
	if strings.HasPrefix(s, "[") {
		closing = "]]"
		s = s[1:]
	}

	path, rest, ok := splitKey(s)
	if !ok || !strings.HasPrefix(rest, closing) {
		return nil, false
	}

	rest = strings.TrimSpace(rest[len(closing):])
	if rest != "" && rest[0] != '#' && rest[0] != ';' {
		return nil, false
	}
	return path, true
}

// splitKey decodes a dotted TOML key at the start of s and returns the
// segments and the remainder following the key.
func splitKey(s string) ([]string, string, bool) {
	var path []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return nil, "", false
		}

		var seg string
		switch s[0] {
		case '"':
			end := closingQuote(s)
			if end < 0 {
				return nil, "", false
			}
			decoded, err := strconv.Unquote(s[:end+1])
			if err != nil {
				return nil, "", false
			}
			seg, s = decoded, s[end+1:]
		case '\'':
			end := strings.IndexByte(s[1:], '\'')
			if end < 0 {
				return nil, "", false
			}
			seg, s = s[1:end+1], s[end+2:]
		default:
			n := 0
			for n < len(s) && isBareKeyChar(s[n]) {
				n++
			}
			if n == 0 {
				return nil, "", false
			}
			seg, s = s[:n], s[n:]
		}
		path = append(path, seg)

		s = strings.TrimLeft(s, " \t")
		if !strings.HasPrefix(s, ".") {
			return path, s, true
		}
		s = s[1:]
	}
}

// closingQuote returns the index of the quote ending the basic string that
// opens s, or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func isBareKeyChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
