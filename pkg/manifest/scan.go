package manifest

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2/unstable"
)

// bom is the UTF-8 byte-order mark some editors write at the start of a file.
var bom = []byte("\xef\xbb\xbf")

// header is a [table] or [[array]] line.
type header struct {
	path  []string
	array bool
	start int // offset of the line start
	end   int // offset after the line terminator
}

// pair is a key/value statement.
type pair struct {
	table      int      // index into headers, -1 for the root table
	key        []string // dotted key relative to its table
	start      int      // offset of the line start
	valueStart int
	valueEnd   int
	end        int // offset after the line terminator
}

// spans turns parser nodes into offsets of src. The parser sees src[base:],
// so a byte-order mark stays in front of every span.
type spans struct {
	src  []byte
	base int
}

// scan indexes the statements of src with the go-toml expression parser.
// Keys are decoded by the parser; values are only measured.
func scan(src []byte) ([]header, []pair, error) {
	s := &spans{src: src}
	if bytes.HasPrefix(src, bom) {
		s.base = len(bom)
	}

	var p unstable.Parser
	p.Reset(src[s.base:])

	var headers []header
	var pairs []pair
	current := -1
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			path, first, last := s.key(expr.Key())
			headers = append(headers, header{
				path:  path,
				array: expr.Kind == unstable.ArrayTable,
				start: s.lineStart(first),
				end:   s.lineEnd(last),
			})
			current = len(headers) - 1
		case unstable.KeyValue:
			path, first, last := s.key(expr.Key())
			pr := pair{table: current, key: path, start: s.lineStart(first), valueStart: s.afterEquals(last)}
			end, err := s.valueEnd(expr.Value(), pr.valueStart)
			if err != nil {
				return nil, nil, err
			}
			pr.valueEnd = end
			pr.end = s.lineEnd(end)
			pairs = append(pairs, pr)
		}
	}
	if err := p.Error(); err != nil {
		return nil, nil, err
	}
	return headers, pairs, nil
}

func (s *spans) offset(r unstable.Range) int { return s.base + int(r.Offset) }

// key returns the decoded segments of a dotted key and the offsets where its
// first segment starts and its last one ends.
func (s *spans) key(it unstable.Iterator) (path []string, start, end int) {
	start = -1
	for it.Next() {
		n := it.Node()
		path = append(path, string(n.Data))
		if start < 0 {
			start = s.offset(n.Raw)
		}
		end = s.offset(n.Raw) + int(n.Raw.Length)
	}
	return path, start, end
}

func (s *spans) lineStart(at int) int {
	if i := bytes.LastIndexByte(s.src[s.base:at], '\n'); i >= 0 {
		return s.base + i + 1
	}
	return s.base
}

// lineEnd returns the offset after the line terminator following at. A
// trailing comment belongs to the line.
func (s *spans) lineEnd(at int) int {
	if i := bytes.IndexByte(s.src[at:], '\n'); i >= 0 {
		return at + i + 1
	}
	return len(s.src)
}

func (s *spans) skipSpace(at int) int {
	for at < len(s.src) && (s.src[at] == ' ' || s.src[at] == '\t') {
		at++
	}
	return at
}

// afterEquals returns the offset of the value that follows a key ending at at.
func (s *spans) afterEquals(at int) int {
	at = s.skipSpace(at)
	if at < len(s.src) && s.src[at] == '=' {
		at++
	}
	return s.skipSpace(at)
}

// skipSeparators skips whitespace, newlines, comments and commas between
// array or inline table elements.
func (s *spans) skipSeparators(at int) int {
	for at < len(s.src) {
		switch s.src[at] {
		case ' ', '\t', '\r', '\n', ',':
			at++
		case '#':
			at = s.lineEnd(at)
		default:
			return at
		}
	}
	return at
}

// valueEnd returns the offset just after the value n, which starts at start.
func (s *spans) valueEnd(n *unstable.Node, start int) (int, error) {
	switch n.Kind {
	case unstable.String:
		return s.offset(n.Raw) + int(n.Raw.Length), nil
	case unstable.Array, unstable.InlineTable:
		closer := byte(']')
		if n.Kind == unstable.InlineTable {
			closer = '}'
		}
		at := start + 1
		it := n.Children()
		for it.Next() {
			at = s.skipSeparators(at)
			child := it.Node()
			if child.Kind == unstable.KeyValue {
				_, _, keyEnd := s.key(child.Key())
				at = s.afterEquals(keyEnd)
				child = child.Value()
			}
			end, err := s.valueEnd(child, at)
			if err != nil {
				return 0, err
			}
			at = end
		}
		at = s.skipSeparators(at)
		if at >= len(s.src) || s.src[at] != closer {
			return 0, s.errorf(at, "expected %q", closer)
		}
		return at + 1, nil
	default:
		// Booleans, numbers and date-times keep their source text as data.
		return start + len(n.Data), nil
	}
}

func (s *spans) errorf(at int, format string, args ...any) error {
	line := bytes.Count(s.src[:min(at, len(s.src))], []byte("\n")) + 1
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}
