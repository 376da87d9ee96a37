package manifest

import (
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cargofeat/cargo-features/pkg/errors"
)

// Document is a Cargo.toml held as text with the spans of its statements.
type Document struct {
	src     []byte
	headers []header
	pairs   []pair
}

// Parse validates data as TOML and indexes its statements.
func Parse(data []byte) (*Document, error) {
	d, err := parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse manifest")
	}
	return d, nil
}

func parse(data []byte) (*Document, error) {
	var v map[string]any
	if _, err := toml.Decode(string(data), &v); err != nil {
		return nil, err
	}
	headers, pairs, err := scan(data)
	if err != nil {
		return nil, err
	}
	return &Document{src: data, headers: headers, pairs: pairs}, nil
}

// String returns the document text.
func (d *Document) String() string { return string(d.src) }

func (d *Document) fullPath(p pair) []string {
	if p.table < 0 {
		return p.key
	}
	return slices.Concat(d.headers[p.table].path, p.key)
}

func hasPrefix(path, prefix []string) bool {
	return len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}

// Lookup returns the raw text of the value stored at table.key when it is
// written as a single key/value statement.
func (d *Document) Lookup(table []string, key string) (string, bool) {
	want := append(slices.Clone(table), key)
	for _, p := range d.pairs {
		if slices.Equal(d.fullPath(p), want) {
			return string(d.src[p.valueStart:p.valueEnd]), true
		}
	}
	return "", false
}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
	// home marks a removed dotted key whose line can take the new statement.
	home bool
}

// Set writes e as the value of table.key. It reports whether the document
// changed: a value that already decodes to exactly e is left as written.
//
// A key spread over a [table.key] section or dotted keys is collapsed into a
// single key/value statement.
func (d *Document) Set(table []string, key string, e Entry) (bool, error) {
	full := append(slices.Clone(table), key)
	value := e.String()

	for _, p := range d.pairs {
		path := d.fullPath(p)
		if len(path) < len(full) && hasPrefix(full, path) {
			return false, errors.New(errors.ErrCodeInvalidInput,
				"%s is declared as an inline value; edit it by hand", formatKey(path))
		}
	}
	for _, h := range d.headers {
		if h.array && hasPrefix(full, h.path) {
			return false, errors.New(errors.ErrCodeInvalidInput,
				"%s is an array of tables; edit it by hand", formatKey(h.path))
		}
	}

	for _, p := range d.pairs {
		if !slices.Equal(d.fullPath(p), full) {
			continue
		}
		raw := string(d.src[p.valueStart:p.valueEnd])
		if sameValue(raw, value) {
			return false, nil
		}
		return true, d.apply(full, value, []edit{{start: p.valueStart, end: p.valueEnd, text: value}})
	}

	edits := d.collapse(full)
	line := formatKey([]string{key}) + " = " + value + "\n"

	// Reuse the slot of a dotted key under the dependency table.
	for i, ed := range edits {
		if ed.home {
			edits[i].text = line
			return true, d.apply(full, value, edits)
		}
	}

	if at, ok := d.tableEnd(table); ok {
		return true, d.apply(full, value, append(edits, d.insertAt(at, line)))
	}
	if at, prefix, ok := d.dottedEnd(table); ok {
		text := formatKey(full[len(prefix):]) + " = " + value + "\n"
		return true, d.apply(full, value, append(edits, d.insertAt(at, text)))
	}

	text := "[" + formatKey(table) + "]\n" + line
	if len(strings.TrimSpace(string(d.src))) > 0 {
		text = "\n" + text
	}
	return true, d.apply(full, value, append(edits, d.insertAt(len(d.src), text)))
}

// collapse returns removals for every statement that contributes to full
// through a sub-table or a longer dotted key. The first removed dotted key that
// sits directly in the parent table is marked home.
func (d *Document) collapse(full []string) []edit {
	var edits []edit
	removed := map[int]bool{}
	for i, h := range d.headers {
		if !hasPrefix(h.path, full) {
			continue
		}
		removed[i] = true
		end := len(d.src)
		if i+1 < len(d.headers) {
			end = d.headers[i+1].start
		}
		edits = append(edits, edit{start: h.start, end: end})
	}
	table := full[:len(full)-1]
	homed := false
	for _, p := range d.pairs {
		if removed[p.table] || !hasPrefix(d.fullPath(p), full) {
			continue
		}
		ed := edit{start: p.start, end: p.end}
		if !homed && p.table >= 0 && slices.Equal(d.headers[p.table].path, table) {
			ed.home, homed = true, true
		}
		edits = append(edits, ed)
	}
	return edits
}

// tableEnd returns the offset just after the last statement of the [table]
// section, or after its header when it has none.
func (d *Document) tableEnd(table []string) (int, bool) {
	for i, h := range d.headers {
		if h.array || !slices.Equal(h.path, table) {
			continue
		}
		at := h.end
		for _, p := range d.pairs {
			if p.table == i {
				at = p.end
			}
		}
		return at, true
	}
	return 0, false
}

// dottedEnd finds dotted keys that define table implicitly from an enclosing
// table, e.g. `dependencies.serde = "1"` at the root. It returns the offset
// after the last one and the path of the table they are written in.
func (d *Document) dottedEnd(table []string) (int, []string, bool) {
	at, found := 0, false
	var prefix []string
	for _, p := range d.pairs {
		var hp []string
		if p.table >= 0 {
			hp = d.headers[p.table].path
		}
		if len(hp) >= len(table) || !hasPrefix(d.fullPath(p), table) {
			continue
		}
		at, prefix, found = p.end, hp, true
	}
	return at, prefix, found
}

// insertAt returns an insertion of text at offset at, which must be a line
// start or the end of the document.
func (d *Document) insertAt(at int, text string) edit {
	if at == len(d.src) && len(d.src) > 0 && d.src[len(d.src)-1] != '\n' {
		text = "\n" + text
	}
	return edit{start: at, end: at, text: text}
}

// apply performs edits, re-indexes the result and checks that full now holds
// value.
func (d *Document) apply(full []string, value string, edits []edit) error {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start > edits[j].start
		}
		return edits[i].end > edits[j].end
	})
	out := slices.Clone(d.src)
	for _, ed := range edits {
		out = slices.Concat(out[:ed.start], []byte(ed.text), out[ed.end:])
	}

	next, err := parse(out)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "edited manifest no longer parses")
	}
	raw, ok := next.Lookup(full[:len(full)-1], full[len(full)-1])
	if !ok || !sameValue(raw, value) {
		return errors.Internal("edited manifest does not hold %s = %s", formatKey(full), value)
	}
	*d = *next
	return nil
}

// sameValue reports whether two TOML value texts decode to the same value.
func sameValue(a, b string) bool {
	var va, vb map[string]any
	if _, err := toml.Decode("v = "+a, &va); err != nil {
		return false
	}
	if _, err := toml.Decode("v = "+b, &vb); err != nil {
		return false
	}
	return reflect.DeepEqual(va["v"], vb["v"])
}
