package manifest

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Entry is the value written for one dependency key.
type Entry struct {
	// Version is the requirement, written verbatim.
	Version string
	// Package is the real package name of a renamed dependency.
	Package string
	// DefaultFeatures is false when the dependency opts out of "default".
	DefaultFeatures bool
	// Features are the explicitly enabled features, excluding "default".
	Features []string
}

// Inline reports whether the entry needs an inline table rather than a bare
// version string.
func (e Entry) Inline() bool {
	return !e.DefaultFeatures || len(e.Features) > 0 || e.Package != ""
}

// String renders the entry as a TOML value.
func (e Entry) String() string {
	if !e.Inline() {
		return quote(e.Version)
	}
	fields := []string{"version = " + quote(e.Version)}
	if e.Package != "" {
		fields = append(fields, "package = "+quote(e.Package))
	}
	if !e.DefaultFeatures {
		fields = append(fields, "default-features = false")
	}
	if len(e.Features) > 0 {
		quoted := make([]string, len(e.Features))
		for i, f := range e.Features {
			quoted[i] = quote(f)
		}
		fields = append(fields, "features = ["+strings.Join(quoted, ", ")+"]")
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(map[string]string{"v": s}); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(strings.TrimPrefix(b.String(), "v = "), "\n")
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// formatKey renders a dotted key, quoting segments that are not bare keys.
func formatKey(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		if bareKey.MatchString(p) {
			parts[i] = p
		} else {
			parts[i] = quote(p)
		}
	}
	return strings.Join(parts, ".")
}
