// Package semver wraps github.com/Masterminds/semver/v3 for the subset of
// Cargo version requirements cargo-features needs: matching a dependency
// requirement against the versions cargo resolved, and producing the bare
// requirement text written back to Cargo.toml.
package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
type Version struct {
	v *mm.Version
}

// Requirement is a Cargo version requirement as reported by cargo metadata,
// e.g. "^1.0", "~0.4.2", ">=1.2, <1.5" or "*".
type Requirement struct {
	raw string
	c   *mm.Constraints
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// ParseRequirement parses raw. The returned Requirement keeps raw verbatim so
// Bare can reproduce it even when the constraint syntax is one Masterminds
// does not understand; check Valid before calling Satisfies.
func ParseRequirement(raw string) Requirement {
	r := Requirement{raw: strings.TrimSpace(raw)}
	if c, err := mm.NewConstraint(r.raw); err == nil {
		r.c = c
	}
	return r
}

// Valid reports whether the requirement parsed as a constraint.
func (r Requirement) Valid() bool { return r.c != nil }

// String returns the requirement as given.
func (r Requirement) String() string { return r.raw }

// Bare returns the requirement with a single leading caret removed. Cargo
// treats "1.4.2" and "^1.4.2" identically, and manifests conventionally use
// the shorter form.
func (r Requirement) Bare() string {
	return strings.TrimPrefix(r.raw, "^")
}

// Satisfies reports whether v matches r. Invalid requirements and zero
// versions never match.
func Satisfies(v Version, r Requirement) bool {
	if v.v == nil || r.c == nil {
		return false
	}
	return r.c.Check(v.v)
}
