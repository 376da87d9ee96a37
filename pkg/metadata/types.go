package metadata

import "strings"

// Kind distinguishes normal, dev and build dependencies.
type Kind string

const (
	KindNormal Kind = ""
	KindDev    Kind = "dev"
	KindBuild  Kind = "build"
)

// Package is a package from the metadata snapshot: a workspace member or a
// package one of them depends on.
type Package struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	ManifestPath string              `json:"manifest_path"`
	Dependencies []Dependency        `json:"dependencies"`
	Features     map[string][]string `json:"features"`
}

// Dependency is one direct dependency edge as declared in a manifest.
type Dependency struct {
	Name                string   `json:"name"`
	Rename              string   `json:"rename"`
	Req                 string   `json:"req"`
	Kind                Kind     `json:"kind"`
	Target              string   `json:"target"`
	Optional            bool     `json:"optional"`
	UsesDefaultFeatures bool     `json:"uses_default_features"`
	Features            []string `json:"features"`
}

// Key returns the name the dependency is declared under in the manifest,
// which differs from Name for renamed dependencies.
func (d Dependency) Key() string {
	if d.Rename != "" {
		return d.Rename
	}
	return d.Name
}

// Label is the text shown for the dependency in prompts and listings.
// Dev and build dependencies are suffixed so they stay distinguishable from a
// normal dependency on the same package.
func (d Dependency) Label() string {
	var b strings.Builder
	b.WriteString(d.Key())
	if d.Kind != KindNormal {
		b.WriteString(" (" + string(d.Kind) + ")")
	}
	if d.Target != "" {
		b.WriteString(" [" + d.Target + "]")
	}
	return b.String()
}

// Table returns the manifest table path that holds the dependency, e.g.
// ["dependencies"] or ["target", "cfg(unix)", "dev-dependencies"].
func (d Dependency) Table() []string {
	section := "dependencies"
	switch d.Kind {
	case KindDev:
		section = "dev-dependencies"
	case KindBuild:
		section = "build-dependencies"
	}
	if d.Target != "" {
		return []string{"target", d.Target, section}
	}
	return []string{section}
}
