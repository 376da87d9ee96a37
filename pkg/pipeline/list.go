package pipeline

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cargofeat/cargo-features/pkg/features"
	"github.com/cargofeat/cargo-features/pkg/metadata"
)

// ListOptions filters the listing. Empty patterns match everything.
type ListOptions struct {
	Package    string
	Dependency string
}

// PackageFeatures is the listing for one workspace package.
type PackageFeatures struct {
	Package      *metadata.Package
	Dependencies []DependencyFeatures
}

// DependencyFeatures is the feature state of one dependency.
type DependencyFeatures struct {
	Dependency metadata.Dependency
	State      features.State
}

// List resolves the feature state of every dependency of every workspace
// package that passes the filters. It never prompts and never writes.
func List(ws *metadata.Workspace, opts ListOptions, logger *log.Logger) []PackageFeatures {
	var out []PackageFeatures
	for _, pkg := range ws.Members() {
		if !matches(pkg.Name, opts.Package) {
			continue
		}
		pf := PackageFeatures{Package: pkg}
		for _, dep := range pkg.Dependencies {
			if !matches(dep.Key(), opts.Dependency) {
				continue
			}
			pf.Dependencies = append(pf.Dependencies, DependencyFeatures{
				Dependency: dep,
				State:      ResolveFeatures(ws, dep, logger),
			})
		}
		out = append(out, pf)
	}
	return out
}

// matches reports whether name passes pattern: either contains the other.
func matches(name, pattern string) bool {
	return pattern == "" || strings.Contains(name, pattern) || strings.Contains(pattern, name)
}
