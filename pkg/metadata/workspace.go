package metadata

import (
	"github.com/cargofeat/cargo-features/internal/semver"
)

// Workspace is a read-only view of one metadata snapshot.
type Workspace struct {
	Root     string
	packages []Package
	members  []int
}

// NewWorkspace builds a view over packages. memberIDs lists the workspace
// members in display order; IDs with no matching package are ignored.
func NewWorkspace(root string, packages []Package, memberIDs []string) *Workspace {
	byID := make(map[string]int, len(packages))
	for i, p := range packages {
		byID[p.ID] = i
	}
	ws := &Workspace{Root: root, packages: packages}
	for _, id := range memberIDs {
		if i, ok := byID[id]; ok {
			ws.members = append(ws.members, i)
		}
	}
	return ws
}

// Members returns the workspace's own packages.
func (w *Workspace) Members() []*Package {
	out := make([]*Package, len(w.members))
	for i, idx := range w.members {
		out[i] = &w.packages[idx]
	}
	return out
}

// Target returns the package dep resolves to. Several versions of one crate
// can coexist in a snapshot, so the first package whose version satisfies the
// requirement wins; otherwise the first package with the right name is used.
func (w *Workspace) Target(dep Dependency) (*Package, bool) {
	req := semver.ParseRequirement(dep.Req)
	var fallback *Package
	for i := range w.packages {
		p := &w.packages[i]
		if p.Name != dep.Name {
			continue
		}
		if fallback == nil {
			fallback = p
		}
		if !req.Valid() {
			break
		}
		if v, err := semver.ParseVersion(p.Version); err == nil && semver.Satisfies(v, req) {
			return p, true
		}
	}
	return fallback, fallback != nil
}
