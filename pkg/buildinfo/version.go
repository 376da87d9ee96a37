// Package buildinfo holds version information injected at build time:
//
//	go build -ldflags "-X github.com/cargofeat/cargo-features/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/cargofeat/cargo-features/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/cargofeat/cargo-features/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/cargo-features
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the cobra version template. The command name is fixed to
// the installed binary rather than the "cargo" root it is invoked under.
func Template() string {
	return fmt.Sprintf("cargo-features %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
