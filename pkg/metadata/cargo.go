package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cargofeat/cargo-features/pkg/errors"
)

// Source supplies a workspace snapshot.
type Source interface {
	Load(ctx context.Context) (*Workspace, error)
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Options configures the cargo metadata query.
type Options struct {
	// Cargo is the cargo binary. Defaults to $CARGO, then "cargo".
	Cargo string
	// ManifestPath is forwarded as --manifest-path when set.
	ManifestPath string
	// Runner overrides command execution. Defaults to ExecRunner.
	Runner Runner
	Logger *log.Logger
}

// Cargo is a Source backed by `cargo metadata`.
type Cargo struct {
	bin          string
	manifestPath string
	run          Runner
	logger       *log.Logger
}

// NewCargo creates a cargo-backed Source.
func NewCargo(opts Options) *Cargo {
	c := &Cargo{
		bin:          opts.Cargo,
		manifestPath: opts.ManifestPath,
		run:          opts.Runner,
		logger:       opts.Logger,
	}
	if c.bin == "" {
		c.bin = os.Getenv("CARGO")
	}
	if c.bin == "" {
		c.bin = "cargo"
	}
	if c.run == nil {
		c.run = ExecRunner
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Args returns the arguments passed to cargo.
func (c *Cargo) Args() []string {
	args := []string{"metadata", "--format-version", "1"}
	if c.manifestPath != "" {
		args = append(args, "--manifest-path", c.manifestPath)
	}
	return args
}

// Load runs cargo metadata and decodes its output.
func (c *Cargo) Load(ctx context.Context) (*Workspace, error) {
	args := c.Args()
	c.logger.Debug("querying metadata", "cmd", c.bin+" "+strings.Join(args, " "))

	out, err := c.run(ctx, c.bin, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataQuery, err, "cargo metadata")
	}
	ws, err := Decode(out)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("metadata loaded", "packages", len(ws.packages), "members", len(ws.members))
	return ws, nil
}

// document mirrors the parts of the cargo metadata format we read.
type document struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	WorkspaceRoot    string    `json:"workspace_root"`
}

// Decode parses cargo metadata JSON output.
func Decode(data []byte) (*Workspace, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataQuery, err, "decode cargo metadata output")
	}
	if len(doc.WorkspaceMembers) == 0 {
		return nil, errors.New(errors.ErrCodeMetadataQuery, "cargo metadata reported no workspace members")
	}
	return NewWorkspace(doc.WorkspaceRoot, doc.Packages, doc.WorkspaceMembers), nil
}

// ExecRunner runs the command with os/exec. Standard error is captured and
// attached to the returned error so cargo's diagnostics reach the user.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
