package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cargofeat/cargo-features/pkg/buildinfo"
	"github.com/cargofeat/cargo-features/pkg/errors"
	"github.com/cargofeat/cargo-features/pkg/metadata"
	"github.com/cargofeat/cargo-features/pkg/prompt"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands. Fields other than Logger may be
// replaced before RootCommand is called to run headless.
type CLI struct {
	Logger *log.Logger

	// Selector answers the interactive prompts.
	Selector prompt.Selector
	// Runner executes cargo. Defaults to metadata.ExecRunner.
	Runner metadata.Runner
	// Out receives command results; Err receives progress and prompts.
	Out io.Writer
	Err io.Writer
}

// New creates a CLI that logs to w and prompts on the process terminal.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Selector: NewTUISelector(os.Stdin, os.Stderr),
		Runner:   metadata.ExecRunner,
		Out:      os.Stdout,
		Err:      os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command. cargo runs the
// cargo-features binary with "features" as its first argument, so the tree
// is rooted at "cargo".
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cargo",
		Short:         "Toggle dependency features of workspace packages",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// source builds the metadata source for one invocation.
func (c *CLI) source(ctx context.Context, manifestPath string) metadata.Source {
	src := metadata.NewCargo(metadata.Options{
		ManifestPath: manifestPath,
		Runner:       c.Runner,
		Logger:       loggerFromContext(ctx),
	})
	return &spinnerSource{Source: src, w: c.Err, animate: isTerminal(c.Err)}
}

// spinnerSource shows a spinner while the workspace metadata loads.
type spinnerSource struct {
	metadata.Source
	w       io.Writer
	animate bool
}

func (s *spinnerSource) Load(ctx context.Context) (*metadata.Workspace, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	sp := newSpinnerWithContext(ctx, s.w, "Reading cargo metadata...")
	if s.animate {
		sp.Start()
	}
	ws, err := s.Source.Load(ctx)
	if err != nil {
		if s.animate && !sp.Cancelled() {
			sp.StopWithError("Could not read cargo metadata")
		} else {
			sp.Stop()
		}
		return nil, err
	}
	sp.Stop()
	prog.done("workspace loaded", "members", len(ws.Members()))
	return ws, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// validateFlags checks user-supplied patterns and paths before any work.
func validateFlags(pkg, dep, manifestPath string) error {
	if err := errors.ValidatePattern("package", pkg); err != nil {
		return err
	}
	if err := errors.ValidatePattern("dependency", dep); err != nil {
		return err
	}
	return errors.ValidateManifestPath(manifestPath)
}
