package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cargofeat/cargo-features/internal/cli"
	cferrors "github.com/cargofeat/cargo-features/pkg/errors"
	"github.com/cargofeat/cargo-features/pkg/observability"
	"github.com/cargofeat/cargo-features/pkg/prompt"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	observability.SetPipelineHooks(observability.NewLogHooks(c.Logger))

	if err := run(ctx, c); err != nil {
		if cancelled(err) {
			os.Exit(0)
		}
		c.Logger.Error(cferrors.UserMessage(err), "code", cferrors.GetCode(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.CLI) error {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRun
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			originalPreRun(cmd, args)
		}
	}

	return root.ExecuteContext(ctx)
}

// cancelled reports whether err means the user backed out, either from a
// prompt or with an interrupt signal. Both exit successfully.
func cancelled(err error) bool {
	return errors.Is(err, prompt.ErrCancelled) || errors.Is(err, context.Canceled)
}
