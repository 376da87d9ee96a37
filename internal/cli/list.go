package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cargofeat/cargo-features/pkg/pipeline"
)

type listFlags struct {
	pkg          string
	dep          string
	manifestPath string
	all          bool
}

func (c *CLI) listCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the features of workspace dependencies",
		Long: `List the enabled features of every dependency of every workspace package.

With --all, every feature the dependency declares is shown with a [x] mark
when enabled. --package and --dependency keep entries whose name contains
the value, or is contained in it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFlags(flags.pkg, flags.dep, flags.manifestPath); err != nil {
				return err
			}
			return c.runList(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.pkg, "package", "p", "", "workspace package name")
	cmd.Flags().StringVarP(&flags.dep, "dependency", "d", "", "dependency name")
	cmd.Flags().StringVar(&flags.manifestPath, "manifest-path", "", "path to Cargo.toml")
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "show every declared feature")

	return cmd
}

func (c *CLI) runList(ctx context.Context, out io.Writer, flags listFlags) error {
	logger := loggerFromContext(ctx)

	ws, err := c.source(ctx, flags.manifestPath).Load(ctx)
	if err != nil {
		return err
	}
	listing := pipeline.List(ws, pipeline.ListOptions{Package: flags.pkg, Dependency: flags.dep}, logger)
	renderList(out, listing, flags.all)
	return nil
}

// renderList writes one block per package:
//
//	app:
//	  serde:
//	    [x] default = [std]
func renderList(w io.Writer, listing []pipeline.PackageFeatures, all bool) {
	for _, pf := range listing {
		fmt.Fprintf(w, "%s:\n", StyleHighlight.Render(pf.Package.Name))
		for _, df := range pf.Dependencies {
			fmt.Fprintf(w, "  %s:\n", df.Dependency.Label())
			if all {
				for _, f := range df.State.Features {
					fmt.Fprintf(w, "    %s %s\n", renderMark(df.State.IsEnabled(f.Name)), renderFeature(f))
				}
				continue
			}
			for _, f := range df.State.EnabledFeatures() {
				fmt.Fprintf(w, "    %s\n", renderFeature(f))
			}
		}
	}
}
