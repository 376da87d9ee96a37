package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cargofeat/cargo-features/pkg/manifest"
	"github.com/cargofeat/cargo-features/pkg/pipeline"
)

type featuresFlags struct {
	pkg          string
	dep          string
	manifestPath string
	dryRun       bool
}

func (c *CLI) featuresCommand() *cobra.Command {
	var flags featuresFlags

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Toggle the features of a workspace dependency",
		Long: `Pick a workspace package and one of its dependencies, toggle the
dependency's features, and write the selection back to the package's
Cargo.toml.

--package and --dependency are fuzzy-matched; the best match is used without
asking. Cancelling any prompt leaves the manifest untouched.`,
		Example: `  cargo features
  cargo features -p app -d serde
  cargo features -d tokio --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFlags(flags.pkg, flags.dep, flags.manifestPath); err != nil {
				return err
			}
			return c.runFeatures(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.pkg, "package", "p", "", "workspace package name")
	cmd.Flags().StringVarP(&flags.dep, "dependency", "d", "", "dependency name")
	cmd.Flags().StringVar(&flags.manifestPath, "manifest-path", "", "path to Cargo.toml")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the entry without writing it")

	cmd.AddCommand(c.listCommand())

	return cmd
}

func (c *CLI) runFeatures(ctx context.Context, out io.Writer, flags featuresFlags) error {
	logger := loggerFromContext(ctx)

	p := pipeline.New(
		c.source(ctx, flags.manifestPath),
		c.Selector,
		manifest.NewWriter(logger, flags.dryRun),
		logger,
	)
	res, err := p.Run(ctx, pipeline.Options{Package: flags.pkg, Dependency: flags.dep})
	if err != nil {
		return err
	}

	logger.Debug("run complete",
		"package", res.Package.Name,
		"dependency", res.Dependency.Name,
		"default_features", res.Selection.UsesDefaultFeatures,
		"features", res.Selection.Features,
		"duration", res.Duration)
	printChange(out, res.Change)
	if len(res.Dropped) > 0 && res.Change.Changed {
		printWarning(out, "Removed features %s does not declare: %s", res.Dependency.Name, strings.Join(res.Dropped, ", "))
	}
	return nil
}

// printChange reports the outcome of a manifest edit.
func printChange(w io.Writer, ch *manifest.Change) {
	entry := ch.Key + " = " + ch.Entry.String()
	switch {
	case !ch.Changed:
		printInfo(w, "%s already up to date", StyleHighlight.Render(ch.Key))
	case !ch.Written:
		printInfo(w, "Dry run, %s not written", ch.Path)
		printDetail(w, "%s", entry)
	default:
		printSuccess(w, "Updated %s", StyleHighlight.Render(ch.Key))
		printDetail(w, "%s", entry)
		printFile(w, ch.Path)
	}
}
