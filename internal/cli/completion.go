package cli

import (
	"github.com/spf13/cobra"
)

// binaryName is the executable cargo runs for "cargo features".
const binaryName = "cargo-features"

// completionCommand generates shell completion scripts. The scripts complete
// the cargo-features binary so they never replace the completion rustup
// installs for cargo itself.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for the cargo-features binary.

Bash:
  $ source <(cargo-features completion bash)

Zsh:
  $ cargo-features completion zsh > "${fpath[1]}/_cargo-features"

Fish:
  $ cargo-features completion fish | source

PowerShell:
  PS> cargo-features completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := c.RootCommand()
			root.Use = binaryName
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
