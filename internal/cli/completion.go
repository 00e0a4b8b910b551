package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for tabbridge.

File arguments complete to layout documents (.json, .toml) or, for commands
that build a widget tree, also to scripts (.js).

  bash:        source <(tabbridge completion bash)
  zsh:         tabbridge completion zsh > "${fpath[1]}/_tabbridge"
  fish:        tabbridge completion fish > ~/.config/fish/completions/tabbridge.fish
  powershell:  tabbridge completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// fileCompletion completes the first argument with files of the given
// extensions.
func fileCompletion(exts ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

var (
	// layoutFiles are attribute documents.
	layoutFiles = fileCompletion("json", "toml")

	// treeFiles are scenes and scripts.
	treeFiles = fileCompletion("json", "toml", "js")
)
