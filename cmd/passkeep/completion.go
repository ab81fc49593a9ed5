package main

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script for your shell",
		Long: `To load completions:

Bash:
  $ source <(passkeep completion bash)

  # To load for each session (Linux):
  $ passkeep completion bash > ~/.local/share/bash-completion/completions/passkeep

  # To load for each session (macOS with Homebrew):
  $ passkeep completion bash > $(brew --prefix)/etc/bash_completion.d/passkeep

Zsh:
  # Ensure completion is enabled:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # Generate completion:
  $ passkeep completion zsh > ~/.zsh/completions/_passkeep
  # (create ~/.zsh/completions if needed, add to fpath in .zshrc)

Fish:
  $ passkeep completion fish > ~/.config/fish/completions/passkeep.fish

PowerShell:
  PS> passkeep completion powershell >> $PROFILE

Dynamic completion (site names for "get"):
  Set PASSKEEP_COMPLETION_ENABLED=1 to enable site completion.
  Site names are read from the vault file on every completion.
`,
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
}
