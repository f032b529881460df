package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/config"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for waypoint.

Besides commands and flags, the scripts complete --config with .toml and
.yaml files, graph --format with dot and svg, and dispatch arguments with
the action shorthands for the routes named in the configuration
(PUSH:Article, JUMP_TO:Settings, GO_BACK, ...).

To load completions:

Bash:
  $ source <(waypoint completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ waypoint completion bash > /etc/bash_completion.d/waypoint
  # macOS:
  $ waypoint completion bash > $(brew --prefix)/etc/bash_completion.d/waypoint

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ waypoint completion zsh > "${fpath[1]}/_waypoint"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ waypoint completion fish | source

  # To load completions for each session, execute once:
  $ waypoint completion fish > ~/.config/fish/completions/waypoint.fish

PowerShell:
  PS> waypoint completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> waypoint completion powershell > waypoint.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeConfigPath offers navigator configuration files for --config.
func completeConfigPath(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeActions offers dispatch shorthands for the configured routes.
func (c *CLI) completeActions(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	f, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return actionCompletions(f, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// actionCompletions lists TYPE and TYPE:Route shorthands matching prefix.
// Routed shorthands are offered only for the router types that accept them.
func actionCompletions(f *config.File, prefix string) []string {
	byRouter := map[string][]string{}
	collectRoutes(f.Navigator, byRouter)

	seen := map[string]struct{}{}
	add := func(s string) {
		if strings.HasPrefix(strings.ToUpper(s), strings.ToUpper(prefix)) {
			seen[s] = struct{}{}
		}
	}

	add(routers.ActionGoBack)
	for typ, names := range byRouter {
		for _, name := range names {
			add(routers.ActionNavigate + ":" + name)
			switch typ {
			case routers.TypeStack:
				add(routers.ActionPush + ":" + name)
				add(routers.ActionReplace + ":" + name)
			case routers.TypeTab, routers.TypeDrawer:
				add(routers.ActionJumpTo + ":" + name)
			}
		}
		switch typ {
		case routers.TypeStack:
			add(routers.ActionPop)
			add(routers.ActionPopToTop)
		case routers.TypeDrawer:
			add(routers.ActionOpenDrawer)
			add(routers.ActionCloseDrawer)
			add(routers.ActionToggleDrawer)
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func collectRoutes(n *config.NavigatorConfig, byRouter map[string][]string) {
	if n == nil {
		return
	}
	byRouter[n.Router] = append(byRouter[n.Router], n.Routes...)
	for _, child := range n.Children {
		collectRoutes(child, byRouter)
	}
}
