// Package agents provides the agents command group for choosing which
// clients the canonical config is applied to.
package agents

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/agent"
)

// Cmd is the agents command that groups all agent-related subcommands.
var Cmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage the agents the config is applied to",
	Long: `Manage the list of agents (MCP clients) in the canonical config.

'mmcp apply' updates exactly the agents in this list, in order.`,
	Example: `  # Show supported agents and which are enabled
  mmcp agents list

  # Enable agents by ID, or pick interactively
  mmcp agents add cursor codex-cli
  mmcp agents add

  # Stop applying to an agent
  mmcp agents remove cursor`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// registry builds the adapter registry for the current filesystem and resolver.
func registry() *agent.Registry {
	return agent.DefaultRegistry(flags.FS(), flags.Resolver())
}

// targetNames maps target IDs to display names.
func targetNames() map[string]string {
	names := make(map[string]string)
	for _, t := range agent.Targets() {
		names[t.ID] = t.DisplayName
	}
	return names
}
