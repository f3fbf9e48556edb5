package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/errors"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove an MCP server from the canonical config",
	Long: `Remove an MCP server from the canonical config.

Agents keep the server until the next 'mmcp apply' in replace mode; merge
mode never deletes servers from an agent's file.`,
	Example: `  mmcp remove context7
  mmcp apply --mode replace`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := flags.LoadConfig()
	if err != nil {
		return err
	}

	if !cfg.RemoveServer(name) {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "server %q", name),
			"Run 'mmcp list' to see configured servers",
		)
	}

	if err := flags.SaveConfig(cfg); err != nil {
		return err
	}

	if !flags.IsQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed server %q\n", name)
	}
	return nil
}
