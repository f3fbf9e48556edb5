package agents

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/errors"
)

func init() {
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Disable an agent",
	Long:    `Remove an agent from the canonical config. Its config file is left as it is.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.LoadConfig()
		if err != nil {
			return err
		}
		if !cfg.RemoveAgent(args[0]) {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "agent %q is not enabled", args[0]),
				"Run 'mmcp agents list' to see enabled agents",
			)
		}
		if err := flags.SaveConfig(cfg); err != nil {
			return err
		}
		if !flags.IsQuiet() {
			fmt.Fprintf(cmd.OutOrStdout(), "Disabled %s\n", args[0])
		}
		return nil
	},
}
