package agents

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/agent"
	"github.com/thoreinstein/mmcp/internal/errors"
)

func init() {
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List supported agents",
	Long:    `List every supported agent with its config file, marking those enabled in the canonical config.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := flags.LoadConfig()
		if err != nil {
			return err
		}
		return writeAgents(cmd.OutOrStdout(), agent.Detect(flags.FS(), registry()), cfg.Agents)
	},
}

func writeAgents(w io.Writer, detected []agent.Detection, enabled []string) error {
	on := color.New(color.FgGreen).SprintFunc()
	names := targetNames()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tSTATUS\tCONFIG FILE")
	for _, d := range detected {
		mark := " "
		if slices.Contains(enabled, d.ID) {
			mark = on("*")
		}
		status, path := "-", d.Path
		switch d.Status {
		case agent.StatusInstalled:
			status = "installed"
		case agent.StatusUnknown:
			path = "(unresolved)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, d.ID, names[d.ID], status, path)
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}
