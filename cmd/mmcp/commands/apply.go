package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/agent"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

var (
	applyAgents   []string
	applyMode     string
	applyNoBackup bool
)

func init() {
	applyCmd.Flags().StringSliceVarP(&applyAgents, "agent", "a", nil,
		"only apply to these agent(s) from the config (repeatable)")
	applyCmd.Flags().StringVar(&applyMode, "mode", "",
		"override the config mode for this run: merge, replace")
	applyCmd.Flags().BoolVar(&applyNoBackup, "no-backup", false,
		"do not back up agent files before writing them")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Write the canonical servers into each agent's config",
	Long: `Apply the canonical config to every agent it lists.

Each agent's settings file is read, merged with the canonical servers and
written back. An agent whose file cannot be read or parsed is reported and
skipped; the remaining agents are still updated.

Before a file is rewritten its current contents are backed up; use
'mmcp restore' to roll an agent back.

In merge mode only the named servers are added or updated. In replace mode
the agent's server list becomes exactly the canonical one.`,
	Example: `  # Apply to every listed agent
  mmcp apply

  # Apply to one agent, replacing its servers
  mmcp apply --agent codex-cli --mode replace

  See Also:
    mmcp agents add  - Choose which agents to update
    mmcp list        - Show the canonical servers
    mmcp restore     - Undo an apply from a backup`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, _ []string) error {
	cfg, err := flags.LoadConfig()
	if err != nil {
		return err
	}

	if applyMode != "" {
		cfg.Mode = mcp.Mode(applyMode)
	}

	if len(cfg.Agents) == 0 {
		return errors.NewUserError(
			errors.New("no agents configured"),
			"Run 'mmcp agents add' to choose the agents to update",
		)
	}

	var opts []agent.DispatcherOption
	if !applyNoBackup && flags.BackupRetention() > 0 {
		mgr := newBackupManager()
		opts = append(opts, agent.WithBackup(func(id, path string) error {
			_, err := mgr.Backup(id, path)
			return err
		}))
	}

	d := agent.NewDispatcher(agent.DefaultRegistry(flags.FS(), flags.Resolver()), opts...)
	results, err := d.Apply(cmd.Context(), cfg, applyAgents...)

	if !flags.IsQuiet() {
		printResults(cmd.OutOrStdout(), results)
	}

	if err != nil {
		if errors.Is(err, errors.ErrInvalidConfig) {
			return errors.NewConfigError(err)
		}
		return errors.NewExitError(err, errors.ExitSystem)
	}
	return nil
}

func printResults(w io.Writer, results []agent.Result) {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", fail("✗"), r.ID, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s → %s\n", ok("✓"), r.ID, r.Path)
	}
}
