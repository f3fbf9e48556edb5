package agents

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/agent"
	"github.com/thoreinstein/mmcp/internal/cli/prompt"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

// selector is replaced in tests.
var selector = func() *prompt.Selector { return prompt.NewSelector() }

func init() {
	Cmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add [id...]",
	Short: "Enable agents",
	Long: `Add agents to the canonical config. Without arguments, choose from the
supported agents that are not enabled yet.`,
	Example: `  mmcp agents add cursor gemini-cli
  mmcp agents add`,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := flags.LoadConfig()
	if err != nil {
		return err
	}
	reg := registry()

	ids := args
	if len(ids) == 0 {
		ids, err = pick(reg, cfg)
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				return nil
			}
			return errors.NewUserError(err, "pass agent IDs as arguments instead")
		}
	}

	var unknown []string
	for _, id := range ids {
		if reg.Get(id) == nil {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrUnknownAgent, "%s", strings.Join(unknown, ", ")),
			"valid agents: "+strings.Join(reg.IDs(), ", "),
		)
	}

	var added []string
	for _, id := range ids {
		if cfg.AddAgent(id) {
			added = append(added, id)
		}
	}
	if len(added) == 0 {
		if !flags.IsQuiet() {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes: agents already enabled")
		}
		return nil
	}

	if err := flags.SaveConfig(cfg); err != nil {
		return err
	}
	if !flags.IsQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Enabled %s\n", strings.Join(added, ", "))
	}
	return nil
}

// pick prompts for agents not yet in cfg.
func pick(reg *agent.Registry, cfg *mcp.Config) ([]string, error) {
	names := targetNames()
	var options []prompt.Option
	for _, d := range agent.Detect(flags.FS(), reg) {
		if slices.Contains(cfg.Agents, d.ID) {
			continue
		}
		detail := d.Path
		if d.Status == agent.StatusInstalled {
			detail += " [installed]"
		}
		options = append(options, prompt.Option{ID: d.ID, Label: names[d.ID], Detail: detail})
	}
	return selector().SelectMany("Agents to enable", options)
}
