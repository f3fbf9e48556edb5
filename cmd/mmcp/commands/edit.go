package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/editor"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

// openEditor is replaced in tests.
var openEditor = func(path string) error {
	return editor.New(flags.Resolver()).Open(path)
}

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the canonical config in $EDITOR",
	Long: `Open the canonical config in your editor, creating an empty one first
if needed. The file is validated when the editor exits.

Uses $EDITOR, then $VISUAL, then nano or vi.`,
	Example: `  mmcp edit
  EDITOR="code --wait" mmcp edit`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, _ []string) error {
	path := flags.GetConfigPath()

	exists, err := afero.Exists(flags.FS(), path)
	if err != nil {
		return errors.NewSystemError(err, "check permissions on "+path)
	}
	if !exists {
		if err := flags.SaveConfig(mcp.NewConfig()); err != nil {
			return err
		}
	}

	if !flags.IsQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", path)
	}
	if err := openEditor(path); err != nil {
		return errors.NewSystemError(err, "set $EDITOR to your preferred editor")
	}

	result := checkConfig(path)
	if !result.Valid || len(result.Warnings) > 0 {
		writeValidateText(cmd.OutOrStdout(), result)
	}
	if !result.Valid {
		return errors.NewUserError(errValidationFailed, "run 'mmcp edit' again to fix the config")
	}
	return nil
}
