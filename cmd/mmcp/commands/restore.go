package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	mmcpcmd "github.com/thoreinstein/mmcp/cmd"
	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/backup"
	"github.com/thoreinstein/mmcp/internal/errors"
)

var restoreList bool

func init() {
	restoreCmd.Flags().BoolVarP(&restoreList, "list", "l", false,
		"list the backups of the agent instead of restoring")
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore <agent> [backup-id]",
	Short: "Restore an agent's config file from a backup",
	Long: `Restore an agent's config file from a backup taken by 'mmcp apply'.

Without a backup ID the most recent backup is restored. The copy is verified
against the hash recorded when it was taken.`,
	Example: `  # Undo the last apply to Cursor
  mmcp restore cursor

  # Pick an older backup
  mmcp restore cursor --list
  mmcp restore cursor 20260123T100712`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRestore,
}

func newBackupManager() *backup.Manager {
	return backup.NewManager(flags.FS(), flags.Resolver(),
		backup.WithRetentionCount(flags.BackupRetention()),
		backup.WithVersion(mmcpcmd.BuildInfo().Version),
	)
}

func runRestore(cmd *cobra.Command, args []string) error {
	mgr := newBackupManager()
	agentID := args[0]

	if restoreList {
		manifests, err := mgr.List(agentID)
		if err != nil {
			return restoreError(err)
		}
		return writeBackups(cmd.OutOrStdout(), manifests)
	}

	var backupID string
	if len(args) > 1 {
		backupID = args[1]
	}
	manifest, err := mgr.Restore(agentID, backupID)
	if err != nil {
		return restoreError(err)
	}

	if !flags.IsQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from backup %s\n", manifest.OriginalPath, manifest.ID)
	}
	return nil
}

func restoreError(err error) error {
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
		return errors.NewUserError(err, "backups are taken by 'mmcp apply'; run 'mmcp restore <agent> --list' to see them")
	case errors.Is(err, backup.ErrBackupCorrupted):
		return errors.NewSystemError(err, "choose another backup with 'mmcp restore <agent> --list'")
	default:
		return errors.NewExitError(err, errors.ExitSystem)
	}
}

func writeBackups(w io.Writer, manifests []backup.Manifest) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tFILE")
	for _, m := range manifests {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.CreatedAt.Local().Format(time.DateTime), m.OriginalPath)
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}
