package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	mmcpcmd "github.com/thoreinstein/mmcp/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date and Go toolchain of mmcp.`,
	Run: func(cmd *cobra.Command, _ []string) {
		info := mmcpcmd.BuildInfo()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "mmcp version %s\n", info.Version)
		fmt.Fprintf(w, "  commit: %s\n", info.Commit)
		fmt.Fprintf(w, "  built:  %s\n", info.Date)
		if info.GoVersion != "" {
			fmt.Fprintf(w, "  go:     %s\n", info.GoVersion)
		}
	},
}
