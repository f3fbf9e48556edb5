// Package commands implements the CLI commands for mmcp.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	mmcpcmd "github.com/thoreinstein/mmcp/cmd"
	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/agents"
	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/config"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFlag holds the value of the --config flag.
var configFlag string

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"path to the canonical config (default ~/.mmcp.json)")

	rootCmd.Version = mmcpcmd.BuildInfo().Version
	rootCmd.SetVersionTemplate("mmcp version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(agents.Cmd)
}

var rootCmd = &cobra.Command{
	Use:   "mmcp",
	Short: "Keep MCP server settings in sync across AI clients",
	Long: `mmcp keeps one canonical list of MCP servers in ~/.mmcp.json and writes
it into the configuration files of the AI clients you use: Claude Desktop,
Cursor, Gemini CLI, Codex CLI, Copilot CLI and GitHub Copilot CLI.

In merge mode only the servers you manage are added or updated; servers
configured by hand stay in place. In replace mode each client's server list
becomes exactly the canonical one. Everything else in the client files
(themes, models, comments in TOML) is left untouched.`,
	Example: `  # Register a server and the clients to sync
  mmcp add context7 npx -y @upstash/context7-mcp
  mmcp agents add cursor codex-cli

  # Write the servers into every listed client
  mmcp apply

  # Only touch Cursor, replacing its server list
  mmcp apply --agent cursor --mode replace

  See Also: mmcp list, mmcp agents`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return resolveConfigPath(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging loads settings and configures the logger from the
// verbosity and format flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	config.Init(flags.Resolver())
	settings, err := config.Load("")
	if err != nil {
		return errors.NewConfigError(err)
	}

	format := logging.Format(settings.LogFormat)
	if cmd.Flags().Changed("log-format") {
		format = logging.Format(logFormat)
	}
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(errors.Newf("invalid log format %q", format), "use --log-format text or json")
	}

	v := verbosity
	if v == 0 {
		switch os.Getenv("MMCP_DEBUG") {
		case "1", "true":
			v = 2
		case "2":
			v = 3
		}
	}
	level := logging.LevelFromVerbosity(v)
	if quiet {
		level = slog.LevelError
	}
	flags.SetQuiet(quiet)

	lc := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		lc.Tee = f
	}

	logger := logging.New(lc)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	flags.SetBackupRetention(settings.BackupRetention)
	if configFlag == "" {
		flags.SetConfigPath(settings.Config)
	}
	return nil
}

// resolveConfigPath applies --config over the settings value.
func resolveConfigPath(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") || configFlag != "" {
		flags.SetConfigPath(configFlag)
	}
	if flags.GetConfigPath() == "" {
		return errors.NewUserError(errors.ErrInvalidConfig, "pass --config or set MMCP_CONFIG; the home directory could not be determined")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
