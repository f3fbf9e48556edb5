package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

// Sentinel errors for add operations.
var (
	errAddMissingCommandOrURL = errors.New("either command or --url is required")
	errAddBothCommandAndURL   = errors.New("cannot specify both command and --url")
	errAddHeadersWithoutURL   = errors.New("--header requires --url")
	errAddEnvWithURL          = errors.New("--env applies to local servers only")
)

var (
	addURL     string
	addEnv     []string
	addHeaders []string
	addForce   bool
)

func init() {
	addCmd.Flags().StringVar(&addURL, "url", "",
		"remote server endpoint")
	addCmd.Flags().StringArrayVarP(&addEnv, "env", "e", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	addCmd.Flags().StringArrayVar(&addHeaders, "header", nil,
		"HTTP headers in KEY=VALUE format (repeatable)")
	addCmd.Flags().BoolVarP(&addForce, "force", "f", false,
		"overwrite if server already exists")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name> [command] [args...]",
	Short: "Add an MCP server to the canonical config",
	Long: `Add an MCP server to the canonical config.

For local servers, provide a command and optional arguments; everything after
the command is passed through as arguments. For remote servers, use --url.
The server is written to agents on the next 'mmcp apply'.`,
	Example: `  # Add a local server
  mmcp add context7 npx -y @upstash/context7-mcp

  # Add a local server with environment variables
  mmcp add github npx -y @modelcontextprotocol/server-github --env GITHUB_TOKEN=ghp_xxx

  # Add a remote server with an auth header
  mmcp add api --url https://api.example.com/mcp --header "Authorization=Bearer token"

  See Also:
    mmcp remove  - Remove a server
    mmcp apply   - Write servers to agents`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return errors.NewUserError(errors.ErrMissingName, "give the server a name")
	}

	spec, err := buildServer(args[1:])
	if err != nil {
		return errors.NewUserError(err, "Run 'mmcp add --help' for usage")
	}

	cfg, err := flags.LoadConfig()
	if err != nil {
		return err
	}

	if cfg.MCPServers.Has(name) && !addForce {
		return errors.NewUserError(
			errors.Newf("server %q already exists", name),
			"use --force to overwrite",
		)
	}

	cfg.SetServer(name, spec)
	if err := flags.SaveConfig(cfg); err != nil {
		return err
	}

	if !flags.IsQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Added server %q to %s\n", name, flags.GetConfigPath())
	}
	return nil
}

// buildServer turns the positional command line and flags into a spec.
func buildServer(commandLine []string) (*mcp.ServerSpec, error) {
	var command string
	var args []string
	if len(commandLine) > 0 {
		command = commandLine[0]
		args = commandLine[1:]
	}

	switch {
	case command == "" && addURL == "":
		return nil, errAddMissingCommandOrURL
	case command != "" && addURL != "":
		return nil, errAddBothCommandAndURL
	case command != "" && len(addHeaders) > 0:
		return nil, errAddHeadersWithoutURL
	case addURL != "" && len(addEnv) > 0:
		return nil, errAddEnvWithURL
	}

	env, err := parseKeyValueSlice(addEnv, "--env")
	if err != nil {
		return nil, err
	}
	headers, err := parseKeyValueSlice(addHeaders, "--header")
	if err != nil {
		return nil, err
	}

	if addURL != "" {
		return mcp.NewRemoteServer(addURL, headers), nil
	}
	return mcp.NewLocalServer(command, args, env), nil
}

// parseKeyValueSlice parses a slice of KEY=VALUE strings into a map.
// Returns an error if any entry is malformed.
func parseKeyValueSlice(entries []string, flagName string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid %s format %q: expected KEY=VALUE", flagName, entry)
		}
		result[key] = value
	}
	return result, nil
}
