package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/agent"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/mcp/parser"
	"github.com/thoreinstein/mmcp/internal/mcp/validator"
)

var validateJSON bool

var errValidationFailed = errors.New("validation failed")

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false,
		"output results as JSON")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the canonical config for problems",
	Long: `Validate the canonical config without touching any agent file.

Checks the mode, that every agent is supported and the types of the
well-known server fields. Servers with neither command nor url, and agents
listed twice, are reported as warnings.

Exit codes:
  0 - Valid config (warnings OK)
  1 - Invalid config`,
	Example: `  mmcp validate
  mmcp validate --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd.OutOrStdout(), validateJSON)
	},
}

// validateResult is the JSON output of validate.
type validateResult struct {
	Valid      bool     `json:"valid"`
	Path       string   `json:"path"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	ParseError string   `json:"parse_error,omitempty"`
}

func runValidate(w io.Writer, asJSON bool) error {
	result := checkConfig(flags.GetConfigPath())

	var err error
	if asJSON {
		err = writeValidateJSON(w, result)
	} else {
		writeValidateText(w, result)
	}
	if err != nil {
		return err
	}

	if !result.Valid {
		return errors.NewUserError(errValidationFailed, "fix the issues above with 'mmcp edit'")
	}
	return nil
}

// checkConfig parses and validates the canonical config at path.
func checkConfig(path string) *validateResult {
	result := &validateResult{Path: path}

	cfg, err := parser.ParseFile(flags.FS(), path)
	if err != nil {
		result.ParseError = err.Error()
		return result
	}

	known := agent.DefaultRegistry(flags.FS(), flags.Resolver()).IDs()
	errs, warnings := validator.Split(validator.New(validator.WithKnownAgents(known)).Validate(cfg))
	for _, e := range errs {
		result.Errors = append(result.Errors, e.Error())
	}
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func writeValidateJSON(w io.Writer, result *validateResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling result")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeValidateText(w io.Writer, result *validateResult) {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	if result.ParseError != "" {
		fmt.Fprintf(w, "%s %s\n", fail("✗"), result.ParseError)
		return
	}
	if result.Valid {
		fmt.Fprintf(w, "%s %s is valid\n", ok("✓"), result.Path)
	} else {
		fmt.Fprintf(w, "%s %s has %d error(s)\n", fail("✗"), result.Path, len(result.Errors))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", fail(e))
	}
	for _, msg := range result.Warnings {
		fmt.Fprintf(w, "  %s\n", warn(msg))
	}
}
