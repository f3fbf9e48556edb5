package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/doctor"
	"github.com/thoreinstein/mmcp/internal/errors"
)

var (
	doctorJSON    bool
	doctorVerbose bool
	doctorFix     bool
)

var (
	errDoctorWarnings = errors.New("warnings found")
	errDoctorErrors   = errors.New("errors found")
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false,
		"show every check, including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"tighten permissions of agent files that are too open")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the canonical config and agent files",
	Long: `Run diagnostic checks on the canonical config and on the config file of
every agent it lists.

Checks that the canonical config parses and validates, that each agent file
can be parsed and merged into, and that agent files holding secrets are not
writable or readable by everyone.

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  mmcp doctor
  mmcp doctor --all
  mmcp doctor --fix`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	runner := doctor.NewRunner(doctor.DefaultChecks(flags.FS(), flags.Resolver(), flags.GetConfigPath())...)
	report, err := runner.Run(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "running checks")
	}

	w := cmd.OutOrStdout()
	var fixes []doctor.FixResult
	if doctorFix {
		fixes = doctor.Fix(flags.FS(), report)
	}

	switch {
	case doctorJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	case !flags.IsQuiet():
		writeFixes(w, fixes)
		writeDoctorText(w, report, doctorVerbose)
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func writeFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		icon := statusIcon(doctor.SeverityPass)
		if !f.Success {
			icon = statusIcon(doctor.SeverityError)
		}
		fmt.Fprintf(w, "%s fixed %s: %s\n", icon, f.Path, f.Message)
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func writeDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.Path != "" && showAll {
			fmt.Fprintf(w, "  path: %s\n", result.Path)
		}
		for _, d := range result.Details {
			fmt.Fprintf(w, "  - %s\n", d)
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
