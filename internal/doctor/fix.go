package doctor

import (
	"fmt"

	"github.com/spf13/afero"
)

// FixResult records the outcome of one automatic fix.
type FixResult struct {
	// Path is the file that was fixed.
	Path string `json:"path"`

	// Success is true when the fix was applied.
	Success bool `json:"success"`

	// Message describes what was done or why it failed.
	Message string `json:"message"`
}

// Fix tightens the permissions of every fixable result in report by removing
// the bits above -rw-r--r--. Fixed results are marked as passing and the
// summary is recomputed.
func Fix(fs afero.Fs, report *Report) []FixResult {
	var out []FixResult
	for _, res := range report.Results {
		if !res.Fixable || res.Path == "" {
			continue
		}

		info, err := fs.Stat(res.Path)
		if err != nil {
			out = append(out, FixResult{Path: res.Path, Message: fmt.Sprintf("cannot stat file: %v", err)})
			continue
		}
		perm := info.Mode().Perm() & maxSecureFilePerm
		if err := fs.Chmod(res.Path, perm); err != nil {
			out = append(out, FixResult{Path: res.Path, Message: fmt.Sprintf("chmod failed: %v", err)})
			continue
		}

		out = append(out, FixResult{Path: res.Path, Success: true, Message: "permissions set to " + formatOctal(perm)})
		res.Status = SeverityPass
		res.Message = "permissions fixed"
		res.Fixable = false
		res.FixHint = ""
	}

	report.Summary = summarize(report.Results)
	return out
}

func summarize(results []*CheckResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case SeverityPass:
			s.Passed++
		case SeverityInfo:
			s.Info++
		case SeverityWarning:
			s.Warnings++
		case SeverityError:
			s.Errors++
		}
	}
	return s
}
