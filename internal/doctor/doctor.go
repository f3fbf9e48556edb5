package doctor

import (
	"context"
	"time"

	"github.com/thoreinstein/mmcp/internal/logging"
)

// Check is one diagnostic.
type Check interface {
	// Name identifies the check in reports, e.g. "agent:cursor".
	Name() string

	// Category groups related checks: "config" or "agent".
	Category() string

	Run() *CheckResult
}

// Runner runs checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates a Runner with the given checks.
func NewRunner(checks ...Check) *Runner {
	return &Runner{
		checks: checks,
		now:    time.Now,
	}
}

// AddCheck appends c to the checks to run.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check and summarizes the results. A cancelled ctx
// stops the run between checks; the partial report is returned with the
// context's error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	logger := logging.FromContext(ctx)
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	defer func() { report.Summary = summarize(report.Results) }()

	for _, check := range r.checks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := check.Run()
		logger.Debug("doctor check", "check", check.Name(), "status", res.Status.String())
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// Report is the outcome of a Runner.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check warned.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
