package agent

import (
	"context"
	"slices"
	"strings"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/logging"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/internal/mcp/validator"
)

// Result records the outcome of applying a Config to one target.
type Result struct {
	// ID is the agent identifier as listed in the Config.
	ID string

	// Path is the target file, empty when it could not be resolved.
	Path string

	// Err is nil on success.
	Err error
}

// ApplyError reports every target that failed during a dispatch.
type ApplyError struct {
	Failed []Result
}

func (e *ApplyError) Error() string {
	msgs := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		msgs = append(msgs, "applying to "+r.ID+": "+r.Err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns the per-target errors.
func (e *ApplyError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, r := range e.Failed {
		errs = append(errs, r.Err)
	}
	return errs
}

// Is reports whether any per-target error matches target.
func (e *ApplyError) Is(target error) bool {
	for _, r := range e.Failed {
		if errors.Is(r.Err, target) {
			return true
		}
	}
	return false
}

// BackupFunc saves the current contents of an agent's file before it is
// rewritten.
type BackupFunc func(agentID, path string) error

// Dispatcher applies a Config to the targets it lists.
type Dispatcher struct {
	registry  *Registry
	validator *validator.Validator
	backup    BackupFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithBackup runs fn before each target file is written. A target whose
// backup fails is not written and is reported as failed.
func WithBackup(fn BackupFunc) DispatcherOption {
	return func(d *Dispatcher) {
		d.backup = fn
	}
}

// NewDispatcher creates a Dispatcher resolving agent IDs through reg.
func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry:  reg,
		validator: validator.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Apply validates cfg and then runs the adapter of every agent it lists, in
// order, each agent at most once. When only is non-empty the run is
// restricted to those IDs.
//
// A Config with error-severity issues (an unknown mode among them) is
// rejected before any file is touched; the error is marked
// errors.ErrInvalidConfig and wraps the first issue. Otherwise one failing
// target never stops the others: the returned results cover every target
// attempted and the error, when non-nil, is an *ApplyError.
func (d *Dispatcher) Apply(ctx context.Context, cfg *mcp.Config, only ...string) ([]Result, error) {
	logger := logging.FromContext(ctx)

	errs, warnings := validator.Split(d.validator.Validate(cfg))
	for _, w := range warnings {
		logger.Warn("config warning", "issue", w.Error())
	}
	if len(errs) > 0 {
		err := errors.Wrapf(errs[0], "invalid configuration (%d issues)", len(errs))
		for _, e := range errs[1:] {
			err = errors.WithHint(err, e.Error())
		}
		return nil, errors.Mark(err, errors.ErrInvalidConfig)
	}

	ids := selectAgents(cfg.Agents, only)
	results := make([]Result, 0, len(ids))

	for _, id := range only {
		if !slices.Contains(cfg.Agents, id) {
			results = append(results, Result{
				ID:  id,
				Err: errors.Wrapf(errors.ErrNotFound, "agent %q is not listed in the config", id),
			})
		}
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, d.applyOne(ctx, id, cfg))
	}

	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		return results, &ApplyError{Failed: failed}
	}
	return results, nil
}

func (d *Dispatcher) applyOne(ctx context.Context, id string, cfg *mcp.Config) Result {
	logger := logging.FromContext(ctx).With("agent", id)

	adapter := d.registry.Get(id)
	if adapter == nil {
		err := errors.Wrapf(errors.ErrUnknownAgent, "%q (known: %s)", id, strings.Join(d.registry.IDs(), ", "))
		logger.Error("skipping agent", "error", err)
		return Result{ID: id, Err: err}
	}

	path, err := adapter.Path()
	if err != nil {
		logger.Error("resolving target path", "error", err)
		return Result{ID: id, Err: err}
	}

	if d.backup != nil {
		if err := d.backup(id, path); err != nil {
			err = errors.Wrapf(err, "backing up %s", path)
			logger.Error("backup failed", "path", path, "error", err)
			return Result{ID: id, Path: path, Err: err}
		}
	}

	logger.Debug("applying config", "path", path, "mode", string(cfg.Mode), "servers", cfg.MCPServers.Len())
	if err := adapter.Apply(cfg); err != nil {
		logger.Error("apply failed", "path", path, "error", err)
		return Result{ID: id, Path: path, Err: err}
	}
	logger.Info("applied config", "path", path)
	return Result{ID: id, Path: path}
}

// selectAgents returns agents without repeats, filtered to only when given.
func selectAgents(agents, only []string) []string {
	out := make([]string, 0, len(agents))
	for _, id := range agents {
		if slices.Contains(out, id) {
			continue
		}
		if len(only) > 0 && !slices.Contains(only, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
