package validator

import (
	"slices"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
)

// Option configures a Validator.
type Option func(*Validator)

// Validator validates canonical MCP configurations.
type Validator struct {
	// knownAgents, when non-nil, restricts Config.Agents to these IDs.
	knownAgents []string
}

// New creates a new Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithKnownAgents rejects agent IDs that are not in ids.
// Without this option agent IDs are not checked.
func WithKnownAgents(ids []string) Option {
	return func(v *Validator) {
		v.knownAgents = slices.Clone(ids)
	}
}

// Validate checks a Config for issues.
// Returns a slice of validation errors/warnings, or nil if valid.
// Use [HasErrors] to check if any errors (vs warnings) were found.
func (v *Validator) Validate(cfg *mcp.Config) []*ValidationError {
	if cfg == nil {
		return []*ValidationError{{
			Message:  "config is nil",
			Severity: SeverityError,
		}}
	}

	var errs []*ValidationError

	if !cfg.Mode.Valid() {
		errs = append(errs, &ValidationError{
			Field:    "mode",
			Message:  "mode must be 'merge' or 'replace', got '" + string(cfg.Mode) + "'",
			Severity: SeverityError,
			Err:      errors.ErrInvalidMode,
		})
	}

	errs = append(errs, v.validateAgents(cfg.Agents)...)

	for name, server := range cfg.MCPServers.All() {
		errs = append(errs, v.validateServer(name, server)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) validateAgents(agents []string) []*ValidationError {
	var errs []*ValidationError
	seen := make(map[string]bool, len(agents))

	for _, id := range agents {
		if seen[id] {
			errs = append(errs, &ValidationError{
				Field:    "agents",
				Message:  "agent '" + id + "' is listed more than once",
				Severity: SeverityWarning,
				Err:      ErrDuplicateAgent,
			})
			continue
		}
		seen[id] = true

		if v.knownAgents != nil && !slices.Contains(v.knownAgents, id) {
			errs = append(errs, &ValidationError{
				Field:    "agents",
				Message:  "unknown agent '" + id + "'",
				Severity: SeverityError,
				Err:      errors.ErrUnknownAgent,
			})
		}
	}

	return errs
}

// validateServer validates a single server entry.
func (v *Validator) validateServer(name string, server *mcp.ServerSpec) []*ValidationError {
	var errs []*ValidationError

	if name == "" {
		errs = append(errs, &ValidationError{
			Field:    "mcpServers",
			Message:  "server name cannot be empty",
			Severity: SeverityError,
			Err:      ErrMissingServerName,
		})
	}

	if server == nil {
		return append(errs, &ValidationError{
			ServerName: name,
			Message:    "server entry is null",
			Severity:   SeverityError,
			Err:        ErrInvalidFieldType,
		})
	}

	errs = append(errs, v.validateFieldTypes(name, server)...)

	// Command and url are optional in the canonical file: a server may only
	// patch a few fields of an entry that already exists in the target.
	command, url := server.Command(), server.URL()
	switch {
	case command == "" && url == "":
		errs = append(errs, &ValidationError{
			ServerName: name,
			Field:      "command/url",
			Message:    "server has neither command nor URL; existing target entries will be patched as is",
			Severity:   SeverityWarning,
			Err:        ErrMissingTarget,
		})
	case command != "" && url != "":
		errs = append(errs, &ValidationError{
			ServerName: name,
			Message:    "server has both command and URL",
			Severity:   SeverityWarning,
		})
	}

	errs = append(errs, v.validateKeys(name, server, mcp.FieldEnv, "environment variable key cannot be empty", ErrEmptyEnvKey)...)
	errs = append(errs, v.validateKeys(name, server, mcp.FieldHeaders, "header key cannot be empty", ErrEmptyHeaderKey)...)

	return errs
}

// validateFieldTypes checks the JSON type of each well-known field that is
// present and not a deletion marker.
func (v *Validator) validateFieldTypes(name string, server *mcp.ServerSpec) []*ValidationError {
	var errs []*ValidationError

	check := func(field, want string, ok func(any) bool) {
		val, present := server.Get(field)
		if !present || mcp.IsDeletion(val) || ok(val) {
			return
		}
		errs = append(errs, &ValidationError{
			ServerName: name,
			Field:      field,
			Message:    field + " must be " + want,
			Severity:   SeverityError,
			Err:        ErrInvalidFieldType,
		})
	}

	isString := func(x any) bool { _, ok := x.(string); return ok }
	isObject := func(x any) bool { _, ok := x.(*jsontree.Object); return ok }
	isStringArray := func(x any) bool {
		arr, ok := x.([]any)
		if !ok {
			return false
		}
		for _, e := range arr {
			if !isString(e) {
				return false
			}
		}
		return true
	}

	check(mcp.FieldCommand, "a string", isString)
	check(mcp.FieldURL, "a string", isString)
	check(mcp.FieldArgs, "an array of strings", isStringArray)
	check(mcp.FieldEnv, "an object", isObject)
	check(mcp.FieldHeaders, "an object", isObject)

	return errs
}

// validateKeys reports an empty key inside an object-valued field.
func (v *Validator) validateKeys(name string, server *mcp.ServerSpec, field, msg string, sentinel error) []*ValidationError {
	raw, _ := server.Get(field)
	obj, ok := raw.(*jsontree.Object)
	if !ok || !obj.Has("") {
		return nil
	}
	return []*ValidationError{{
		ServerName: name,
		Field:      field,
		Message:    msg,
		Severity:   SeverityError,
		Err:        sentinel,
	}}
}
