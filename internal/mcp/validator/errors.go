// Package validator provides validation for canonical MCP configurations.
package validator

import (
	"strconv"
	"strings"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// Sentinel errors for validation failures.
var (
	// ErrMissingServerName indicates a server keyed by the empty string.
	ErrMissingServerName = errors.New("server name is required")

	// ErrMissingTarget indicates a server with neither command nor URL.
	ErrMissingTarget = errors.New("server requires command or URL")

	// ErrInvalidFieldType indicates a well-known field holding the wrong JSON type.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrEmptyEnvKey indicates an environment variable has an empty key.
	ErrEmptyEnvKey = errors.New("environment variable key is empty")

	// ErrEmptyHeaderKey indicates an HTTP header has an empty key.
	ErrEmptyHeaderKey = errors.New("header key is empty")

	// ErrDuplicateAgent indicates an agent listed more than once.
	ErrDuplicateAgent = errors.New("duplicate agent")
)

// Severity separates issues that block an apply from advisory ones.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ValidationError is one issue found in a Config.
type ValidationError struct {
	// ServerName is empty for config-level issues.
	ServerName string

	// Field is the offending key, relative to the server when ServerName is
	// set and to the document root otherwise.
	Field string

	Message  string
	Severity Severity

	// Err is the sentinel the issue matches with errors.Is.
	Err error
}

// Path locates the issue in the config file, e.g. mcpServers.github.env.
// Server names that are not plain identifiers are quoted.
func (e *ValidationError) Path() string {
	var parts []string
	if e.ServerName != "" || errors.Is(e.Err, ErrMissingServerName) {
		parts = append(parts, "mcpServers", pathSegment(e.ServerName))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	return strings.Join(parts, ".")
}

func (e *ValidationError) Error() string {
	if path := e.Path(); path != "" {
		return e.Severity.String() + ": " + path + ": " + e.Message
	}
	return e.Severity.String() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches the issue's sentinel.
func (e *ValidationError) Is(target error) bool {
	return e.Err != nil && errors.Is(e.Err, target)
}

func pathSegment(name string) string {
	if name == "" || strings.ContainsAny(name, ". \t\"[]") {
		return strconv.Quote(name)
	}
	return name
}

// Split partitions issues by severity, keeping their order.
func Split(issues []*ValidationError) (errs, warnings []*ValidationError) {
	for _, issue := range issues {
		if issue.Severity == SeverityWarning {
			warnings = append(warnings, issue)
		} else {
			errs = append(errs, issue)
		}
	}
	return errs, warnings
}

// HasErrors reports whether any issue blocks an apply.
func HasErrors(issues []*ValidationError) bool {
	errs, _ := Split(issues)
	return len(errs) > 0
}
