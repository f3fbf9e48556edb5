package config

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

// Validation errors for settings fields.
var (
	// ErrInvalidLogFormat indicates a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRetention indicates a negative backup retention count.
	ErrInvalidRetention = errors.New("invalid backup retention")
)

// Validate checks Settings for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(s *Settings) []error {
	if s == nil {
		return []error{errors.New("settings are nil")}
	}

	var errs []error

	switch s.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, &FieldError{
			Field: KeyLogFormat,
			Value: s.LogFormat,
			Err:   ErrInvalidLogFormat,
		})
	}

	if s.BackupRetention < 0 {
		errs = append(errs, &FieldError{
			Field: KeyBackupRetention,
			Value: strconv.Itoa(s.BackupRetention),
			Err:   ErrInvalidRetention,
		})
	}

	if err := validatePath(s.Config); err != nil {
		errs = append(errs, &FieldError{
			Field: KeyConfig,
			Value: s.Config,
			Err:   err,
		})
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an error for a specific settings field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
