// Package errors provides error handling conventions for the mmcp CLI.
//
// It re-exports the constructors and inspectors of
// github.com/cockroachdb/errors, defines sentinel errors for the failure
// classes of configuration reconciliation, an ExitError type for CLI exit
// code handling, and exit code constants following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrMalformedDocument) {
//	    // the target file did not parse; nothing was written
//	}
//
// Parse failures are marked rather than replaced, so the parser's own message
// is kept in the chain:
//
//	return errors.Malformed(err, "parsing %s", path)
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion:
//
//	err := errors.NewUserError(errors.ErrInvalidMode, "Use --mode merge or --mode replace")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
