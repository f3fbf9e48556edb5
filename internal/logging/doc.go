// Package logging provides structured logging for the mmcp CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package. Attributes whose keys or values look like
// credentials are masked before they are written, in every format.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Code below the command layer fetches the logger with [FromContext].
//
// # Text Output
//
// The text [Handler] writes one line per record. A top-level "agent"
// attribute is printed as a "[id]" prefix so per-client messages from a
// dispatch line up:
//
//	3:04PM WARN  [codex-cli] apply failed error="malformed document"
//
// Colors follow NO_COLOR, TERM=dumb and FORCE_COLOR; see [SupportsColor].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// # Quiet Mode
//
// Use [NewDiscard] when log output should be suppressed entirely:
//
//	logger := logging.NewDiscard()
package logging
