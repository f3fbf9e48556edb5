// Package main is the entry point for the mmcp CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands"
	"github.com/thoreinstein/mmcp/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err with its hints and suggestion and returns the exit code.
func report(w io.Writer, err error) int {
	code := errors.ExitUser
	msg := err.Error()
	suggestion := ""

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		msg = exitErr.Error()
		suggestion = exitErr.Suggestion
	}

	fmt.Fprintln(w, "Error:", msg)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(w, "  -", hint)
	}
	if suggestion != "" {
		fmt.Fprintln(w, "Hint:", suggestion)
	}
	return code
}
