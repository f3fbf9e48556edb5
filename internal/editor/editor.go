// Package editor launches the user's preferred text editor.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/paths"
)

// Editor opens files in an external editor.
type Editor struct {
	env      paths.Resolver
	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

// New returns an Editor reading $EDITOR and $VISUAL through r and running
// the editor attached to the terminal.
func New(r paths.Resolver) *Editor {
	return &Editor{
		env:      r,
		lookPath: exec.LookPath,
		run:      runAttached(os.Stdin, os.Stdout, os.Stderr),
	}
}

// Open launches the editor on path and waits for it to exit.
func (e *Editor) Open(path string) error {
	argv := e.Command()
	if err := e.run(argv[0], append(argv[1:], path)...); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// Command returns the editor command line. Fallback chain:
// $EDITOR → $VISUAL → nano → vi. Values with flags such as "code --wait"
// are split on whitespace.
func (e *Editor) Command() []string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(e.env.Getenv(key)); len(fields) > 0 {
			return fields
		}
	}

	// nano is friendlier for beginners
	if _, err := e.lookPath("nano"); err == nil {
		return []string{"nano"}
	}
	return []string{"vi"}
}

func runAttached(stdin io.Reader, stdout, stderr io.Writer) func(string, ...string) error {
	return func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdin = stdin
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		return cmd.Run()
	}
}
