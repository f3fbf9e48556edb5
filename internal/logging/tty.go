package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Any writer with an Fd method is
// checked, not only *os.File.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether both ends of a prompt are terminals.
func IsInteractive(in io.Reader, out io.Writer) bool {
	r, ok := in.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(r.Fd())) {
		return false
	}
	return IsTTY(out)
}

// SupportsColor reports whether ANSI colors should be written to w.
//
// NO_COLOR (https://no-color.org) and TERM=dumb turn colors off.
// FORCE_COLOR turns them on even when w is not a terminal, which is how CI
// logs get colored output.
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if v, ok := os.LookupEnv("FORCE_COLOR"); ok && v != "0" {
		return true
	}
	return isTTY
}
