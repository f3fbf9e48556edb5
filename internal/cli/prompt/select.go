// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/logging"
)

// Sentinel errors for option selection.
var (
	ErrNoOptions          = errors.New("no options to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Option is one selectable entry.
type Option struct {
	// ID is returned when the option is selected.
	ID string
	// Label is the human-readable name.
	Label string
	// Detail is shown next to the label, e.g. a file path.
	Detail string
}

func (o Option) String() string {
	if o.Detail == "" {
		return fmt.Sprintf("%s (%s)", o.ID, o.Label)
	}
	return fmt.Sprintf("%s (%s) %s", o.ID, o.Label, o.Detail)
}

// Selector handles multi-selection prompts. On a terminal it opens a fuzzy
// finder; otherwise it prints a numbered list and reads a line of numbers.
type Selector struct {
	reader      io.Reader
	writer      io.Writer
	interactive bool
}

// NewSelector creates a Selector on stdin and stdout, using the fuzzy finder
// when both are terminals.
func NewSelector() *Selector {
	return &Selector{
		reader:      os.Stdin,
		writer:      os.Stdout,
		interactive: logging.IsInteractive(os.Stdin, os.Stdout),
	}
}

// NewSelectorWithIO creates a line-based Selector with custom reader and
// writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectMany prompts the user to choose any number of options and returns
// the chosen IDs in the order they were picked.
//
// Returns:
//   - ErrNoOptions if the list is empty
//   - ErrInvalidSelection if an entry is not a number or out of range
//   - ErrSelectionCancelled on EOF, an empty answer or an aborted finder
func (s *Selector) SelectMany(title string, options []Option) ([]string, error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}
	if s.interactive {
		return s.find(title, options)
	}
	return s.readNumbers(title, options)
}

func (s *Selector) find(title string, options []Option) ([]string, error) {
	idxs, err := fuzzyfinder.FindMulti(
		options,
		func(i int) string {
			return options[i].ID
		},
		fuzzyfinder.WithHeader(title+" (TAB to mark, ENTER to confirm)"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			o := options[i]
			return fmt.Sprintf("ID:   %s\nName: %s\nFile: %s", o.ID, o.Label, o.Detail)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	ids := make([]string, 0, len(idxs))
	for _, i := range idxs {
		ids = append(ids, options[i].ID)
	}
	return ids, nil
}

func (s *Selector) readNumbers(title string, options []Option) ([]string, error) {
	fmt.Fprintf(s.writer, "%s:\n", title)
	for i, o := range options {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, o)
	}
	fmt.Fprintf(s.writer, "Select (e.g. 1,3): ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "reading selection")
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, ErrSelectionCancelled
	}

	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", f)
		}
		if n < 1 || n > len(options) {
			return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(options))
		}
		if id := options[n-1].ID; !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
