package logging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// AgentKey is the attribute key the text handler lifts out of the attribute
// list and prints as a "[id]" prefix before the message.
const AgentKey = "agent"

// palette holds the colors used by Handler. A nil palette means plain text.
type palette struct {
	time  *color.Color
	trace *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	error *color.Color
	key   *color.Color
	agent *color.Color
}

func newPalette() *palette {
	return &palette{
		time:  color.New(color.FgHiBlack),
		trace: color.New(color.FgHiBlack),
		debug: color.New(color.FgMagenta),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		error: color.New(color.FgRed, color.Bold),
		key:   color.New(color.FgCyan),
		agent: color.New(color.FgBlue, color.Bold),
	}
}

// Handler is a slog.Handler writing one human-readable line per record:
//
//	3:04PM INFO  [cursor] applied config path=/home/dev/.cursor/mcp.json
//
// Colors are used only when the writer supports them.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors *palette
	agent  string
	attrs  []slog.Attr
	groups []string
}

// NewHandler creates a text handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes r as a single line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(h.paint(h.timeColor(), r.Time.Format(time.Kitchen)))
		b.WriteByte(' ')
	}

	label := levelLabel(r.Level)
	pad := strings.Repeat(" ", max(0, 5-len(label)))
	b.WriteString(h.paint(h.levelColor(r.Level), label))
	b.WriteString(pad)
	b.WriteByte(' ')

	agent := h.agent
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		if len(h.groups) == 0 && a.Key == AgentKey && agent == "" {
			agent = a.Value.Resolve().String()
			return true
		}
		attrs = append(attrs, a)
		return true
	})
	if agent != "" {
		b.WriteString(h.paint(h.agentColor(), "["+agent+"]"))
		b.WriteByte(' ')
	}

	b.WriteString(r.Message)
	for _, a := range h.attrs {
		h.appendAttr(&b, a)
	}
	for _, a := range attrs {
		h.appendAttr(&b, a)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) appendAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	a = redactAttr(h.groups, a)
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(h.groups, a)
	}
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	b.WriteByte(' ')
	b.WriteString(h.paint(h.keyColor(), key))
	b.WriteByte('=')
	b.WriteString(formatValue(a.Value))
}

// WithAttrs returns a Handler that also writes attrs. A top-level "agent"
// attribute becomes the line prefix.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := *h
	newH.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newH.attrs = append(newH.attrs, h.attrs...)
	for _, a := range attrs {
		if len(h.groups) == 0 && a.Key == AgentKey {
			newH.agent = a.Value.Resolve().String()
			continue
		}
		newH.attrs = append(newH.attrs, a)
	}
	return &newH
}

// WithGroup returns a Handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = make([]string, len(h.groups)+1)
	copy(newH.groups, h.groups)
	newH.groups[len(h.groups)] = name
	return &newH
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) levelColor(level slog.Level) *color.Color {
	if h.colors == nil {
		return nil
	}
	switch {
	case level >= slog.LevelError:
		return h.colors.error
	case level >= slog.LevelWarn:
		return h.colors.warn
	case level >= slog.LevelInfo:
		return h.colors.info
	case level >= slog.LevelDebug:
		return h.colors.debug
	default:
		return h.colors.trace
	}
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) keyColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.key
}

func (h *Handler) agentColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.agent
}

// levelLabel names LevelTrace; other levels use slog's names.
func levelLabel(level slog.Level) string {
	if level <= LevelTrace {
		return "TRACE"
	}
	return level.String()
}

// formatValue quotes strings that would otherwise be ambiguous on the line.
func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = v.String()
		}
	default:
		return v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
