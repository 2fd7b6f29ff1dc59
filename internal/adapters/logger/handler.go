package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/devshell/internal/ui/output"
	"go.trai.ch/devshell/internal/ui/style"
)

// subjectKeys name the attributes that identify what a record is about.
// They are printed in this order as a bracketed prefix instead of key=value pairs.
var subjectKeys = []string{"platform", "package"}

// PrettyHandler is a slog.Handler producing one colored line per record:
//
//	! [x86_64-linux ngrok] message key=value
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewPrettyHandler creates a PrettyHandler writing to w (stderr if nil).
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		attrs = flattenAttr(attrs, h.groups, a)
		return true
	})

	subject, rest := splitSubject(attrs)

	var line strings.Builder
	if icon := levelIcon(r.Level); icon != "" {
		line.WriteString(icon + " ")
	}
	if len(subject) > 0 {
		line.WriteString("[" + strings.Join(subject, " ") + "] ")
	}
	line.WriteString(r.Message)
	for _, a := range rest {
		line.WriteString(" " + a.Key + "=" + formatValue(a.Value))
	}

	styled := h.out.String(line.String()).Foreground(levelColor(r.Level))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := slices.Clone(h.attrs)
	for _, a := range attrs {
		merged = flattenAttr(merged, h.groups, a)
	}
	return &PrettyHandler{out: h.out, level: h.level, attrs: merged, groups: h.groups}
}

// WithGroup returns a handler qualifying later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append(slices.Clone(h.groups), name)
	return &PrettyHandler{out: h.out, level: h.level, attrs: h.attrs, groups: groups}
}

// flattenAttr appends a to dst with its key qualified by groups.
// Group values are expanded into one attribute per member.
func flattenAttr(dst []slog.Attr, groups []string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := groups
		if a.Key != "" {
			inner = append(slices.Clone(groups), a.Key)
		}
		for _, member := range a.Value.Group() {
			dst = flattenAttr(dst, inner, member)
		}
		return dst
	}

	if len(groups) > 0 {
		a.Key = strings.Join(groups, ".") + "." + a.Key
	}
	return append(dst, a)
}

// splitSubject separates the subject values from the remaining attributes.
// The last occurrence of a subject key wins.
func splitSubject(attrs []slog.Attr) (subject []string, rest []slog.Attr) {
	values := make(map[string]string, len(subjectKeys))
	for _, a := range attrs {
		if slices.Contains(subjectKeys, a.Key) {
			values[a.Key] = a.Value.String()
			continue
		}
		rest = append(rest, a)
	}

	for _, key := range subjectKeys {
		if v, ok := values[key]; ok && v != "" {
			subject = append(subject, v)
		}
	}
	return subject, rest
}

// formatValue quotes values that would otherwise be ambiguous in key=value form.
func formatValue(v slog.Value) string {
	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelIcon(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return style.Cross
	case level >= slog.LevelWarn:
		return style.Warning
	default:
		return ""
	}
}

func levelColor(level slog.Level) termenv.Color {
	switch {
	case level >= slog.LevelError:
		return termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return termenv.RGBColor(string(style.Yellow))
	default:
		return termenv.RGBColor(string(style.Slate))
	}
}
