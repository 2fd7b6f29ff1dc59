package app

import (
	"strings"

	"go.trai.ch/devshell/internal/core/domain"
)

// renderHook produces a script suitable for `eval "$(devshell hook)"`.
func renderHook(env []string, hooks domain.Hooks) string {
	var b strings.Builder

	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		b.WriteString("export " + key + "=" + quote(value) + "\n")
	}
	for _, cmd := range hooks.Setup {
		b.WriteString(cmd + "\n")
	}
	for _, cmd := range hooks.Activate {
		b.WriteString(cmd + "\n")
	}

	return b.String()
}

// quote wraps s in single quotes for POSIX shells.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// wrapWithHooks prefixes command with a shell running the hooks before exec'ing it.
func wrapWithHooks(command []string, hooks domain.Hooks) []string {
	if hooks.IsEmpty() {
		return command
	}

	var script strings.Builder
	for _, cmd := range hooks.Setup {
		script.WriteString(cmd + "\n")
	}
	for _, cmd := range hooks.Activate {
		script.WriteString(cmd + "\n")
	}
	script.WriteString(`exec "$@"`)

	return append([]string{"sh", "-c", script.String(), "devshell"}, command...)
}
