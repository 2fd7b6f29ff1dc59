package resolver

import (
	"strings"

	"go.trai.ch/devshell/internal/core/domain"
)

// DefaultHooks returns the hooks every environment gets before user hooks.
// Environments with Python packages (a python* scope) create and activate a
// virtualenv that can see the packages provided by the environment. Other
// languages get no default hooks.
func DefaultHooks(requests []domain.PackageRequest, venvDir string) domain.Hooks {
	python := false
	for _, r := range requests {
		if strings.HasPrefix(r.Scope, "python") {
			python = true
			break
		}
	}
	if !python {
		return domain.Hooks{}
	}

	dir := shellQuote(venvDir)
	return domain.Hooks{
		Setup: []string{
			"if [ ! -d " + dir + " ]; then python -m venv --system-site-packages " + dir + "; fi",
		},
		Activate: []string{
			". " + shellQuote(venvDir+"/bin/activate"),
		},
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
