package domain

import "go.trai.ch/zerr"

// Manifest is the declarative environment description loaded from devshell.yaml.
type Manifest struct {
	// Description is free text and informational only.
	Description string

	// Platforms lists the platforms the environment is published for.
	Platforms []Platform

	// AllowUnfree permits packages with unfree licenses.
	AllowUnfree bool

	// Packages are the top-level package requests in declaration order.
	Packages []PackageRequest

	// Language is the language runtime whose package set scopes LanguagePackages (e.g., "python311").
	Language string

	// LanguagePackages are requests scoped under the language package set.
	LanguagePackages []PackageRequest

	// VenvDir is the virtual environment directory.
	VenvDir string

	// Hooks are user-defined commands appended to the default hooks.
	Hooks Hooks

	// Root is the directory containing the manifest.
	Root string
}

// LanguageScope returns the attribute set holding the language packages (e.g., "python311Packages").
func LanguageScope(language string) string {
	if language == "" {
		return ""
	}
	return language + "Packages"
}

// Requests returns top-level requests followed by language-scoped requests.
func (m *Manifest) Requests() []PackageRequest {
	out := make([]PackageRequest, 0, len(m.Packages)+len(m.LanguagePackages))
	out = append(out, m.Packages...)
	out = append(out, m.LanguagePackages...)
	return out
}

// Validate checks the manifest invariants that do not need the package index.
func (m *Manifest) Validate() error {
	if len(m.LanguagePackages) > 0 && m.Language == "" {
		return ErrMissingLanguage
	}
	if len(m.Packages)+len(m.LanguagePackages) == 0 {
		return ErrNoPackagesRequested
	}
	for _, p := range m.Platforms {
		if !p.IsSupported() {
			return zerr.With(zerr.Wrap(ErrUnsupportedPlatform, "invalid manifest platform"), "platform", p.String())
		}
	}
	return nil
}
