package domain

import (
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hooks holds the shell commands run when the environment is entered.
type Hooks struct {
	// Setup commands prepare the environment (e.g., create the virtualenv).
	Setup []string `json:"setup" yaml:"setup" toml:"setup"`

	// Activate commands run after setup, every time the shell is entered.
	Activate []string `json:"activate" yaml:"activate" toml:"activate"`
}

// IsEmpty reports whether no hook commands are defined.
func (h Hooks) IsEmpty() bool {
	return len(h.Setup) == 0 && len(h.Activate) == 0
}

// Clone returns a deep copy of h.
func (h Hooks) Clone() Hooks {
	return Hooks{
		Setup:    slices.Clone(h.Setup),
		Activate: slices.Clone(h.Activate),
	}
}

// EnvironmentDescriptor is the resolved, ready-to-activate environment for one platform.
type EnvironmentDescriptor struct {
	Platform Platform     `json:"platform"`
	Packages []PackageRef `json:"packages"`
	VenvDir  string       `json:"venv_dir"`
	Hooks    Hooks        `json:"hooks"`
}

// Names returns the qualified names of the resolved packages in order.
func (d *EnvironmentDescriptor) Names() []string {
	names := make([]string, len(d.Packages))
	for i, p := range d.Packages {
		names[i] = p.QualifiedName()
	}
	return names
}

// Clone returns a deep copy of d.
func (d *EnvironmentDescriptor) Clone() *EnvironmentDescriptor {
	if d == nil {
		return nil
	}
	return &EnvironmentDescriptor{
		Platform: d.Platform,
		Packages: slices.Clone(d.Packages),
		VenvDir:  d.VenvDir,
		Hooks:    d.Hooks.Clone(),
	}
}

// ID returns a deterministic fingerprint of the descriptor content.
// Two descriptors with equal content always share the same ID.
func (d *EnvironmentDescriptor) ID() string {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}

	write(d.Platform.String())
	write(d.VenvDir)
	for _, p := range d.Packages {
		write(p.QualifiedName())
		write(p.Version)
		write(p.Rev)
		write(p.AttrPath)
		write(strconv.FormatBool(p.Unfree))
	}
	write("setup")
	for _, cmd := range d.Hooks.Setup {
		write(cmd)
	}
	write("activate")
	for _, cmd := range d.Hooks.Activate {
		write(cmd)
	}

	return strconv.FormatUint(h.Sum64(), 16)
}

// RequestKey returns a deterministic fingerprint of a resolution query.
// It is used to cache resolutions for the lifetime of a resolver.
func RequestKey(platform Platform, allowUnfree bool, requests []PackageRequest, venvDir string, hooks Hooks) string {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}

	write(platform.String())
	write(strconv.FormatBool(allowUnfree))
	write(venvDir)
	for _, r := range requests {
		write(r.Spec())
	}
	write("setup")
	for _, cmd := range hooks.Setup {
		write(cmd)
	}
	write("activate")
	for _, cmd := range hooks.Activate {
		write(cmd)
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
