package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devshell/internal/core/domain"
)

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	for _, p := range domain.SupportedPlatforms() {
		got, err := domain.ParsePlatform(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	for _, bad := range []string{"windows", "", "x86_64-windows", "i686-linux", "X86_64-LINUX"} {
		_, err := domain.ParsePlatform(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedPlatform), bad)
		assert.Contains(t, err.Error(), domain.ErrUnsupportedPlatform.Error())
	}
}

func TestSupportedPlatforms_CanonicalOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []domain.Platform{
		"x86_64-linux",
		"aarch64-linux",
		"x86_64-darwin",
		"aarch64-darwin",
	}, domain.SupportedPlatforms())

	// Callers must not be able to mutate the package-level set.
	list := domain.SupportedPlatforms()
	list[0] = "windows"
	assert.Equal(t, domain.X8664Linux, domain.SupportedPlatforms()[0])
}

func TestPlatformFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos, goarch string
		want         domain.Platform
		wantErr      bool
	}{
		{"linux", "amd64", domain.X8664Linux, false},
		{"linux", "arm64", domain.AArch64Linux, false},
		{"darwin", "amd64", domain.X8664Darwin, false},
		{"darwin", "arm64", domain.AArch64Darwin, false},
		{"windows", "amd64", "", true},
		{"linux", "riscv64", "", true},
	}

	for _, tt := range tests {
		got, err := domain.PlatformFor(tt.goos, tt.goarch)
		if tt.wantErr {
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParsePackageRequest(t *testing.T) {
	t.Parallel()

	req, err := domain.ParsePackageRequest("flask", "python311Packages")
	require.NoError(t, err)
	assert.Equal(t, domain.PackageRequest{Name: "flask", Version: "latest", Scope: "python311Packages"}, req)
	assert.Equal(t, "python311Packages.flask", req.QualifiedName())
	assert.Equal(t, "python311Packages.flask@latest", req.Spec())

	req, err = domain.ParsePackageRequest(" ollama@0.5.7 ", "")
	require.NoError(t, err)
	assert.Equal(t, "ollama", req.Name)
	assert.Equal(t, "0.5.7", req.Version)
	assert.Equal(t, "ollama", req.QualifiedName())

	for _, bad := range []string{"", "@1.0", "ngrok@", "has space"} {
		_, err := domain.ParsePackageRequest(bad, "")
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidPackageSpec)
	}
}

func TestPackageRef_Installable(t *testing.T) {
	t.Parallel()

	ref := domain.PackageRef{Rev: "abc123", AttrPath: "legacyPackages.x86_64-linux.ngrok"}
	assert.Equal(t, "github:NixOS/nixpkgs/abc123#legacyPackages.x86_64-linux.ngrok", ref.Installable())
}

func TestEnvironmentDescriptor_ID(t *testing.T) {
	t.Parallel()

	desc := &domain.EnvironmentDescriptor{
		Platform: domain.X8664Linux,
		Packages: []domain.PackageRef{
			{Name: "python311", Version: "3.11.9", Rev: "r1", AttrPath: "a.python311"},
			{Name: "flask", Scope: "python311Packages", Version: "3.0.3", Rev: "r1", AttrPath: "a.flask"},
		},
		VenvDir: ".venv",
		Hooks:   domain.Hooks{Activate: []string{"source .venv/bin/activate"}},
	}

	clone := desc.Clone()
	assert.Equal(t, desc, clone)
	assert.Equal(t, desc.ID(), clone.ID())

	clone.Packages[0].Rev = "r2"
	assert.NotEqual(t, desc.ID(), clone.ID())
	assert.Equal(t, "r1", desc.Packages[0].Rev, "clone must not share package storage")

	other := desc.Clone()
	other.Platform = domain.AArch64Darwin
	assert.NotEqual(t, desc.ID(), other.ID())

	assert.Equal(t, []string{"python311", "python311Packages.flask"}, desc.Names())
}

func TestRequestKey(t *testing.T) {
	t.Parallel()

	reqs := []domain.PackageRequest{{Name: "ngrok", Version: "latest"}}
	k1 := domain.RequestKey(domain.X8664Linux, true, reqs, ".venv", domain.Hooks{})
	k2 := domain.RequestKey(domain.X8664Linux, true, reqs, ".venv", domain.Hooks{})
	assert.Equal(t, k1, k2)

	assert.NotEqual(t, k1, domain.RequestKey(domain.X8664Linux, false, reqs, ".venv", domain.Hooks{}))
	assert.NotEqual(t, k1, domain.RequestKey(domain.AArch64Linux, true, reqs, ".venv", domain.Hooks{}))
	assert.NotEqual(t, k1, domain.RequestKey(domain.X8664Linux, true, reqs, "env", domain.Hooks{}))
}

func TestManifest_Validate(t *testing.T) {
	t.Parallel()

	m := &domain.Manifest{
		Packages:         []domain.PackageRequest{{Name: "python311", Version: "latest"}},
		LanguagePackages: []domain.PackageRequest{{Name: "pip", Version: "latest", Scope: "python311Packages"}},
	}
	assert.ErrorIs(t, m.Validate(), domain.ErrMissingLanguage)

	m.Language = "python311"
	require.NoError(t, m.Validate())
	assert.Equal(t, []string{"python311", "python311Packages.pip"}, []string{
		m.Requests()[0].QualifiedName(), m.Requests()[1].QualifiedName(),
	})

	m.Platforms = []domain.Platform{"windows"}
	assert.ErrorIs(t, m.Validate(), domain.ErrUnsupportedPlatform)

	empty := &domain.Manifest{}
	assert.ErrorIs(t, empty.Validate(), domain.ErrNoPackagesRequested)
}

func TestLockfile_PinAndLookup(t *testing.T) {
	t.Parallel()

	lock := domain.NewLockfile()
	req := domain.PackageRequest{Name: "flask", Version: "latest", Scope: "python311Packages"}
	ref := domain.PackageRef{Name: "flask", Scope: "python311Packages", Rev: "r1", AttrPath: "a.flask"}

	_, ok := lock.Lookup(req, domain.X8664Linux)
	assert.False(t, ok)

	lock.PinDescriptors([]domain.PackageRequest{req}, map[domain.Platform]*domain.EnvironmentDescriptor{
		domain.X8664Linux: {Platform: domain.X8664Linux, Packages: []domain.PackageRef{ref}},
	})

	got, ok := lock.Lookup(req, domain.X8664Linux)
	require.True(t, ok)
	assert.Equal(t, ref, got)

	_, ok = lock.Lookup(req, domain.AArch64Darwin)
	assert.False(t, ok)

	var nilLock *domain.Lockfile
	_, ok = nilLock.Lookup(req, domain.X8664Linux)
	assert.False(t, ok)
}
