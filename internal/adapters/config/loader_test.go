package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devshell/internal/adapters/config"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const scenarioYAML = `
description: "Video recommendation service"
platforms: [x86_64-linux, aarch64-linux, x86_64-darwin, aarch64-darwin]
allowUnfreeLicenses: true
packages: [python311, ngrok, ollama]
language: python311
languagePackages: [pip, scikit-learn, flask@3.0.3]
hooks:
  setup: ["echo ready"]
`

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any(), "dir", gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoader_Load_YAML(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ManifestFileName, scenarioYAML)

	m, err := newLoader(t).Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "Video recommendation service", m.Description)
	assert.Equal(t, domain.SupportedPlatforms(), m.Platforms)
	assert.True(t, m.AllowUnfree)
	assert.Equal(t, []domain.PackageRequest{
		{Name: "python311", Version: "latest"},
		{Name: "ngrok", Version: "latest"},
		{Name: "ollama", Version: "latest"},
	}, m.Packages)
	assert.Equal(t, []domain.PackageRequest{
		{Name: "pip", Version: "latest", Scope: "python311Packages"},
		{Name: "scikit-learn", Version: "latest", Scope: "python311Packages"},
		{Name: "flask", Version: "3.0.3", Scope: "python311Packages"},
	}, m.LanguagePackages)
	assert.Equal(t, ".venv", m.VenvDir)
	assert.Equal(t, []string{"echo ready"}, m.Hooks.Setup)
	assert.Empty(t, m.Hooks.Activate)
	assert.Equal(t, dir, m.Root)
	assert.Len(t, m.Requests(), 6)
}

func TestLoader_Load_TOML(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ManifestTOMLFileName, `
platforms = ["aarch64-darwin"]
packages = ["hello@2.12.1"]
venvDir = "env"

[hooks]
activate = ["echo hi"]
`)

	m, err := newLoader(t).Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, []domain.Platform{domain.AArch64Darwin}, m.Platforms)
	assert.False(t, m.AllowUnfree)
	assert.Equal(t, []domain.PackageRequest{{Name: "hello", Version: "2.12.1"}}, m.Packages)
	assert.Equal(t, "env", m.VenvDir)
	assert.Equal(t, []string{"echo hi"}, m.Hooks.Activate)
}

func TestLoader_Load_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "other.yaml", "packages: [jq]\n")

	m, err := newLoader(t).Load(dir, "other.yaml")
	require.NoError(t, err)
	assert.Equal(t, []domain.PackageRequest{{Name: "jq", Version: "latest"}}, m.Packages)

	_, err = newLoader(t).Load(dir, "missing.yaml")
	assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
}

func TestLoader_Load_Discovery(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ManifestFileName, "packages: [jq]\n")

	deep := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(deep, domain.DirPerm))

	m, err := newLoader(t).Load(deep, "")
	require.NoError(t, err)
	assert.Equal(t, root, m.Root)
}

func TestLoader_Load_PrefersYAML(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ManifestFileName, "packages: [from-yaml]\n")
	createFile(t, dir, domain.ManifestTOMLFileName, "packages = [\"from-toml\"]\n")

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("found both devshell.yaml and devshell.toml, using devshell.yaml", "dir", dir).Times(1)

	m, err := config.NewLoader(mockLogger).Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", m.Packages[0].Name)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"Malformed", "packages: [unterminated\n", domain.ErrConfigParseFailed},
		{"Empty", "description: nothing\n", domain.ErrNoPackagesRequested},
		{"MissingLanguage", "languagePackages: [flask]\n", domain.ErrMissingLanguage},
		{"UnknownPlatform", "platforms: [windows]\npackages: [jq]\n", domain.ErrUnsupportedPlatform},
		{"InvalidSpec", "packages: [\"jq@\"]\n", domain.ErrInvalidPackageSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := createFile(t, dir, domain.ManifestFileName, tt.content)

			_, err := newLoader(t).Load(dir, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, path, zErr.Metadata()["path"])
		})
	}
}

func TestLoader_Load_NotFound(t *testing.T) {
	_, err := newLoader(t).Load(t.TempDir(), "")
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}
