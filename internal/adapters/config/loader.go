// Package config provides the manifest loader for devshell.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader for YAML and TOML manifests.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the manifest at path, or discovers it upward from cwd when path is empty.
func (l *Loader) Load(cwd, path string) (*domain.Manifest, error) {
	if path == "" {
		found, err := l.findManifest(cwd)
		if err != nil {
			return nil, err
		}
		path = found
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	var file Manifest
	if err := readAndUnmarshal(path, &file); err != nil {
		return nil, err
	}

	manifest, err := buildManifest(&file, filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid manifest"), "path", path)
	}
	return manifest, nil
}

func (l *Loader) findManifest(cwd string) (string, error) {
	currentDir := cwd

	for {
		yamlPath := filepath.Join(currentDir, domain.ManifestFileName)
		tomlPath := filepath.Join(currentDir, domain.ManifestTOMLFileName)

		_, yamlErr := os.Stat(yamlPath)
		_, tomlErr := os.Stat(tomlPath)

		switch {
		case yamlErr == nil && tomlErr == nil:
			l.Logger.Warn("found both "+domain.ManifestFileName+" and "+domain.ManifestTOMLFileName+", using "+domain.ManifestFileName,
				"dir", currentDir)
			return yamlPath, nil
		case yamlErr == nil:
			return yamlPath, nil
		case tomlErr == nil:
			return tomlPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no manifest found"), "cwd", cwd)
}

func buildManifest(file *Manifest, root string) (*domain.Manifest, error) {
	packages, err := parseRequests(file.Packages, "")
	if err != nil {
		return nil, err
	}

	languagePackages, err := parseRequests(file.LanguagePackages, domain.LanguageScope(file.Language))
	if err != nil {
		return nil, err
	}

	platforms := domain.SupportedPlatforms()
	if len(file.Platforms) > 0 {
		platforms = make([]domain.Platform, len(file.Platforms))
		for i, p := range file.Platforms {
			platforms[i] = domain.Platform(p)
		}
	}

	venvDir := file.VenvDir
	if venvDir == "" {
		venvDir = domain.DefaultVenvDir
	}

	manifest := &domain.Manifest{
		Description:      file.Description,
		Platforms:        platforms,
		AllowUnfree:      file.AllowUnfree,
		Packages:         packages,
		Language:         file.Language,
		LanguagePackages: languagePackages,
		VenvDir:          venvDir,
		Hooks: domain.Hooks{
			Setup:    slices.Clone(file.Hooks.Setup),
			Activate: slices.Clone(file.Hooks.Activate),
		},
		Root: root,
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func parseRequests(specs []string, scope string) ([]domain.PackageRequest, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	requests := make([]domain.PackageRequest, 0, len(specs))
	for _, spec := range specs {
		req, err := domain.ParsePackageRequest(spec, scope)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// readAndUnmarshal reads a manifest and decodes it according to its extension.
func readAndUnmarshal(path string, target *Manifest) error {
	// #nosec G304 -- path is discovered or provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var parseErr error
	if filepath.Ext(path) == ".toml" {
		parseErr = toml.Unmarshal(data, target)
	} else {
		parseErr = yaml.Unmarshal(data, target)
	}
	if parseErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error()), "path", path)
	}
	return nil
}

var _ ports.ConfigLoader = (*Loader)(nil)
