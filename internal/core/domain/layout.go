package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal project state directory.
	StateDirName = ".devshell"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// NixHubDirName is the name of the NixHub cache directory.
	NixHubDirName = "nixhub"

	// LicenseDirName is the name of the license probe cache directory.
	LicenseDirName = "licenses"

	// EnvDirName is the name of the environment cache directory.
	EnvDirName = "environments"

	// ManifestFileName is the name of the YAML manifest.
	ManifestFileName = "devshell.yaml"

	// ManifestTOMLFileName is the name of the TOML manifest.
	ManifestTOMLFileName = "devshell.toml"

	// LockFileName is the name of the lockfile written next to the manifest.
	LockFileName = "devshell.lock"

	// SettingsFileName is the base name of the optional settings file inside the state directory.
	SettingsFileName = "config"

	// DefaultVenvDir is the virtual environment directory used when the manifest does not set one.
	DefaultVenvDir = ".venv"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCachePath returns the default cache root.
// It joins .devshell and cache.
func DefaultCachePath() string {
	return filepath.Join(StateDirName, CacheDirName)
}

// NixHubCachePath returns the NixHub cache directory below cacheRoot.
func NixHubCachePath(cacheRoot string) string {
	return filepath.Join(cacheRoot, NixHubDirName)
}

// LicenseCachePath returns the license probe cache directory below cacheRoot.
func LicenseCachePath(cacheRoot string) string {
	return filepath.Join(cacheRoot, LicenseDirName)
}

// EnvCachePath returns the environment cache directory below cacheRoot.
func EnvCachePath(cacheRoot string) string {
	return filepath.Join(cacheRoot, EnvDirName)
}
