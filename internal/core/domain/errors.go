package domain

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedPlatform is returned when a platform is not one of the supported systems.
	ErrUnsupportedPlatform = zerr.New("unsupported platform")

	// ErrLicenseRestricted is returned when an unfree package is requested without permission.
	ErrLicenseRestricted = zerr.New("package has an unfree license and unfree licenses are not allowed")

	// ErrPackageNotFound is returned when a requested package does not exist in the package index.
	ErrPackageNotFound = zerr.New("package not found in package index")

	// ErrExternalResolution is returned when the package index or Nix fails for any other reason.
	ErrExternalResolution = zerr.New("external package resolution failed")

	// ErrNoPackagesRequested is returned when a resolution is attempted with an empty request list.
	ErrNoPackagesRequested = zerr.New("no packages requested")

	// ErrInvalidPackageSpec is returned when a package specification cannot be parsed.
	ErrInvalidPackageSpec = zerr.New("invalid package specification, expected format: name or name@version")

	// ErrMissingLanguage is returned when language packages are declared without a language.
	ErrMissingLanguage = zerr.New("languagePackages requires a language")

	// ErrConfigReadFailed is returned when the manifest cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read manifest")

	// ErrConfigParseFailed is returned when the manifest cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse manifest")

	// ErrConfigNotFound is returned when no manifest can be found.
	ErrConfigNotFound = zerr.New("could not find devshell.yaml or devshell.toml")

	// ErrSettingsLoadFailed is returned when the tool settings cannot be loaded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")

	// ErrLockfileReadFailed is returned when the lockfile cannot be read.
	ErrLockfileReadFailed = zerr.New("failed to read lockfile")

	// ErrLockfileParseFailed is returned when the lockfile cannot be parsed.
	ErrLockfileParseFailed = zerr.New("failed to parse lockfile")

	// ErrLockfileWriteFailed is returned when the lockfile cannot be written.
	ErrLockfileWriteFailed = zerr.New("failed to write lockfile")

	// ErrUnsupportedLockfileVersion is returned when the lockfile has an unknown format version.
	ErrUnsupportedLockfileVersion = zerr.New("unsupported lockfile version")

	// Nix adapter failures below wrap ErrExternalResolution.

	// ErrNixCacheCreateFailed is returned when the Nix cache directory cannot be created.
	ErrNixCacheCreateFailed = zerr.Wrap(ErrExternalResolution, "failed to create Nix cache directory")

	// ErrNixCacheReadFailed is returned when reading from the Nix cache fails.
	ErrNixCacheReadFailed = zerr.Wrap(ErrExternalResolution, "failed to read from Nix cache")

	// ErrNixCacheWriteFailed is returned when writing to the Nix cache fails.
	ErrNixCacheWriteFailed = zerr.Wrap(ErrExternalResolution, "failed to write to Nix cache")

	// ErrNixCacheMarshalFailed is returned when marshaling Nix cache data fails.
	ErrNixCacheMarshalFailed = zerr.Wrap(ErrExternalResolution, "failed to marshal Nix cache data")

	// ErrNixCacheUnmarshalFailed is returned when unmarshaling Nix cache data fails.
	ErrNixCacheUnmarshalFailed = zerr.Wrap(ErrExternalResolution, "failed to unmarshal Nix cache data")

	// ErrNixAPIRequestFailed is returned when a NixHub API request fails.
	ErrNixAPIRequestFailed = zerr.Wrap(ErrExternalResolution, "failed to make NixHub API request")

	// ErrNixAPIParseFailed is returned when parsing a NixHub API response fails.
	ErrNixAPIParseFailed = zerr.Wrap(ErrExternalResolution, "failed to parse NixHub API response")

	// ErrNixEvalFailed is returned when evaluating package metadata via the Nix CLI fails.
	ErrNixEvalFailed = zerr.Wrap(ErrExternalResolution, "failed to evaluate package metadata via Nix")

	// ErrNixInstallFailed is returned when building a package via the Nix CLI fails.
	ErrNixInstallFailed = zerr.Wrap(ErrExternalResolution, "failed to build package via Nix")

	// ErrNixShellFailed is returned when nix print-dev-env fails.
	ErrNixShellFailed = zerr.Wrap(ErrExternalResolution, "failed to realize shell environment via Nix")

	// ErrInvalidStorePath is returned when Nix reports a path outside the store layout.
	ErrInvalidStorePath = zerr.Wrap(ErrExternalResolution, "invalid Nix store path")

	// ErrNoCommand is returned when run is invoked without a command.
	ErrNoCommand = zerr.New("no command specified")

	// ErrCommandFailed is returned when a command run inside the environment fails.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCacheMiss is returned when a requested item is not found in the cache.
	ErrCacheMiss = zerr.New("cache miss")
)
