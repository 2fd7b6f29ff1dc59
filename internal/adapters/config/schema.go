package config

// Manifest represents the structure of the devshell.yaml and devshell.toml files.
type Manifest struct {
	Description      string   `yaml:"description" toml:"description"`
	Platforms        []string `yaml:"platforms" toml:"platforms"`
	AllowUnfree      bool     `yaml:"allowUnfreeLicenses" toml:"allowUnfreeLicenses"`
	Packages         []string `yaml:"packages" toml:"packages"`
	Language         string   `yaml:"language" toml:"language"`
	LanguagePackages []string `yaml:"languagePackages" toml:"languagePackages"`
	VenvDir          string   `yaml:"venvDir" toml:"venvDir"`
	Hooks            HooksDTO `yaml:"hooks" toml:"hooks"`
}

// HooksDTO represents the hooks section of the manifest.
type HooksDTO struct {
	Setup    []string `yaml:"setup" toml:"setup"`
	Activate []string `yaml:"activate" toml:"activate"`
}
