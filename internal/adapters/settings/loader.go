// Package settings loads tool-level settings from the environment and an optional settings file.
package settings

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix is the prefix of the environment variables overriding settings (e.g., DEVSHELL_CACHE_DIR).
const EnvPrefix = "DEVSHELL"

// fileSettings mirrors the keys of .devshell/config.toml.
type fileSettings struct {
	CacheDir    string        `mapstructure:"cache_dir"`
	IndexURL    string        `mapstructure:"index_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	HTTPRetries int           `mapstructure:"http_retries"`
	JSONLogs    bool          `mapstructure:"json_logs"`
}

// Load reads settings for the project rooted at dir.
// Precedence: environment variables, then dir/.devshell/config.toml, then defaults.
// A relative cache_dir is resolved against dir.
func Load(dir string) (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	v := viper.New()
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("index_url", defaults.IndexURL)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)
	v.SetDefault("http_retries", defaults.HTTPRetries)
	v.SetDefault("json_logs", defaults.JSONLogs)

	v.SetConfigName(domain.SettingsFileName)
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(dir, domain.StateDirName))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return domain.Settings{}, zerr.Wrap(domain.ErrSettingsLoadFailed, err.Error())
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var fs fileSettings
	if err := v.Unmarshal(&fs); err != nil {
		return domain.Settings{}, zerr.Wrap(domain.ErrSettingsLoadFailed, err.Error())
	}

	if fs.HTTPTimeout <= 0 {
		return domain.Settings{}, zerr.With(zerr.Wrap(domain.ErrSettingsLoadFailed, "http_timeout must be positive"), "http_timeout", fs.HTTPTimeout.String())
	}

	if fs.HTTPRetries < 0 {
		return domain.Settings{}, zerr.With(zerr.Wrap(domain.ErrSettingsLoadFailed, "http_retries must not be negative"), "http_retries", fs.HTTPRetries)
	}

	cacheDir := fs.CacheDir
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(dir, cacheDir)
	}

	return domain.Settings{
		CacheDir:    cacheDir,
		IndexURL:    fs.IndexURL,
		HTTPTimeout: fs.HTTPTimeout,
		HTTPRetries: fs.HTTPRetries,
		JSONLogs:    fs.JSONLogs,
	}, nil
}
