package nix

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
)

// unfreeApply reads meta.unfree and treats packages without license metadata as free.
const unfreeApply = "meta: meta.unfree or false"

// LicenseProbe implements ports.LicenseProbe by evaluating package metadata with the Nix CLI.
type LicenseProbe struct {
	cacheDir string
	run      runFunc
}

// NewLicenseProbe creates a LicenseProbe caching results below the settings cache directory.
func NewLicenseProbe(settings domain.Settings) (*LicenseProbe, error) {
	return newLicenseProbe(domain.LicenseCachePath(settings.CacheDir), runNix)
}

func newLicenseProbe(cacheDir string, run runFunc) (*LicenseProbe, error) {
	cleanPath := filepath.Clean(cacheDir)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrNixCacheCreateFailed.Error())
	}
	return &LicenseProbe{cacheDir: cleanPath, run: run}, nil
}

// IsUnfree reports whether the package at ref has an unfree license.
func (l *LicenseProbe) IsUnfree(ctx context.Context, ref domain.PackageRef) (bool, error) {
	installable := ref.Installable()
	cachePath := filepath.Join(l.cacheDir, getHash(installable)+".json")

	var entry licenseEntry
	if err := readJSON(cachePath, &entry); err == nil {
		return entry.Unfree, nil
	}

	out, err := l.run(ctx, nil, "eval", "--json", installable+".meta", "--apply", unfreeApply)
	if err != nil {
		return false, zerr.With(cliError(domain.ErrNixEvalFailed, err), "installable", installable)
	}

	unfree, err := parseUnfree(out)
	if err != nil {
		return false, zerr.With(err, "installable", installable)
	}

	_ = writeJSON(cachePath, licenseEntry{Installable: installable, Unfree: unfree})

	return unfree, nil
}

func parseUnfree(out []byte) (bool, error) {
	switch string(bytes.TrimSpace(out)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, zerr.With(zerr.Wrap(domain.ErrNixEvalFailed, "unexpected meta.unfree value"), "output", string(out))
	}
}

var _ ports.LicenseProbe = (*LicenseProbe)(nil)
