package domain

import (
	"runtime"

	"go.trai.ch/zerr"
)

// Platform is a Nix system identifier naming an operating-system/architecture pair.
type Platform string

// Supported platforms.
const (
	X8664Linux    Platform = "x86_64-linux"
	AArch64Linux  Platform = "aarch64-linux"
	X8664Darwin   Platform = "x86_64-darwin"
	AArch64Darwin Platform = "aarch64-darwin"
)

var supportedPlatforms = []Platform{
	X8664Linux,
	AArch64Linux,
	X8664Darwin,
	AArch64Darwin,
}

// SupportedPlatforms returns every supported platform in canonical order.
func SupportedPlatforms() []Platform {
	out := make([]Platform, len(supportedPlatforms))
	copy(out, supportedPlatforms)
	return out
}

// String returns the Nix system string.
func (p Platform) String() string {
	return string(p)
}

// IsSupported reports whether p is a member of the supported platform set.
func (p Platform) IsSupported() bool {
	for _, s := range supportedPlatforms {
		if s == p {
			return true
		}
	}
	return false
}

// ParsePlatform validates a system string.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.IsSupported() {
		return "", zerr.With(zerr.Wrap(ErrUnsupportedPlatform, "invalid platform"), "platform", s)
	}
	return p, nil
}

// HostPlatform returns the platform of the running process.
func HostPlatform() (Platform, error) {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}

// PlatformFor maps Go's GOOS/GOARCH pair to a Nix system string.
func PlatformFor(goos, goarch string) (Platform, error) {
	switch {
	case goos == "linux" && goarch == "amd64":
		return X8664Linux, nil
	case goos == "linux" && goarch == "arm64":
		return AArch64Linux, nil
	case goos == "darwin" && goarch == "amd64":
		return X8664Darwin, nil
	case goos == "darwin" && goarch == "arm64":
		return AArch64Darwin, nil
	default:
		err := zerr.With(zerr.Wrap(ErrUnsupportedPlatform, "unsupported host"), "goos", goos)
		return "", zerr.With(err, "goarch", goarch)
	}
}
