package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// LatestVersion is the version requested when a package spec carries none.
const LatestVersion = "latest"

// PackageRequest represents a user's intent to have a package in the environment.
// This is the input representation before resolution (e.g., from devshell.yaml).
type PackageRequest struct {
	// Name is the package name as requested by the user (e.g., "flask").
	Name string `json:"name"`

	// Version is the requested version constraint (e.g., "3.0.0", "latest").
	Version string `json:"version"`

	// Scope is the language package set the package belongs to (e.g., "python311Packages").
	// Empty for top-level packages.
	Scope string `json:"scope,omitempty"`
}

// ParsePackageRequest parses a "name" or "name@version" spec under the given scope.
func ParsePackageRequest(spec, scope string) (PackageRequest, error) {
	spec = strings.TrimSpace(spec)
	name, version, hasVersion := strings.Cut(spec, "@")
	if name == "" || (hasVersion && version == "") || strings.ContainsAny(name, " \t\"") {
		return PackageRequest{}, zerr.With(zerr.Wrap(ErrInvalidPackageSpec, "cannot parse package"), "spec", spec)
	}
	if !hasVersion {
		version = LatestVersion
	}
	return PackageRequest{Name: name, Version: version, Scope: scope}, nil
}

// QualifiedName returns the attribute-style name used to identify the package in the index.
func (r PackageRequest) QualifiedName() string {
	if r.Scope == "" {
		return r.Name
	}
	return r.Scope + "." + r.Name
}

// Spec returns the "qualifiedName@version" form of the request.
func (r PackageRequest) Spec() string {
	version := r.Version
	if version == "" {
		version = LatestVersion
	}
	return r.QualifiedName() + "@" + version
}

// PackageRef is a package resolved against the index for a single platform.
type PackageRef struct {
	// Name is the package name as requested.
	Name string `json:"name"`

	// Scope is the language package set, if any.
	Scope string `json:"scope,omitempty"`

	// Version is the concrete version the index resolved to.
	Version string `json:"version"`

	// Rev is the nixpkgs commit pinning the package.
	Rev string `json:"rev"`

	// AttrPath is the flake attribute path of the package (e.g., "legacyPackages.x86_64-linux.ngrok").
	AttrPath string `json:"attr_path"`

	// StorePath is the default output's store path when the index knows it.
	StorePath string `json:"store_path,omitempty"`

	// Unfree marks packages whose license is not free.
	Unfree bool `json:"unfree"`
}

// QualifiedName returns the attribute-style name of the resolved package.
func (p PackageRef) QualifiedName() string {
	if p.Scope == "" {
		return p.Name
	}
	return p.Scope + "." + p.Name
}

// Installable returns the flake installable reference for the package.
func (p PackageRef) Installable() string {
	return "github:NixOS/nixpkgs/" + p.Rev + "#" + p.AttrPath
}
