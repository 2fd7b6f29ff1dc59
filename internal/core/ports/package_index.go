// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/devshell/internal/core/domain"
)

// PackageIndex looks packages up in an external package database.
//
// Implementations must return an error wrapping domain.ErrPackageNotFound when the
// package does not exist for the platform, and an error wrapping
// domain.ErrExternalResolution for any other failure.
//
//go:generate go run go.uber.org/mock/mockgen -source=package_index.go -destination=mocks/mock_package_index.go -package=mocks
type PackageIndex interface {
	// Lookup resolves a request to a concrete package reference for the given platform.
	Lookup(ctx context.Context, platform domain.Platform, req domain.PackageRequest) (domain.PackageRef, error)
}

// LicenseProbe reports license classification of resolved packages.
type LicenseProbe interface {
	// IsUnfree reports whether the package at ref is distributed under an unfree license.
	IsUnfree(ctx context.Context, ref domain.PackageRef) (bool, error)
}
