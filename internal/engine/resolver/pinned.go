package resolver

import (
	"context"

	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
)

// pinnedIndex answers lookups from a lockfile and falls back to the wrapped index.
type pinnedIndex struct {
	lock  *domain.Lockfile
	inner ports.PackageIndex
}

// PinnedIndex decorates inner with the pins recorded in lock.
// A nil lock returns inner unchanged.
func PinnedIndex(lock *domain.Lockfile, inner ports.PackageIndex) ports.PackageIndex {
	if lock == nil {
		return inner
	}
	return &pinnedIndex{lock: lock, inner: inner}
}

func (p *pinnedIndex) Lookup(
	ctx context.Context,
	platform domain.Platform,
	req domain.PackageRequest,
) (domain.PackageRef, error) {
	if ref, ok := p.lock.Lookup(req, platform); ok {
		return ref, nil
	}
	return p.inner.Lookup(ctx, platform, req)
}
