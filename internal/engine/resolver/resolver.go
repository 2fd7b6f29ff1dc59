// Package resolver turns package requests into per-platform environment descriptors.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Resolver resolves package requests against a package index.
// Resolutions are memoized for the lifetime of the Resolver.
type Resolver struct {
	index       ports.PackageIndex
	parallelism int

	mu    sync.RWMutex
	cache map[string]*domain.EnvironmentDescriptor
	group singleflight.Group
}

// New creates a Resolver over the given package index.
func New(index ports.PackageIndex) *Resolver {
	return &Resolver{
		index:       index,
		parallelism: runtime.NumCPU(),
		cache:       make(map[string]*domain.EnvironmentDescriptor),
	}
}

// Resolve produces the environment descriptor of requests on platform.
//
// Duplicate requests (same qualified name) are dropped, keeping the first
// occurrence. Packages appear in the descriptor in request order. Unfree
// packages fail with domain.ErrLicenseRestricted unless allowUnfree is set.
func (r *Resolver) Resolve(
	ctx context.Context,
	platform domain.Platform,
	allowUnfree bool,
	requests []domain.PackageRequest,
	opts ...Option,
) (*domain.EnvironmentDescriptor, error) {
	if !platform.IsSupported() {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "cannot resolve environment"), "platform", platform.String())
	}
	if len(requests) == 0 {
		return nil, domain.ErrNoPackagesRequested
	}

	o := applyOptions(opts)
	unique := Dedup(requests)
	key := domain.RequestKey(platform, allowUnfree, unique, o.venvDir, o.hooks)

	if desc, ok := r.cached(key); ok {
		return desc.Clone(), nil
	}

	// The shared resolution runs detached from any one caller; each caller
	// stops waiting when its own context ends.
	flight := r.group.DoChan(key, func() (any, error) {
		if desc, ok := r.cached(key); ok {
			return desc, nil
		}
		desc, err := r.resolve(context.WithoutCancel(ctx), platform, allowUnfree, unique, o)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[key] = desc
		r.mu.Unlock()
		return desc, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, zerr.With(zerr.Wrap(ctx.Err(), "environment resolution canceled"), "platform", platform.String())
	case res = <-flight:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	desc, ok := res.Val.(*domain.EnvironmentDescriptor)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight: %T", res.Val)
	}
	return desc.Clone(), nil
}

// ResolveAll resolves requests for every supported platform in parallel.
// It fails as a whole on the first error.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	allowUnfree bool,
	requests []domain.PackageRequest,
	opts ...Option,
) (map[domain.Platform]*domain.EnvironmentDescriptor, error) {
	return r.ResolvePlatforms(ctx, domain.SupportedPlatforms(), allowUnfree, requests, opts...)
}

// ResolvePlatforms resolves requests for each of platforms in parallel.
// It fails as a whole on the first error.
func (r *Resolver) ResolvePlatforms(
	ctx context.Context,
	platforms []domain.Platform,
	allowUnfree bool,
	requests []domain.PackageRequest,
	opts ...Option,
) (map[domain.Platform]*domain.EnvironmentDescriptor, error) {
	for _, p := range platforms {
		if !p.IsSupported() {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "cannot resolve environment"), "platform", p.String())
		}
	}

	results := make([]*domain.EnvironmentDescriptor, len(platforms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, p := range platforms {
		g.Go(func() error {
			desc, err := r.Resolve(gctx, p, allowUnfree, requests, opts...)
			if err != nil {
				return err
			}
			results[i] = desc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[domain.Platform]*domain.EnvironmentDescriptor, len(platforms))
	for i, p := range platforms {
		out[p] = results[i]
	}
	return out, nil
}

// Dedup removes requests whose qualified name was already seen, keeping first-occurrence order.
func Dedup(requests []domain.PackageRequest) []domain.PackageRequest {
	seen := make(map[string]struct{}, len(requests))
	out := make([]domain.PackageRequest, 0, len(requests))
	for _, req := range requests {
		name := req.QualifiedName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if req.Version == "" {
			req.Version = domain.LatestVersion
		}
		out = append(out, req)
	}
	return out
}

func (r *Resolver) cached(key string) (*domain.EnvironmentDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.cache[key]
	return desc, ok
}

func (r *Resolver) resolve(
	ctx context.Context,
	platform domain.Platform,
	allowUnfree bool,
	requests []domain.PackageRequest,
	o options,
) (*domain.EnvironmentDescriptor, error) {
	refs := make([]domain.PackageRef, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, req := range requests {
		g.Go(func() error {
			ref, err := r.index.Lookup(gctx, platform, req)
			if err != nil {
				return classify(err, platform, req)
			}
			if ref.Unfree && !allowUnfree {
				err := zerr.With(zerr.Wrap(domain.ErrLicenseRestricted, "cannot add package"), "package", req.QualifiedName())
				return zerr.With(err, "platform", platform.String())
			}
			refs[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	hooks := DefaultHooks(requests, o.venvDir)
	hooks.Setup = append(hooks.Setup, o.hooks.Setup...)
	hooks.Activate = append(hooks.Activate, o.hooks.Activate...)

	return &domain.EnvironmentDescriptor{
		Platform: platform,
		Packages: refs,
		VenvDir:  o.venvDir,
		Hooks:    hooks,
	}, nil
}

// classify keeps the known error kinds and folds everything else into domain.ErrExternalResolution.
func classify(err error, platform domain.Platform, req domain.PackageRequest) error {
	switch {
	case errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrUnsupportedPlatform),
		errors.Is(err, domain.ErrLicenseRestricted),
		errors.Is(err, domain.ErrExternalResolution):
	default:
		err = fmt.Errorf("%w: %w", domain.ErrExternalResolution, err)
	}
	err = zerr.With(zerr.Wrap(err, "package lookup failed"), "package", req.Spec())
	return zerr.With(err, "platform", platform.String())
}
