// Package app implements the application layer for devshell.
package app

import (
	"context"
	"os"
	"runtime"
	"slices"

	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/devshell/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	index        ports.PackageIndex
	lockStore    ports.LockStore
	shells       ports.ShellFactory
	realizer     ports.PackageRealizer
	runner       ports.CommandRunner
	logger       ports.Logger
	configPath   string
	hostPlatform func() (domain.Platform, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	index ports.PackageIndex,
	lockStore ports.LockStore,
	shells ports.ShellFactory,
	realizer ports.PackageRealizer,
	runner ports.CommandRunner,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		index:        index,
		lockStore:    lockStore,
		shells:       shells,
		realizer:     realizer,
		runner:       runner,
		logger:       log,
		hostPlatform: domain.HostPlatform,
	}
}

// SetConfigPath makes the App read the manifest at path instead of discovering it.
func (a *App) SetConfigPath(path string) {
	a.configPath = path
}

// WithHostPlatform overrides host platform detection.
// This is primarily used for testing.
func (a *App) WithHostPlatform(platform domain.Platform) *App {
	a.hostPlatform = func() (domain.Platform, error) { return platform, nil }
	return a
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	// Platform selects a single platform. Empty means the host platform.
	Platform domain.Platform
	// All resolves every platform listed in the manifest.
	All bool
}

// RealizedPackage is a package built into the Nix store.
type RealizedPackage struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	StorePath string `json:"store_path"`
}

// session holds the state shared by the commands of one invocation.
type session struct {
	manifest *domain.Manifest
	resolver *resolver.Resolver
	opts     []resolver.Option
}

func (a *App) newSession(pinned bool) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}

	manifest, err := a.configLoader.Load(cwd, a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	index := a.index
	if pinned {
		lock, err := a.lockStore.Load(manifest.Root)
		if err != nil {
			return nil, err
		}
		index = resolver.PinnedIndex(lock, a.index)
	}

	return &session{
		manifest: manifest,
		resolver: resolver.New(index),
		opts: []resolver.Option{
			resolver.WithVenvDir(manifest.VenvDir),
			resolver.WithHooks(manifest.Hooks),
		},
	}, nil
}

func (s *session) resolve(ctx context.Context, platform domain.Platform) (*domain.EnvironmentDescriptor, error) {
	return s.resolver.Resolve(ctx, platform, s.manifest.AllowUnfree, s.manifest.Requests(), s.opts...)
}

func (a *App) platformOrHost(platform domain.Platform) (domain.Platform, error) {
	if platform != "" {
		return platform, nil
	}
	return a.hostPlatform()
}

// Resolve resolves the manifest for the requested platforms.
// Descriptors are returned in manifest platform order.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) ([]*domain.EnvironmentDescriptor, error) {
	s, err := a.newSession(true)
	if err != nil {
		return nil, err
	}

	if opts.All {
		descs, err := s.resolver.ResolvePlatforms(ctx, s.manifest.Platforms, s.manifest.AllowUnfree, s.manifest.Requests(), s.opts...)
		if err != nil {
			return nil, err
		}
		out := make([]*domain.EnvironmentDescriptor, 0, len(descs))
		for _, p := range s.manifest.Platforms {
			out = append(out, descs[p])
		}
		return out, nil
	}

	platform, err := a.platformOrHost(opts.Platform)
	if err != nil {
		return nil, err
	}
	if platform.IsSupported() && !slices.Contains(s.manifest.Platforms, platform) {
		a.logger.Warn("platform is not listed in the manifest", "platform", platform.String())
	}

	desc, err := s.resolve(ctx, platform)
	if err != nil {
		return nil, err
	}
	return []*domain.EnvironmentDescriptor{desc}, nil
}

// Lock resolves every manifest platform against the live index and writes devshell.lock.
func (a *App) Lock(ctx context.Context) (*domain.Lockfile, error) {
	s, err := a.newSession(false)
	if err != nil {
		return nil, err
	}

	requests := s.manifest.Requests()
	descs, err := s.resolver.ResolvePlatforms(ctx, s.manifest.Platforms, s.manifest.AllowUnfree, requests, s.opts...)
	if err != nil {
		return nil, err
	}

	lock := domain.NewLockfile()
	lock.PinDescriptors(resolver.Dedup(requests), descs)

	if err := a.lockStore.Save(s.manifest.Root, lock); err != nil {
		return nil, err
	}

	a.logger.Info("wrote "+domain.LockFileName, "packages", len(lock.Packages), "platforms", len(s.manifest.Platforms))
	return lock, nil
}

// Expression renders the Nix expression of the environment for platform (host if empty).
func (a *App) Expression(ctx context.Context, platform domain.Platform) (string, error) {
	platform, err := a.platformOrHost(platform)
	if err != nil {
		return "", err
	}

	s, err := a.newSession(true)
	if err != nil {
		return "", err
	}

	desc, err := s.resolve(ctx, platform)
	if err != nil {
		return "", err
	}
	return a.shells.Expression(desc), nil
}

// Environment realizes the host environment and returns its variables as "KEY=VALUE" lines.
func (a *App) Environment(ctx context.Context) ([]string, error) {
	_, env, err := a.hostEnvironment(ctx)
	return env, err
}

// Hook returns a POSIX shell script that exports the host environment and runs its hooks.
func (a *App) Hook(ctx context.Context) (string, error) {
	desc, env, err := a.hostEnvironment(ctx)
	if err != nil {
		return "", err
	}
	return renderHook(env, desc.Hooks), nil
}

func (a *App) hostEnvironment(ctx context.Context) (*domain.EnvironmentDescriptor, []string, error) {
	platform, err := a.hostPlatform()
	if err != nil {
		return nil, nil, err
	}

	s, err := a.newSession(true)
	if err != nil {
		return nil, nil, err
	}

	desc, err := s.resolve(ctx, platform)
	if err != nil {
		return nil, nil, err
	}

	env, err := a.shells.GetEnvironment(ctx, desc)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to realize environment")
	}
	return desc, env, nil
}

// Run executes command inside the host environment.
// Setup and activate hooks run first in a POSIX shell that then execs the command.
func (a *App) Run(ctx context.Context, command []string) error {
	if len(command) == 0 {
		return domain.ErrNoCommand
	}

	desc, env, err := a.hostEnvironment(ctx)
	if err != nil {
		return err
	}

	return a.runner.Run(ctx, wrapWithHooks(command, desc.Hooks), env)
}

// Realize builds every package of the host environment and returns their store paths
// in descriptor order.
func (a *App) Realize(ctx context.Context) ([]RealizedPackage, error) {
	platform, err := a.hostPlatform()
	if err != nil {
		return nil, err
	}

	s, err := a.newSession(true)
	if err != nil {
		return nil, err
	}

	desc, err := s.resolve(ctx, platform)
	if err != nil {
		return nil, err
	}

	out := make([]RealizedPackage, len(desc.Packages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, ref := range desc.Packages {
		g.Go(func() error {
			storePath, err := a.realizer.Realize(gctx, ref)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to realize package"), "package", ref.QualifiedName())
			}
			out[i] = RealizedPackage{Name: ref.QualifiedName(), Version: ref.Version, StorePath: storePath}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
