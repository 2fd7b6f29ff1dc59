package resolver_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports/mocks"
	"go.trai.ch/devshell/internal/engine/resolver"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func fakeLookup(unfree ...string) func(context.Context, domain.Platform, domain.PackageRequest) (domain.PackageRef, error) {
	restricted := make(map[string]bool, len(unfree))
	for _, name := range unfree {
		restricted[name] = true
	}
	return func(_ context.Context, p domain.Platform, req domain.PackageRequest) (domain.PackageRef, error) {
		return domain.PackageRef{
			Name:     req.Name,
			Scope:    req.Scope,
			Version:  "1.0.0",
			Rev:      "rev-" + p.String(),
			AttrPath: "legacyPackages." + p.String() + "." + req.QualifiedName(),
			Unfree:   restricted[req.QualifiedName()],
		}, nil
	}
}

func scenarioRequests() []domain.PackageRequest {
	return []domain.PackageRequest{
		{Name: "python311", Version: "latest"},
		{Name: "ngrok", Version: "latest"},
		{Name: "ollama", Version: "latest"},
		{Name: "pip", Version: "latest", Scope: "python311Packages"},
		{Name: "scikit-learn", Version: "latest", Scope: "python311Packages"},
		{Name: "flask", Version: "latest", Scope: "python311Packages"},
	}
}

func TestResolve_Scenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), domain.X8664Linux, gomock.Any()).
		DoAndReturn(fakeLookup("ngrok")).Times(6)

	r := resolver.New(index)
	desc, err := r.Resolve(context.Background(), domain.X8664Linux, true, scenarioRequests())
	require.NoError(t, err)

	assert.Equal(t, domain.X8664Linux, desc.Platform)
	assert.Equal(t, ".venv", desc.VenvDir)
	assert.Equal(t, []string{
		"python311",
		"ngrok",
		"ollama",
		"python311Packages.pip",
		"python311Packages.scikit-learn",
		"python311Packages.flask",
	}, desc.Names())
	assert.True(t, desc.Packages[1].Unfree)
	assert.Equal(t, resolver.DefaultHooks(scenarioRequests(), ".venv"), desc.Hooks)
}

func TestResolve_UnsupportedPlatform(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)

	r := resolver.New(index)
	_, err := r.Resolve(context.Background(), domain.Platform("windows"), true, scenarioRequests())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "windows", zErr.Metadata()["platform"])
}

func TestResolve_NoRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := resolver.New(mocks.NewMockPackageIndex(ctrl))

	_, err := r.Resolve(context.Background(), domain.X8664Linux, false, nil)
	assert.ErrorIs(t, err, domain.ErrNoPackagesRequested)
}

func TestResolve_Deduplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), domain.AArch64Darwin, gomock.Any()).
		DoAndReturn(fakeLookup()).Times(3)

	reqs := []domain.PackageRequest{
		{Name: "ngrok", Version: "latest"},
		{Name: "python311", Version: "latest"},
		{Name: "ngrok", Version: "3.0.0"},
		{Name: "flask", Version: "latest", Scope: "python311Packages"},
		{Name: "python311", Version: "latest"},
	}

	desc, err := resolver.New(index).Resolve(context.Background(), domain.AArch64Darwin, false, reqs)
	require.NoError(t, err)
	assert.Equal(t, []string{"ngrok", "python311", "python311Packages.flask"}, desc.Names())
}

func TestDedup_ScopeDistinguishesPackages(t *testing.T) {
	t.Parallel()

	got := resolver.Dedup([]domain.PackageRequest{
		{Name: "pip"},
		{Name: "pip", Scope: "python311Packages"},
		{Name: "pip", Scope: "python311Packages", Version: "24.0"},
	})
	assert.Equal(t, []domain.PackageRequest{
		{Name: "pip", Version: "latest"},
		{Name: "pip", Version: "latest", Scope: "python311Packages"},
	}, got)
}

func TestResolve_LicenseRestricted(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeLookup("ngrok")).AnyTimes()

	r := resolver.New(index)
	reqs := []domain.PackageRequest{{Name: "python311", Version: "latest"}, {Name: "ngrok", Version: "latest"}}

	_, err := r.Resolve(context.Background(), domain.X8664Linux, false, reqs)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLicenseRestricted)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "ngrok", zErr.Metadata()["package"])
	assert.Equal(t, "x86_64-linux", zErr.Metadata()["platform"])

	desc, err := r.Resolve(context.Background(), domain.X8664Linux, true, reqs)
	require.NoError(t, err)
	assert.Len(t, desc.Packages, 2)
}

func TestResolve_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"not found", zerr.Wrap(domain.ErrPackageNotFound, "missing"), domain.ErrPackageNotFound},
		{"nix api", zerr.With(zerr.Wrap(domain.ErrNixAPIRequestFailed, "boom"), "status_code", 500), domain.ErrExternalResolution},
		{"foreign", errors.New("connection refused"), domain.ErrExternalResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			index := mocks.NewMockPackageIndex(ctrl)
			index.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.PackageRef{}, tt.err)

			_, err := resolver.New(index).Resolve(
				context.Background(), domain.X8664Linux, true,
				[]domain.PackageRequest{{Name: "ollama", Version: "latest"}},
			)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.NotErrorIs(t, err, domain.ErrLicenseRestricted)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeLookup()).AnyTimes()

	for _, p := range domain.SupportedPlatforms() {
		first, err := resolver.New(index).Resolve(context.Background(), p, true, scenarioRequests())
		require.NoError(t, err)
		second, err := resolver.New(index).Resolve(context.Background(), p, true, scenarioRequests())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, first.ID(), second.ID())
	}
}

func TestResolve_CachesAndCopies(t *testing.T) {
	var calls atomic.Int32
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, p domain.Platform, req domain.PackageRequest) (domain.PackageRef, error) {
			calls.Add(1)
			return fakeLookup()(ctx, p, req)
		}).AnyTimes()

	r := resolver.New(index)
	reqs := []domain.PackageRequest{{Name: "python311", Version: "latest"}}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Resolve(context.Background(), domain.X8664Linux, false, reqs)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	desc, err := r.Resolve(context.Background(), domain.X8664Linux, false, reqs)
	require.NoError(t, err)
	desc.Packages[0].Rev = "mutated"

	again, err := r.Resolve(context.Background(), domain.X8664Linux, false, reqs)
	require.NoError(t, err)
	assert.Equal(t, "rev-x86_64-linux", again.Packages[0].Rev)
	assert.LessOrEqual(t, calls.Load(), int32(8))

	before := calls.Load()
	_, err = r.Resolve(context.Background(), domain.X8664Linux, false, reqs)
	require.NoError(t, err)
	assert.Equal(t, before, calls.Load(), "cached resolution must not hit the index")

	_, err = r.Resolve(context.Background(), domain.X8664Linux, false, reqs, resolver.WithVenvDir("env"))
	require.NoError(t, err)
	assert.Equal(t, before+1, calls.Load(), "different options are a different resolution")
}

func TestResolve_Options(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeLookup()).AnyTimes()

	r := resolver.New(index)

	desc, err := r.Resolve(context.Background(), domain.X8664Linux, false,
		[]domain.PackageRequest{{Name: "ngrok", Version: "latest"}},
		resolver.WithHooks(domain.Hooks{Activate: []string{"echo hi"}}),
	)
	require.NoError(t, err)
	assert.Empty(t, desc.Hooks.Setup, "no language packages means no venv setup")
	assert.Equal(t, []string{"echo hi"}, desc.Hooks.Activate)

	desc, err = r.Resolve(context.Background(), domain.X8664Linux, false,
		[]domain.PackageRequest{{Name: "flask", Version: "latest", Scope: "python311Packages"}},
		resolver.WithVenvDir("env"),
		resolver.WithHooks(domain.Hooks{Setup: []string{"echo ready"}}),
	)
	require.NoError(t, err)
	assert.Equal(t, "env", desc.VenvDir)
	assert.Equal(t, []string{
		"if [ ! -d 'env' ]; then python -m venv --system-site-packages 'env'; fi",
		"echo ready",
	}, desc.Hooks.Setup)
	assert.Equal(t, []string{". 'env/bin/activate'"}, desc.Hooks.Activate)
}

func TestResolveAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeLookup()).Times(4 * 6)

	all, err := resolver.New(index).ResolveAll(context.Background(), true, scenarioRequests())
	require.NoError(t, err)
	require.Len(t, all, 4)

	for _, p := range domain.SupportedPlatforms() {
		desc := all[p]
		require.NotNil(t, desc, p)
		assert.Equal(t, p, desc.Platform)
		assert.Len(t, desc.Packages, 6)
		assert.Equal(t, "rev-"+p.String(), desc.Packages[0].Rev)
	}
}

func TestResolveAll_FailsAsAWhole(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, p domain.Platform, req domain.PackageRequest) (domain.PackageRef, error) {
			if p == domain.AArch64Darwin && req.Name == "ollama" {
				return domain.PackageRef{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "no darwin build"), "platform", p.String())
			}
			return fakeLookup()(ctx, p, req)
		}).AnyTimes()

	all, err := resolver.New(index).ResolveAll(context.Background(), true, scenarioRequests())
	require.Error(t, err)
	assert.Nil(t, all)
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestResolvePlatforms_RejectsUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := resolver.New(mocks.NewMockPackageIndex(ctrl))

	_, err := r.ResolvePlatforms(context.Background(),
		[]domain.Platform{domain.X8664Linux, "windows"}, true, scenarioRequests())
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
}

func TestPinnedIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockPackageIndex(ctrl)

	pinned := domain.PackageRef{Name: "ngrok", Version: "3.5.0", Rev: "pinned", AttrPath: "a.ngrok"}
	lock := domain.NewLockfile()
	lock.Pin(domain.PackageRequest{Name: "ngrok", Version: "latest"}, domain.X8664Linux, pinned)

	inner.EXPECT().Lookup(gomock.Any(), domain.AArch64Linux, gomock.Any()).DoAndReturn(fakeLookup()).Times(1)

	index := resolver.PinnedIndex(lock, inner)
	req := domain.PackageRequest{Name: "ngrok", Version: "latest"}

	got, err := index.Lookup(context.Background(), domain.X8664Linux, req)
	require.NoError(t, err)
	assert.Equal(t, pinned, got)

	got, err = index.Lookup(context.Background(), domain.AArch64Linux, req)
	require.NoError(t, err)
	assert.Equal(t, "rev-aarch64-linux", got.Rev)

	assert.Same(t, inner, resolver.PinnedIndex(nil, inner))
}

func TestResolve_CallerCancellationIsIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	index.EXPECT().Lookup(gomock.Any(), domain.X8664Linux, gomock.Any()).DoAndReturn(
		func(ctx context.Context, p domain.Platform, req domain.PackageRequest) (domain.PackageRef, error) {
			close(started)
			select {
			case <-ctx.Done():
				return domain.PackageRef{}, ctx.Err()
			case <-release:
			}
			return fakeLookup()(ctx, p, req)
		}).Times(1)

	r := resolver.New(index)
	requests := []domain.PackageRequest{{Name: "ollama", Version: "latest"}}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := r.Resolve(ctxA, domain.X8664Linux, true, requests)
		errA <- err
	}()
	<-started

	type result struct {
		desc *domain.EnvironmentDescriptor
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		desc, err := r.Resolve(context.Background(), domain.X8664Linux, true, requests)
		resB <- result{desc, err}
	}()

	// Let the second caller join the in-flight resolution.
	time.Sleep(50 * time.Millisecond)
	cancelA()

	err := <-errA
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrExternalResolution)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, []string{"ollama"}, b.desc.Names())
}

func TestDefaultHooks(t *testing.T) {
	tests := []struct {
		name     string
		requests []domain.PackageRequest
		wantVenv bool
	}{
		{"python scope", []domain.PackageRequest{{Name: "flask", Scope: "python311Packages"}}, true},
		{"python scope after top level", []domain.PackageRequest{{Name: "ngrok"}, {Name: "pip", Scope: "python312Packages"}}, true},
		{"node scope", []domain.PackageRequest{{Name: "nodejs_20"}, {Name: "typescript", Scope: "nodePackages"}}, false},
		{"top level only", []domain.PackageRequest{{Name: "python311"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := resolver.DefaultHooks(tt.requests, ".venv")
			if !tt.wantVenv {
				assert.True(t, hooks.IsEmpty())
				return
			}
			assert.Equal(t, []string{"if [ ! -d '.venv' ]; then python -m venv --system-site-packages '.venv'; fi"}, hooks.Setup)
			assert.Equal(t, []string{". '.venv/bin/activate'"}, hooks.Activate)
		})
	}
}
