package nix

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devshell/internal/adapters/settings" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
)

const (
	// LicenseProbeNodeID is the unique identifier for the license probe Graft node.
	LicenseProbeNodeID graft.ID = "adapter.nix.license_probe"
	// IndexNodeID is the unique identifier for the NixHub package index Graft node.
	IndexNodeID graft.ID = "adapter.nix.index"
	// EnvFactoryNodeID is the unique identifier for the shell factory Graft node.
	EnvFactoryNodeID graft.ID = "adapter.nix.env_factory"
	// ManagerNodeID is the unique identifier for the package realizer Graft node.
	ManagerNodeID graft.ID = "adapter.nix.manager"
)

func init() {
	graft.Register(graft.Node[ports.LicenseProbe]{
		ID:        LicenseProbeNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.LicenseProbe, error) {
			s, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewLicenseProbe(s)
		},
	})

	graft.Register(graft.Node[ports.PackageIndex]{
		ID:        IndexNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, LicenseProbeNodeID},
		Run: func(ctx context.Context) (ports.PackageIndex, error) {
			s, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			licenses, err := graft.Dep[ports.LicenseProbe](ctx)
			if err != nil {
				return nil, err
			}
			return NewIndex(s, licenses)
		},
	})

	graft.Register(graft.Node[ports.ShellFactory]{
		ID:        EnvFactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.ShellFactory, error) {
			s, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewEnvFactory(s), nil
		},
	})

	graft.Register(graft.Node[ports.PackageRealizer]{
		ID:        ManagerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PackageRealizer, error) {
			return NewManager(), nil
		},
	})
}
