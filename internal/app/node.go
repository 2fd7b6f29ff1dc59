package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devshell/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/devshell/internal/adapters/lockfile" //nolint:depguard // Wired in app layer
	"go.trai.ch/devshell/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/devshell/internal/adapters/nix"      //nolint:depguard // Wired in app layer
	"go.trai.ch/devshell/internal/adapters/shell"    //nolint:depguard // Wired in app layer
	"go.trai.ch/devshell/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			nix.IndexNodeID,
			lockfile.NodeID,
			nix.EnvFactoryNodeID,
			nix.ManagerNodeID,
			shell.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	index, err := graft.Dep[ports.PackageIndex](ctx)
	if err != nil {
		return nil, err
	}

	lockStore, err := graft.Dep[ports.LockStore](ctx)
	if err != nil {
		return nil, err
	}

	shells, err := graft.Dep[ports.ShellFactory](ctx)
	if err != nil {
		return nil, err
	}

	realizer, err := graft.Dep[ports.PackageRealizer](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, index, lockStore, shells, realizer, runner, log), nil
}
