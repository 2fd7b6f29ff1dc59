// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/devshell/internal/adapters/config"
	_ "go.trai.ch/devshell/internal/adapters/lockfile"
	_ "go.trai.ch/devshell/internal/adapters/logger"
	_ "go.trai.ch/devshell/internal/adapters/nix"
	_ "go.trai.ch/devshell/internal/adapters/settings"
	_ "go.trai.ch/devshell/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/devshell/internal/app"
)
