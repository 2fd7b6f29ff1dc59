package ports

import "go.trai.ch/devshell/internal/core/domain"

// LockStore defines the interface for persisting lockfiles.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LockStore interface {
	// Load reads the lockfile in dir.
	// Returns nil, nil if there is none.
	Load(dir string) (*domain.Lockfile, error)

	// Save writes the lockfile in dir.
	Save(dir string, lock *domain.Lockfile) error
}
