// Package lockfile persists devshell.lock.
package lockfile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
)

// lockSuffix names the advisory lock file guarding concurrent writers.
const lockSuffix = ".flock"

// Store implements ports.LockStore using a JSON file next to the manifest.
type Store struct{}

// NewStore creates a new lockfile store.
func NewStore() *Store {
	return &Store{}
}

// Load reads devshell.lock in dir. Returns nil, nil if the file does not exist.
func (s *Store) Load(dir string) (*domain.Lockfile, error) {
	path := filepath.Join(dir, domain.LockFileName)

	//nolint:gosec // Path is derived from the manifest directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrLockfileReadFailed, err.Error()), "path", path)
	}

	var lock domain.Lockfile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrLockfileParseFailed, err.Error()), "path", path)
	}

	if lock.Version != domain.LockfileVersion {
		versionErr := zerr.With(zerr.Wrap(domain.ErrUnsupportedLockfileVersion, "cannot read lockfile"), "path", path)
		return nil, zerr.With(versionErr, "version", strconv.Itoa(lock.Version))
	}

	if lock.Packages == nil {
		lock.Packages = make(map[string]map[domain.Platform]domain.PackageRef)
	}
	return &lock, nil
}

// Save writes lock to devshell.lock in dir.
// Writers are serialized with an advisory file lock and the file is replaced atomically.
func (s *Store) Save(dir string, lock *domain.Lockfile) error {
	path := filepath.Join(dir, domain.LockFileName)

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockfileWriteFailed, err.Error()), "path", path)
	}
	data = append(data, '\n')

	fileLock := flock.New(path + lockSuffix)
	if err := fileLock.Lock(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockfileWriteFailed, err.Error()), "path", path)
	}
	defer func() { _ = fileLock.Unlock() }()

	if err := writeAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockfileWriteFailed, err.Error()), "path", path)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".devshell-lock-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, domain.FilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

var _ ports.LockStore = (*Store)(nil)
