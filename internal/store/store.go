// Package store holds the local key/value persistence used for the dog record.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// Store is an asynchronous-safe string store keyed by name.
// Deleting a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Drivers accepted by Open
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// DefaultDataDir returns the default directory for puppyparty's local data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "puppyparty"), nil
}

// Open returns the store for driver rooted at dataDir.
func Open(driver, dataDir string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(filepath.Join(dataDir, "puppyparty.db"))
	case DriverFile:
		return NewFile(dataDir)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("open store: unknown driver %q", driver)
	}
}
