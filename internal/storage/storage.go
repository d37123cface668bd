// Package storage provides key-value blob stores used to persist player
// records. Each key holds one opaque byte slice; writes replace the previous
// value entirely.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid blob key")

// Store persists opaque values under string keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Watcher is implemented by stores that can report changes made by other
// processes.
type Watcher interface {
	// Watch returns a channel that receives a value whenever key changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}

// Backends accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultDBFile is the database file name used when the sqlite backend path
// does not name a .db, .sqlite or .sqlite3 file.
const DefaultDBFile = "hanoi.db"

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open returns the backend store rooted at path. path is a directory for
// the file backend and a database file (or its directory) for sqlite.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		switch filepath.Ext(path) {
		case ".db", ".sqlite", ".sqlite3":
		default:
			path = filepath.Join(path, DefaultDBFile)
		}
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
