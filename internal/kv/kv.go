// Package kv provides durable key-value media for board state.
//
// A [Medium] stores opaque string values under string keys, the same shape as
// browser local storage. Backends:
//   - [File]: one JSON object on disk, replaced atomically under a file lock
//   - [SQLite]: a single kv table
//   - [Badger]: a badger database directory
//   - [Memory]: a map, for tests and scratch sessions
//
// Every backend applies a [Medium.Put] as one durable step. Writers are
// last-writer-wins; there is no merge.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Backends lists every backend name.
var Backends = []string{BackendFile, BackendSQLite, BackendBadger, BackendMemory}

// File and directory names inside the board directory.
const (
	fileName   = "board.json"
	sqliteName = "board.sqlite"
	badgerDir  = "badger"

	dirPerms  = 0o750
	filePerms = 0o600
)

var (
	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrClosed is returned by operations on a closed medium.
	ErrClosed = errors.New("medium is closed")

	errEmptyKey = errors.New("empty key")
)

// Item is a key-value pair written by [Medium.Put].
type Item struct {
	Key   string
	Value string
}

// Medium is a durable string key-value store.
type Medium interface {
	// Get returns the value stored under key. ok is false if the key is not set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put stores all items in a single durable step, overwriting prior values.
	Put(ctx context.Context, items ...Item) error

	// Remove deletes keys. Keys that are not set are ignored.
	Remove(ctx context.Context, keys ...string) error

	// Close releases the medium. Close is idempotent.
	Close() error
}

// Open opens the medium for backend rooted at dir, creating it if needed.
// A nil logger disables logging.
func Open(ctx context.Context, backend, dir string, logger *zap.Logger) (Medium, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger = logger.With(zap.String("backend", backend), zap.String("dir", dir))

	var (
		medium Medium
		err    error
	)

	switch backend {
	case BackendFile:
		medium, err = OpenFile(filepath.Join(dir, fileName), logger)
	case BackendSQLite:
		medium, err = OpenSQLite(ctx, filepath.Join(dir, sqliteName))
	case BackendBadger:
		medium, err = OpenBadger(filepath.Join(dir, badgerDir), logger)
	case BackendMemory:
		medium = NewMemory()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s medium: %w", backend, err)
	}

	logger.Debug("medium opened")

	return medium, nil
}

func validateItems(items []Item) error {
	for _, it := range items {
		if it.Key == "" {
			return errEmptyKey
		}
	}

	return nil
}
