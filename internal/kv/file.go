package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/kanban/internal/fs"
)

// lockTimeout bounds how long a writer waits for another process.
const lockTimeout = 2 * time.Second

// File is a [Medium] backed by a single JSON object file. Writes take an
// exclusive lock on "<path>.lock", read the current object, apply the change
// and atomically replace the file, so readers never see a partial write.
type File struct {
	fs     fs.FS
	locker *fs.Locker
	path   string
	log    *zap.Logger
	closed atomic.Bool
}

// OpenFile opens a file medium at path on the real filesystem.
func OpenFile(path string, logger *zap.Logger) (*File, error) {
	return NewFile(fs.NewReal(), path, logger)
}

// NewFile opens a file medium at path on fsys, creating the parent directory.
func NewFile(fsys fs.FS, path string, logger *zap.Logger) (*File, error) {
	if path == "" {
		return nil, errors.New("open file medium: path is empty")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	err := fsys.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return nil, fmt.Errorf("create board directory: %w", err)
	}

	return &File{
		fs:     fsys,
		locker: fs.NewLocker(fsys),
		path:   path,
		log:    logger,
	}, nil
}

// Path returns the data file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if f.closed.Load() {
		return "", false, ErrClosed
	}

	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := f.read()
	if err != nil {
		return "", false, err
	}

	v, ok := data[key]

	return v, ok, nil
}

func (f *File) Put(ctx context.Context, items ...Item) error {
	if err := validateItems(items); err != nil {
		return err
	}

	return f.update(ctx, func(data map[string]string) {
		for _, it := range items {
			data[it.Key] = it.Value
		}
	})
}

func (f *File) Remove(ctx context.Context, keys ...string) error {
	return f.update(ctx, func(data map[string]string) {
		for _, k := range keys {
			delete(data, k)
		}
	})
}

func (f *File) Close() error {
	f.closed.Store(true)

	return nil
}

func (f *File) update(ctx context.Context, apply func(map[string]string)) error {
	if f.closed.Load() {
		return ErrClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	lock, err := f.locker.LockWithTimeout(f.path+".lock", lockTimeout)
	if err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}

	defer func() {
		if closeErr := lock.Close(); closeErr != nil {
			f.log.Warn("releasing board lock failed", zap.Error(closeErr))
		}
	}()

	data, err := f.read()
	if err != nil {
		return err
	}

	apply(data)

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	err = f.fs.WriteFileAtomic(f.path, append(encoded, '\n'), filePerms)
	if err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	return nil
}

// read returns the stored object. A missing file is empty; so is a file that
// does not hold a JSON object of strings, which the next write replaces.
func (f *File) read() (map[string]string, error) {
	raw, err := f.fs.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	data := map[string]string{}

	err = json.Unmarshal(raw, &data)
	if err != nil || data == nil {
		f.log.Warn("ignoring malformed board file", zap.String("path", f.path), zap.Error(err))

		return map[string]string{}, nil
	}

	return data, nil
}
