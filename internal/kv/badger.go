package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Badger is a [Medium] backed by a badger database directory.
type Badger struct {
	mu sync.Mutex
	db *badger.DB
}

// OpenBadger opens (creating if needed) the badger database in dir.
func OpenBadger(dir string, logger *zap.Logger) (*Badger, error) {
	return openBadger(badger.DefaultOptions(dir), logger)
}

// OpenBadgerInMemory opens a badger database that keeps nothing on disk.
func OpenBadgerInMemory(logger *zap.Logger) (*Badger, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), logger)
}

func openBadger(opts badger.Options, logger *zap.Logger) (*Badger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = opts.
		WithLogger(&badgerLogger{log: logger.Named("badger").Sugar()}).
		WithNumVersionsToKeep(1).
		WithSyncWrites(!opts.InMemory)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Badger{db: db}, nil
}

func (b *Badger) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return "", false, err
	}

	var value []byte

	err = db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get([]byte(key))
		if getErr != nil {
			return getErr
		}

		value, getErr = item.ValueCopy(nil)

		return getErr
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("badger get %q: %w", key, err)
	}

	return string(value), true, nil
}

func (b *Badger) Put(ctx context.Context, items ...Item) error {
	if err := validateItems(items); err != nil {
		return err
	}

	db, err := b.handle(ctx)
	if err != nil {
		return err
	}

	err = db.Update(func(txn *badger.Txn) error {
		for _, it := range items {
			if setErr := txn.Set([]byte(it.Key), []byte(it.Value)); setErr != nil {
				return setErr
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}

	return nil
}

func (b *Badger) Remove(ctx context.Context, keys ...string) error {
	db, err := b.handle(ctx)
	if err != nil {
		return err
	}

	err = db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if delErr := txn.Delete([]byte(k)); delErr != nil {
				return delErr
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("badger remove: %w", err)
	}

	return nil
}

// Close closes the database. Later calls return nil.
func (b *Badger) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil

	if err != nil {
		return fmt.Errorf("close badger: %w", err)
	}

	return nil
}

func (b *Badger) handle(ctx context.Context) (*badger.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil, ErrClosed
	}

	return b.db, nil
}

// badgerLogger routes badger's internal logging to zap.
type badgerLogger struct {
	log *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.log.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.log.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.log.Debugf(format, args...)
}
