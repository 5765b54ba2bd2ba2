package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // sqlite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLite is a [Medium] backed by a single-table SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	err := os.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return nil, fmt.Errorf("create board directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection keeps the pragmas below in effect for every statement.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 2000",
		"PRAGMA journal_mode = WAL",
		sqliteSchema,
	} {
		_, err = db.ExecContext(ctx, stmt)
		if err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("init sqlite: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	if s.db == nil {
		return "", false, ErrClosed
	}

	var value string

	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("sqlite get %q: %w", key, err)
	}

	return value, true, nil
}

func (s *SQLite) Put(ctx context.Context, items ...Item) error {
	if err := validateItems(items); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, it := range items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO kv (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				it.Key, it.Value)
			if err != nil {
				return fmt.Errorf("sqlite put %q: %w", it.Key, err)
			}
		}

		return nil
	})
}

func (s *SQLite) Remove(ctx context.Context, keys ...string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, k := range keys {
			_, err := tx.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", k)
			if err != nil {
				return fmt.Errorf("sqlite remove %q: %w", k, err)
			}
		}

		return nil
	})
}

// Close closes the database handle. Later calls return nil.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil

	if err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}

	return nil
}

func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s.db == nil {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}

	err = fn(tx)
	if err != nil {
		_ = tx.Rollback()

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}

	return nil
}
