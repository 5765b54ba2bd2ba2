// Package fs provides the filesystem abstraction used by the file-backed board
// medium.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the medium needs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] and atomic replace
//   - [Locker]: flock-based advisory locking on top of an [FS]
//
// Example usage:
//
//	fsys := fs.NewReal()
//	lock, err := fs.NewLocker(fsys).LockWithTimeout("board.json.lock", time.Second)
//	if err != nil {
//	    return err
//	}
//	defer lock.Close()
//
//	data, err := fsys.ReadFile("board.json")
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File].
type File interface {
	io.ReadWriteCloser

	// Fd returns the file descriptor. See [os.File.Fd].
	// Used with flock by [Locker].
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations used for board storage.
//
// All methods mirror their [os] package equivalents except
// [FS.WriteFileAtomic], so tests can substitute a faulty implementation.
type FS interface {
	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces the file at path with data.
	// Readers see either the old or the new content, never a partial write.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)
}

// Compile-time interface checks.
var (
	_ File = (*os.File)(nil)
	_ FS   = (*Real)(nil)
)
