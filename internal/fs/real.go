package fs

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Real implements [FS] using the real filesystem.
//
// All methods are passthroughs to the [os] package, except
// [Real.WriteFileAtomic] which writes a temp file and renames it over path.
type Real struct{}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{}
}

// A passthrough wrapper for [os.OpenFile].
func (r *Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

// A passthrough wrapper for [os.ReadFile].
func (r *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFileAtomic writes data via [atomic.WriteFile] and then applies perm,
// since the temp file is created with the default mode.
func (r *Real) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	err := atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return err
	}

	err = os.Chmod(path, perm)
	if err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	return nil
}

// A passthrough wrapper for [os.MkdirAll].
func (r *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// A passthrough wrapper for [os.Stat].
func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
