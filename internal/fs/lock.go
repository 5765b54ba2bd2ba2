package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

var (
	// ErrWouldBlock is returned when a [Locker.LockWithTimeout] timeout
	// expires.
	ErrWouldBlock = errors.New("lock would block")

	// ErrInvalidTimeout is returned when a timeout is <= 0.
	ErrInvalidTimeout = errors.New("invalid lock timeout")

	// errInodeMismatch signals the lock file was replaced between open and
	// flock. Callers retry.
	errInodeMismatch = errors.New("inode mismatch")
)

// Locker provides exclusive advisory locks using flock(2).
//
// flock applies to an inode, not a pathname, so lock a dedicated lock file
// that is never replaced (for example "board.json.lock"), not the data file
// that gets renamed over. After flock succeeds the Locker checks the locked
// descriptor still refers to the file at path and retries if not.
//
// This implementation is Unix-only.
type Locker struct {
	fs    FS
	flock func(fd int, how int) error
}

// NewLocker creates a Locker that uses the given filesystem for file operations.
func NewLocker(fs FS) *Locker {
	return &Locker{
		fs:    fs,
		flock: unix.Flock,
	}
}

// Lock represents a held file lock. Call [Lock.Close] to release it.
type Lock struct {
	mu    sync.Mutex
	file  File
	flock func(fd int, how int) error
}

// Close releases the lock and closes the underlying file descriptor.
// Close is idempotent.
func (lk *Lock) Close() error {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	if lk.file == nil {
		return nil
	}

	fd := int(lk.file.Fd())

	unlockErr := flockRetryEINTR(lk.flock, fd, unix.LOCK_UN)
	closeErr := lk.file.Close()
	lk.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlocking lock: %w", unlockErr)
	}

	if closeErr != nil {
		closeErr = fmt.Errorf("closing lock fd: %w", closeErr)
	}

	return errors.Join(unlockErr, closeErr)
}

// LockWithTimeout acquires an exclusive lock on path, polling with backoff
// (1ms up to 25ms) until timeout. The lock file and its parent directories
// are created if missing.
//
// Returns an error satisfying [errors.Is] with [ErrWouldBlock] if the timeout
// expires, and [ErrInvalidTimeout] if timeout <= 0.
func (l *Locker) LockWithTimeout(path string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be > 0", ErrInvalidTimeout)
	}

	return l.lockPolling(path, timeout)
}

const maxBackoff = 25 * time.Millisecond

func (l *Locker) lockPolling(path string, timeout time.Duration) (*Lock, error) {
	deadline := time.Now().Add(timeout)

	backoff := time.Millisecond

	for {
		file, err := l.openLockFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening lockfile: %w", err)
		}

		err = l.acquire(file, path)
		if err == nil {
			return &Lock{file: file, flock: l.flock}, nil
		}

		_ = file.Close()

		if !errors.Is(err, ErrWouldBlock) && !errors.Is(err, errInodeMismatch) {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: timed out after %s", ErrWouldBlock, timeout)
		}

		time.Sleep(min(backoff, remaining))

		backoff = min(backoff*2, maxBackoff)
	}
}

// acquire flocks file without blocking and verifies the inode still matches
// path. On failure the file is unlocked but not closed.
func (l *Locker) acquire(file File, path string) error {
	fd := int(file.Fd())

	err := flockRetryEINTR(l.flock, fd, unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
			return ErrWouldBlock
		}

		return fmt.Errorf("flock: %w", err)
	}

	match, err := l.inodeMatchesPath(path, file)
	if err != nil || !match {
		_ = flockRetryEINTR(l.flock, fd, unix.LOCK_UN)

		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("verifying inode match: %w", err)
		}

		return errInodeMismatch
	}

	return nil
}

const (
	lockFilePerm = 0o600
	lockDirPerm  = 0o750
)

func (l *Locker) openLockFile(path string) (File, error) {
	f, err := l.fs.OpenFile(path, os.O_RDWR|os.O_CREATE, lockFilePerm)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return f, err
	}

	err = l.fs.MkdirAll(filepath.Dir(path), lockDirPerm)
	if err != nil {
		return nil, err
	}

	return l.fs.OpenFile(path, os.O_RDWR|os.O_CREATE, lockFilePerm)
}

// inodeMatchesPath compares (dev, inode) of the open descriptor with the file
// currently at path.
func (l *Locker) inodeMatchesPath(path string, f File) (bool, error) {
	openInfo, err := f.Stat()
	if err != nil {
		return false, err
	}

	openSys, ok := openInfo.Sys().(*syscall.Stat_t)
	if !ok || openSys == nil {
		return false, fmt.Errorf("file.Stat Sys=%T, want *syscall.Stat_t", openInfo.Sys())
	}

	pathInfo, err := l.fs.Stat(path)
	if err != nil {
		return false, err
	}

	pathSys, ok := pathInfo.Sys().(*syscall.Stat_t)
	if !ok || pathSys == nil {
		return false, fmt.Errorf("fs.Stat Sys=%T, want *syscall.Stat_t", pathInfo.Sys())
	}

	return openSys.Dev == pathSys.Dev && openSys.Ino == pathSys.Ino, nil
}

// flockRetryEINTR wraps flock, retrying when a signal interrupts the call.
func flockRetryEINTR(flock func(fd int, how int) error, fd int, how int) error {
	const maxEINTRRetries = 10000

	var err error
	for i := 0; i < maxEINTRRetries; i++ {
		err = flock(fd, how)
		if err == nil || !errors.Is(err, unix.EINTR) {
			return err
		}
	}

	return err
}
