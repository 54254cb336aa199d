package marker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrNotFound reports that no marker exists.
	ErrNotFound = errors.New("marker not found")
	// ErrCorrupt reports marker content that is not a positive decimal PID.
	ErrCorrupt = errors.New("marker content is corrupt")
	// ErrLockTimeout reports that another invocation held the startup lock
	// for longer than the configured timeout.
	ErrLockTimeout = errors.New("timed out waiting for startup lock")
)

const lockRetryDelay = 50 * time.Millisecond

// File is a ProcessMarker stored at a fixed path.
type File struct {
	path string
}

// New returns a marker stored at path.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the marker location.
func (f *File) Path() string {
	return f.path
}

// LockPath returns the location of the startup lock file.
func (f *File) LockPath() string {
	return f.path + ".lock"
}

// Read returns the PID recorded in the marker.
func (f *File) Read() (int, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, f.path)
		}
		return 0, fmt.Errorf("%w: open %s: %w", ErrCorrupt, f.path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("%w: read %s: %w", ErrCorrupt, f.path, err)
		}
		return 0, fmt.Errorf("%w: %s is empty", ErrCorrupt, f.path)
	}
	return parsePID(scanner.Text())
}

// Write records pid as the current coordinator, replacing any previous marker.
func (f *File) Write(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("write marker: invalid pid %d", pid)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(strconv.Itoa(pid) + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write marker: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write marker: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

// Remove deletes the marker. A marker that is already gone is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove marker: %w", err)
	}
	return nil
}

// Acquire takes the startup lock, waiting at most timeout. The returned
// function releases it and is safe to call more than once.
func (f *File) Acquire(ctx context.Context, timeout time.Duration) (func(), error) {
	lock := flock.New(f.LockPath())

	lockCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ok, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, lock.Path())
		}
		return nil, fmt.Errorf("acquire startup lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, lock.Path())
	}
	return func() { _ = lock.Unlock() }, nil
}

func parsePID(line string) (int, error) {
	value := strings.TrimSpace(line)
	pid, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a pid", ErrCorrupt, value)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: %d is not a valid pid", ErrCorrupt, pid)
	}
	return pid, nil
}
