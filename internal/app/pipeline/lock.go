package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	apperrors "meeting-recap/internal/app/errors"
)

// LockFile is created in the workspace root while a command runs.
const LockFile = ".recap.lock"

// RunLock keeps two scheduled runs from working on the same tree.
type RunLock struct {
	lock *flock.Flock
}

// AcquireLock takes the workspace lock without waiting. A held lock returns
// ErrRunLocked.
func AcquireLock(root string) (*RunLock, error) {
	path := filepath.Join(root, LockFile)
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrRunLocked, "%s", path)
	}
	return &RunLock{lock: lock}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.lock.Path()
}

// Release drops the lock. The file itself is left in place.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}
