package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the database lock.
var ErrLocked = errors.New("database is locked by another process")

const (
	lockRetryInterval = 100 * time.Millisecond
	lockWait          = 2 * time.Second
)

// FileLock is an exclusive advisory lock on a sidecar file next to the
// database, so two servers never write the same SQLite file.
type FileLock struct {
	flock *flock.Flock
}

// AcquireLock takes the lock at path, retrying until ctx is done or a short
// wait elapses.
func AcquireLock(ctx context.Context, path string) (*FileLock, error) {
	ctx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: %w", path, ErrLocked)
	}
	return &FileLock{flock: fl}, nil
}

// Release unlocks the file. It is safe on a nil lock.
func (l *FileLock) Release() error {
	if l == nil {
		return nil
	}
	return l.flock.Unlock()
}
