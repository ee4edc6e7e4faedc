package lock

import (
	"context"
	"errors"
)

var (
	// ErrBusy reports that another holder kept the key for the whole wait window.
	ErrBusy = errors.New("lock is busy")
	// ErrNotHeld reports a release after the lease already expired or moved to another holder.
	ErrNotHeld = errors.New("lock is not held")
)

// Release gives the key back. Calling it more than once is safe.
type Release func(ctx context.Context) error

// Locker serializes work on a key across goroutines or processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}
