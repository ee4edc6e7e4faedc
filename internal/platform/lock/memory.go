package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is a process-local Locker backed by one-slot channels per key.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &MemoryLocker{
		slots: make(map[string]chan struct{}),
		wait:  wait,
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Release, error) {
	slot := l.slot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func(context.Context) error {
			once.Do(func() { <-slot })
			return nil
		}, nil
	case <-timer.C:
		return nil, ErrBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *MemoryLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	return slot
}
