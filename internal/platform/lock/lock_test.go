package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryLocker_SerializesSameKey(t *testing.T) {
	locker := NewMemoryLocker(30 * time.Millisecond)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "t1:THROWBALL_WOMEN")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := locker.Acquire(ctx, "t1:THROWBALL_WOMEN"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while held, got %v", err)
	}

	other, err := locker.Acquire(ctx, "t1:VOLLEYBALL_OPEN_MEN")
	if err != nil {
		t.Fatalf("expected independent key to be free: %v", err)
	}
	_ = other(ctx)

	_ = release(ctx)
	_ = release(ctx)

	again, err := locker.Acquire(ctx, "t1:THROWBALL_WOMEN")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = again(ctx)
}

func TestMemoryLocker_RespectsContext(t *testing.T) {
	locker := NewMemoryLocker(time.Second)
	release, err := locker.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locker.Acquire(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedisLocker(client, RedisLockerConfig{
		Prefix:       "test:lock:",
		TTL:          time.Second,
		Wait:         20 * time.Millisecond,
		RetryBackoff: 5 * time.Millisecond,
	})
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "t1:THROWBALL_WOMEN")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !mr.Exists("test:lock:t1:THROWBALL_WOMEN") {
		t.Fatalf("expected lock key in redis")
	}

	if _, err := locker.Acquire(ctx, "t1:THROWBALL_WOMEN"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists("test:lock:t1:THROWBALL_WOMEN") {
		t.Fatalf("expected lock key deleted after release")
	}
}

func TestRedisLocker_ReleaseAfterExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedisLocker(client, RedisLockerConfig{TTL: time.Second, Wait: 10 * time.Millisecond})
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(2 * time.Second)

	next, err := locker.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("expected lease to be free after expiry: %v", err)
	}
	defer next(ctx)

	if err := release(ctx); !errors.Is(err, ErrNotHeld) {
		t.Fatalf("expected ErrNotHeld for stale release, got %v", err)
	}
}
