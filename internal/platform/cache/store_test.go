package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "team:list:t1", "cached")
	if _, ok := store.Get(context.Background(), "team:list:t1"); !ok {
		t.Fatalf("expected cache hit before ttl")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "team:list:t1"); ok {
		t.Fatalf("expected cache miss after ttl")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "team:list:t1:THROWBALL_WOMEN", 1)
	store.Set(ctx, "team:id:team-1", 2)
	store.Set(ctx, "player:id:p-1", 3)

	store.DeletePrefix(ctx, "team:", "")

	if _, ok := store.Get(ctx, "team:list:t1:THROWBALL_WOMEN"); ok {
		t.Fatalf("expected team list key removed")
	}
	if _, ok := store.Get(ctx, "team:id:team-1"); ok {
		t.Fatalf("expected team id key removed")
	}
	if _, ok := store.Get(ctx, "player:id:p-1"); !ok {
		t.Fatalf("expected player key kept")
	}
}

func TestStore_MaxEntriesSweepsExpiredBeforeEvicting(t *testing.T) {
	store := NewStore(time.Minute, WithMaxEntries(2))
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "token:old", 1)
	now = now.Add(2 * time.Minute)
	store.Set(ctx, "token:a", 2)
	store.Set(ctx, "token:b", 3)

	if store.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "token:a"); !ok {
		t.Fatalf("expected live entry kept when an expired one could be swept")
	}

	store.Set(ctx, "token:c", 4)
	if store.Len() != 2 {
		t.Fatalf("expected store to stay bounded, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "token:c"); !ok {
		t.Fatalf("expected newest entry stored")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
