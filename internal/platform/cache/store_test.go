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

	store := NewStore[[]int](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]int, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []int{1, 2, 3}, nil
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
			v, err := store.GetOrLoad(context.Background(), "champion:ids", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 3 {
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

func TestStore_ExpiresAndDeletesPrefix(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore[string](time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "patch:recent:3", "a")
	store.Set(ctx, "patch:recent:5", "b")
	store.Set(ctx, "champion:ids", "c")

	if v, ok := store.Get(ctx, "patch:recent:3"); !ok || v != "a" {
		t.Fatalf("expected cached value, got %q %v", v, ok)
	}

	store.DeletePrefix(ctx, "patch:")
	if _, ok := store.Get(ctx, "patch:recent:5"); ok {
		t.Fatalf("expected prefix delete")
	}
	if _, ok := store.Get(ctx, "champion:ids"); !ok {
		t.Fatalf("unrelated key must survive prefix delete")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, "champion:ids"); ok {
		t.Fatalf("expected expiry after ttl")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	calls := 0
	loader := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("db down")
		}
		return 5, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load error")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != 5 {
		t.Fatalf("expected reload after error: v=%d err=%v", v, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
