package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_ExpiredItemIsDropped(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "profile:p1", 42)
	time.Sleep(5 * time.Millisecond)

	if _, ok := store.Get(ctx, "profile:p1"); ok {
		t.Fatal("expected expired item to be gone")
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()

	store.Set(ctx, "league:avg", 1.5)
	time.Sleep(2 * time.Millisecond)

	got, ok := store.Get(ctx, "league:avg")
	if !ok {
		t.Fatal("expected item to survive without a TTL")
	}
	if got != 1.5 {
		t.Fatalf("got %v, want 1.5", got)
	}
}

func TestStore_DeletePrefixScopesToFamily(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "profile:p1", 1)
	store.Set(ctx, "profile:p2", 2)
	store.Set(ctx, "league:avg", 3)

	store.DeletePrefix(ctx, "profile:")

	if _, ok := store.Get(ctx, "profile:p1"); ok {
		t.Fatal("profile:p1 should have been invalidated")
	}
	if _, ok := store.Get(ctx, "profile:p2"); ok {
		t.Fatal("profile:p2 should have been invalidated")
	}
	if _, ok := store.Get(ctx, "league:avg"); !ok {
		t.Fatal("league:avg should have survived the prefix delete")
	}
}

func TestStore_GetOrLoadLoadsOnceUnderConcurrency(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	var loads atomic.Int32
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(2 * time.Millisecond)
		return "snapshot", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.GetOrLoad(ctx, "profile:p9", loader)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got != "snapshot" {
				t.Errorf("got %v, want snapshot", got)
			}
		}()
	}
	wg.Wait()

	if n := loads.Load(); n != 1 {
		t.Fatalf("loader ran %d times, want 1", n)
	}
}

func TestStore_GetOrLoadDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	loadErr := errors.New("history scan failed")
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, loadErr
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(ctx, "profile:p3", loader); !errors.Is(err, loadErr) {
		t.Fatalf("got %v, want %v", err, loadErr)
	}

	got, err := store.GetOrLoad(ctx, "profile:p3", loader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("got %v, want recovered", got)
	}
}
