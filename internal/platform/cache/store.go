package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rzldimam28/score-predictor/internal/platform/resilience"
)

// Store keeps derived projection snapshots (player profiles, league
// averages) in memory so repeated forecasts do not re-scan match
// history. Entries expire after the configured TTL; a TTL of zero or
// less keeps entries until they are invalidated explicitly.
type Store struct {
	mu     sync.RWMutex
	items  map[string]item
	ttl    time.Duration
	flight resilience.SingleFlight
}

type item struct {
	value any
	// deadline is unix nanoseconds; zero means the item never expires.
	deadline int64
}

func (it item) expired(now int64) bool {
	return it.deadline != 0 && now >= it.deadline
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]item),
		ttl:   ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now().UnixNano()
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(now) {
		s.mu.Lock()
		// Re-check under the write lock: another goroutine may have
		// replaced the item since the read above.
		if current, stillThere := s.items[key]; stillThere && current.expired(now) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	var deadline int64
	if s.ttl > 0 {
		deadline = time.Now().Add(s.ttl).UnixNano()
	}

	s.mu.Lock()
	s.items[key] = item{value: value, deadline: deadline}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// DeletePrefix drops every item whose key starts with prefix. Used to
// invalidate a whole projection family after new match records land.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading it at most once
// across concurrent callers when absent. Loader failures are returned
// to every waiter and never cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
