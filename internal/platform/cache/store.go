package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/pick-ledger/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. A non-positive ttl keeps entries until deleted.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   clockwork.Clock
	flight  resilience.SingleFlight[any]
	bypass  bool
}

func NewStore(ttl time.Duration, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// NewBypassStore returns a store that never keeps anything. GetOrLoad still
// collapses concurrent loads of the same key.
func NewBypassStore() *Store {
	s := NewStore(0, nil)
	s.bypass = true
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" || s.bypass {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(e) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && s.expired(current) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" || s.bypass {
		return
	}

	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.clock.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or runs loader once across
// concurrent callers and caches its result. Loader errors are not cached.
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
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && !e.expiresAt.After(s.clock.Now())
}
