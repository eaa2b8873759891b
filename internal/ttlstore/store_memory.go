package ttlstore

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// MemoryStore is a mutex-guarded map with lazy eviction on read and a
// periodic sweep driven by Run.
type MemoryStore[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   Clock
}

// NewMemory constructs an empty store whose entries live for ttl.
func NewMemory[V any](ttl time.Duration, opts ...Option) *MemoryStore[V] {
	o := buildOptions(opts)
	return &MemoryStore[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   o.clock,
	}
}

// TTL returns the configured entry lifetime.
func (s *MemoryStore[V]) TTL() time.Duration {
	return s.ttl
}

func (s *MemoryStore[V]) Set(_ context.Context, key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, createdAt: s.clock()}
	return nil
}

func (s *MemoryStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	e, ok := s.entries[key]
	if !ok {
		return zero, false, nil
	}
	if s.expired(e, s.clock()) {
		delete(s.entries, key)
		return zero, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore[V]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len returns the number of physically present entries, expired or not.
func (s *MemoryStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes every entry whose age exceeds the TTL as of now and returns
// how many were evicted.
func (s *MemoryStore[V]) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
			evicted++
		}
	}
	return evicted
}

// Run sweeps once per TTL period until ctx is cancelled. It always returns
// nil so it can sit in an errgroup next to the HTTP server.
func (s *MemoryStore[V]) Run(ctx context.Context) error {
	if s.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.clock())
		}
	}
}

// expired reports whether age > ttl. An entry exactly ttl old is still live.
// Must be called while holding s.mu.
func (s *MemoryStore[V]) expired(e entry[V], now time.Time) bool {
	return now.Sub(e.createdAt) > s.ttl
}

var _ Store[string] = (*MemoryStore[string])(nil)
