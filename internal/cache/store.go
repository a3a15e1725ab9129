package cache

import (
	"errors"
	"sync"
	"time"
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// Store is a concurrency-safe in-memory cache with a single TTL.
type Store[T any] struct {
	enabled bool
	ttl     time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]*Entry[T]
}

// NewStore creates a store. A disabled store rejects all operations.
func NewStore[T any](enabled bool, ttl time.Duration) *Store[T] {
	return &Store[T]{
		enabled: enabled,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*Entry[T]),
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Store[T]) WithClock(now func() time.Time) *Store[T] {
	s.now = now
	return s
}

// Get returns the cached value for key.
// Returns ErrCacheNotFound if absent and ErrCacheExpired if stale; stale
// entries are removed.
func (s *Store[T]) Get(key string) (T, error) {
	var zero T
	if !s.enabled {
		return zero, ErrCacheDisabled
	}
	if key == "" {
		return zero, ErrInvalidCacheKey
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, ErrCacheNotFound
	}

	if entry.IsExpired(s.now()) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current == entry {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, ErrCacheExpired
	}
	return entry.Value, nil
}

// Set stores value under key, replacing any previous entry.
func (s *Store[T]) Set(key string, value T) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = NewEntry(key, value, s.now(), s.ttl)
	return nil
}

// Clear removes every entry.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry[T])
}

// Count returns the number of stored entries, expired ones included.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
