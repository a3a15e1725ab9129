package cache

import "time"

// Entry is a single cached value with expiration metadata.
type Entry[T any] struct {
	Key       string
	Value     T
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewEntry creates an entry that expires ttl after now.
func NewEntry[T any](key string, value T, now time.Time, ttl time.Duration) *Entry[T] {
	return &Entry[T]{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the entry has expired at now.
func (e *Entry[T]) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
