// Package cache provides an in-memory, TTL-expiring key/value store.
//
// The store backs catalog detail lookups so that list rows, the detail view
// and prefetching share results for the same identifier within a session.
// Nothing is written to disk. Key features:
//   - Generic values with per-store TTL
//   - Lazy expiration on read, with Clear to drop everything at once
//   - Injectable clock for deterministic tests
//   - A disabled store that rejects every operation with ErrCacheDisabled
package cache
