// Package cache provides a keyed TTL store shared by the data fetchers.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ktoiv/epistemo-hippodrome/internal/metrics"
)

// Store is an in-memory key-value store with per-entry expiry. Expiry is
// checked lazily on access; overwriting a key resets its expiry. There is
// no capacity bound, so callers must pick keys with naturally bounded
// cardinality (track names, race identifiers, trainer names).
//
// Population is not atomic per key: two concurrent misses on the same key
// may both fetch and both write. That is idempotent and last-write-wins,
// callers needing dedupe must layer a single-flight guard above the store.
type Store struct {
	name  string
	cache *gocache.Cache
}

// NewStore creates a named TTL store. The name labels the store's hit and
// miss metrics. The default TTL only applies to entries stored without an
// explicit TTL; every caller here passes one.
func NewStore(name string, defaultTTL time.Duration) *Store {
	return &Store{
		name:  name,
		cache: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

// Put stores a value under key for the given TTL
func (s *Store) Put(key string, value interface{}, ttl time.Duration) {
	s.cache.Set(key, value, ttl)
}

// Get retrieves a value, reporting whether a live entry was found
func (s *Store) Get(key string) (interface{}, bool) {
	value, found := s.cache.Get(key)
	if found {
		metrics.CacheHitsTotal.WithLabelValues(s.name).Inc()
		return value, true
	}
	metrics.CacheMissesTotal.WithLabelValues(s.name).Inc()
	return nil, false
}

// Has reports whether a live entry exists for key
func (s *Store) Has(key string) bool {
	_, found := s.cache.Get(key)
	return found
}

// Flush drops every entry
func (s *Store) Flush() {
	s.cache.Flush()
}

// ItemCount returns the number of entries, expired ones included
func (s *Store) ItemCount() int {
	return s.cache.ItemCount()
}
