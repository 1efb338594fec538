package corpus

import (
	"context"
	"sync"

	"github.com/craigtrim/persona-api/internal/domain"
)

// onceCache memoizes loads per key. A key is loaded at most once on success;
// failed loads are not cached so a later call can retry. Values are treated as
// read-only after insertion.
type onceCache[K comparable, V any] struct {
	mu     sync.Mutex
	values map[K]V
}

func newOnceCache[K comparable, V any]() *onceCache[K, V] {
	return &onceCache[K, V]{values: make(map[K]V)}
}

func (c *onceCache[K, V]) get(key K, load func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.values[key] = v
	return v, nil
}

func (c *onceCache[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// CachedStore wraps a Store with read-through caches for entries and indices.
// Misses and failures pass through uncached.
type CachedStore struct {
	inner   Store
	indices *onceCache[domain.Domain, CoherenceIndex]
	entries *onceCache[entryKey, *Entry]
}

// NewCachedStore returns inner behind populate-once caches.
func NewCachedStore(inner Store) *CachedStore {
	return &CachedStore{
		inner:   inner,
		indices: newOnceCache[domain.Domain, CoherenceIndex](),
		entries: newOnceCache[entryKey, *Entry](),
	}
}

func (c *CachedStore) Get(ctx context.Context, d domain.Domain, t domain.Triple) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.entries.get(entryKey{d, t}, func() (*Entry, error) {
		return c.inner.Get(ctx, d, t)
	})
}

func (c *CachedStore) CoherenceIndex(ctx context.Context, d domain.Domain) (CoherenceIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.indices.get(d, func() (CoherenceIndex, error) {
		return c.inner.CoherenceIndex(ctx, d)
	})
}
