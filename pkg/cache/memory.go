package cache

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryCache keeps entries in process memory. It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory store.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache. The returned slice is a copy.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return slices.Clone(e.data), true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: slices.Clone(data)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// List implements Lister.
func (c *MemoryCache) List(ctx context.Context, prefix string) ([]string, error) {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	var keys []string
	for k, e := range c.entries {
		if strings.HasPrefix(k, prefix) && (e.expiresAt.IsZero() || !now.After(e.expiresAt)) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Close implements Cache.
func (c *MemoryCache) Close() error { return nil }

var (
	_ Cache  = (*MemoryCache)(nil)
	_ Lister = (*MemoryCache)(nil)
)
