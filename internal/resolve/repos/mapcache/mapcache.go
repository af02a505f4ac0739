// Package mapcache provides a small LRU cache for map (path to external
// URL) results. Mapping is deterministic for one configuration generation,
// so the factory discards the cache wholesale on every reconfiguration
// instead of invalidating entries.
package mapcache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes external URL results keyed by internal path.
type Cache struct {
	lru *lru.Cache[string, string]
}

// New returns a cache holding at most size entries.
func New(size int) (*Cache, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Get returns the cached external URL for path, if present.
func (c *Cache) Get(path string) (string, bool) {
	return c.lru.Get(path)
}

// Set stores the external URL computed for path.
func (c *Cache) Set(path, url string) {
	c.lru.Add(path, url)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
