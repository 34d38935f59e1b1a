package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps blobs in process memory. Fingerprinted entries are
// immutable so they never expire.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves the blob for a fingerprint.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores the blob for a fingerprint.
func (c *MemoryCache) Set(key string, value []byte) error {
	c.cache.Set(key, value, gocache.NoExpiration)
	return nil
}

// Delete removes the blob for a fingerprint.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all blobs.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
