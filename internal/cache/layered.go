package cache

// LayeredCache fronts a disk cache with an in-memory layer, promoting
// disk hits so repeated runs in one process skip the filesystem.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory-over-disk cache rooted at diskDir.
func NewLayeredCache(diskDir string) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(),
		disk:   NewDiskCache(diskDir),
	}
}

// Get checks memory first, then disk.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}
	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val)
		return val, true
	}
	return nil, false
}

// Set stores the blob in both layers.
func (c *LayeredCache) Set(key string, value []byte) error {
	if err := c.memory.Set(key, value); err != nil {
		return err
	}
	return c.disk.Set(key, value)
}

// Delete removes the blob from both layers.
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear removes all blobs from both layers.
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
