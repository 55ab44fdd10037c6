package sync

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const readCacheSize = 256

// ReadCache is an opt-in cache of local artifact reads, enabled only
// around sorted or grouped push waves where the same records are loaded
// more than once. Disabling clears it, so stale reads never leak into
// unrelated operations.
type ReadCache struct {
	cache   *lru.Cache[string, Record]
	enabled bool
	mu      sync.Mutex
}

func NewReadCache() *ReadCache {
	// lru.New only errors on a non-positive size
	cache, _ := lru.New[string, Record](readCacheSize)
	return &ReadCache{cache: cache}
}

// Enable turns the cache on for the duration of a push wave.
func (c *ReadCache) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
}

// Disable turns the cache off and drops all cached records.
func (c *ReadCache) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
	c.cache.Purge()
}

// Get returns the cached record for name, if caching is enabled and the
// record is present.
func (c *ReadCache) Get(name string) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(name)
}

// Add stores a record if caching is enabled.
func (c *ReadCache) Add(name string, rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.cache.Add(name, rec)
}
