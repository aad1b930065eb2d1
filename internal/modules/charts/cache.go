package charts

import (
	"sync"
	"time"
)

// Rendering a PNG is the expensive part, so finished images are held
// for a short TTL keyed by chart type and parameters.
const cacheTTL = 5 * time.Minute

type cacheEntry struct {
	createdAt time.Time
	image     []byte
}

type imageCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newImageCache() *imageCache {
	return &imageCache{entries: make(map[string]cacheEntry)}
}

func (c *imageCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		if time.Now().Before(entry.createdAt.Add(cacheTTL)) {
			img := make([]byte, len(entry.image))
			copy(img, entry.image)
			return img, true
		}
		delete(c.entries, key)
	}
	return nil, false
}

func (c *imageCache) set(key string, img []byte) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{createdAt: time.Now(), image: img}
	c.mu.Unlock()
}
