// Package cache provides a thread-safe, in-memory key-value store with
// TTL-based expiration and size-bounded eviction. It fronts the on-disk
// blob store so hot avatars are served without filesystem reads.
package cache

import (
	"log"
	"sort"
	"sync"
	"time"

	"rav/pkg/logger"
	"rav/pkg/utils"
)

const (
	DefaultMaxSizeMB = 100
	DefaultTTL       = 30 * time.Minute

	// GCInterval: expired items cleanup frequency. Kept coarse to avoid
	// frequent locking overhead.
	GCInterval = 5 * time.Minute

	// Items above this size are left to the OS page cache; storing them
	// in the Go heap only creates GC pressure.
	maxItemSize = 512 * 1024
)

type Item struct {
	Data      []byte
	ExpiresAt time.Time
	Size      int64
}

type MemoryCache struct {
	sync.RWMutex
	items     map[string]Item
	totalSize int64
	maxSize   int64
	ttl       time.Duration
	enabled   bool
}

// New initializes the in-memory cache. A disabled cache runs in
// pass-through mode: Set is a no-op and Get always misses.
func New(enabled bool, limitMB int, ttl time.Duration) *MemoryCache {
	if limitMB <= 0 {
		limitMB = DefaultMaxSizeMB
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &MemoryCache{
		maxSize: int64(limitMB) * 1024 * 1024,
		ttl:     ttl,
		enabled: enabled,
	}

	if c.enabled {
		c.items = make(map[string]Item)
		go c.startGC()
		logger.LogInfo("Memory cache initialized: %d MB limit, TTL: %s", limitMB, ttl)
	} else {
		logger.LogWarn("Memory cache is DISABLED via config (running in pass-through mode).")
	}
	return c
}

// Set stores a value with the configured TTL. Oversized items are skipped
// to preserve RAM for high-frequency small avatars.
func (c *MemoryCache) Set(key string, data []byte) {
	if !c.enabled {
		return
	}

	size := int64(len(data))
	if size > maxItemSize || size > c.maxSize/2 {
		return
	}

	c.Lock()
	defer c.Unlock()

	if c.totalSize+size > c.maxSize {
		c.prune()
	}

	if oldItem, exists := c.items[key]; exists {
		c.totalSize -= oldItem.Size
	}

	c.items[key] = Item{
		Data:      data,
		ExpiresAt: time.Now().Add(c.ttl),
		Size:      size,
	}
	c.totalSize += size
}

// Get retrieves an item if it exists and hasn't expired.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	c.RLock()
	defer c.RUnlock()

	item, found := c.items[key]
	if !found || time.Now().After(item.ExpiresAt) {
		return nil, false
	}
	return item.Data, true
}

// Delete explicitly removes an item from the cache.
func (c *MemoryCache) Delete(key string) {
	if !c.enabled {
		return
	}

	c.Lock()
	defer c.Unlock()

	if item, found := c.items[key]; found {
		delete(c.items, key)
		c.totalSize -= item.Size
	}
}

// prune evicts items sorted by expiration time until memory usage drops
// below 80% of capacity. Caller must hold the write lock.
func (c *MemoryCache) prune() {
	if len(c.items) == 0 {
		return
	}

	targetSize := int64(float64(c.maxSize) * 0.80)

	type candidate struct {
		key       string
		expiresAt time.Time
		size      int64
	}

	candidates := make([]candidate, 0, len(c.items))
	for k, v := range c.items {
		candidates = append(candidates, candidate{k, v.ExpiresAt, v.Size})
	}

	// Items that expire soonest go first.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].expiresAt.Before(candidates[j].expiresAt)
	})

	for _, cand := range candidates {
		if c.totalSize <= targetSize {
			break
		}
		delete(c.items, cand.key)
		c.totalSize -= cand.size
	}
}

// startGC is a background worker that removes expired items.
func (c *MemoryCache) startGC() {
	ticker := time.NewTicker(GCInterval)
	for range ticker.C {
		c.Lock()
		now := time.Now()
		removedCount := 0
		removedBytes := int64(0)

		for k, v := range c.items {
			if now.After(v.ExpiresAt) {
				delete(c.items, k)
				c.totalSize -= v.Size
				removedBytes += v.Size
				removedCount++
			}
		}
		c.Unlock()

		if removedCount > 0 {
			log.Printf("[CACHE] GC: cleaned %d items (%s freed)", removedCount, utils.FormatBytes(removedBytes))
		}
	}
}
