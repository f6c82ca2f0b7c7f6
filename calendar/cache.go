package calendar

import (
	"sync"
)

// yearInfo holds the per-year sums both conversion directions share.
type yearInfo struct {
	// length is the year's total day count, leap and intercalary aware.
	length int64
	// weekdayLength counts only the days that advance the weekday cycle.
	weekdayLength int64
}

// defaultYearCacheSize bounds the per-snapshot year cache.
const defaultYearCacheSize = 1024

// yearCache memoizes yearInfo per year. It belongs to one definition
// snapshot and is dropped wholesale when the definition is swapped, so
// entries never go stale and need no TTL.
type yearCache struct {
	mu         sync.RWMutex
	entries    map[int]yearInfo
	maxEntries int
}

func newYearCache(maxEntries int) *yearCache {
	if maxEntries < 1 {
		maxEntries = defaultYearCacheSize
	}
	return &yearCache{
		entries:    make(map[int]yearInfo),
		maxEntries: maxEntries,
	}
}

func (c *yearCache) get(year int) (yearInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.entries[year]
	return info, ok
}

func (c *yearCache) put(year int, info yearInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		// Entries are cheap to recompute; a full reset beats bookkeeping
		// an eviction order.
		c.entries = make(map[int]yearInfo)
	}
	c.entries[year] = info
}
