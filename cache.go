package calendarApi

import (
	"fmt"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotisserie/eris"
	"github.com/tomroth04/calendarAPI/types"
)

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// HolidayCache keeps holiday answers for a fixed time-to-live. An entry older
// than the TTL counts as absent and is dropped when it is next looked up.
// The number of keys is bounded; when full, the least recently used key goes.
type HolidayCache struct {
	// mu makes the expiry check and its removal one step against Set
	mu      sync.Mutex
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

// CacheStatus describes the cache for status pages
type CacheStatus struct {
	Size int           `json:"size"`
	Keys []string      `json:"keys"`
	TTL  time.Duration `json:"timeout"`
}

// NewHolidayCache builds a cache holding at most size keys. now may be nil.
func NewHolidayCache(size int, ttl time.Duration, now func() time.Time) (*HolidayCache, error) {
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, eris.Wrap(err, "error creating holiday cache")
	}
	if now == nil {
		now = time.Now
	}
	return &HolidayCache{entries: entries, ttl: ttl, now: now}, nil
}

func (c *HolidayCache) Get(key string) (any, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if now.Sub(entry.storedAt) >= c.ttl {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (c *HolidayCache) Set(key string, value any) {
	storedAt := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, cacheEntry{value: value, storedAt: storedAt})
}

func (c *HolidayCache) Invalidate(key string) {
	c.entries.Remove(key)
}

func (c *HolidayCache) InvalidateAll() {
	c.entries.Purge()
}

// Contains reports whether key holds a live entry, without touching its recency
func (c *HolidayCache) Contains(key string) bool {
	entry, ok := c.entries.Peek(key)
	return ok && c.now().Sub(entry.storedAt) < c.ttl
}

func (c *HolidayCache) Status() CacheStatus {
	keys := c.entries.Keys()
	sort.Strings(keys)
	return CacheStatus{Size: len(keys), Keys: keys, TTL: c.ttl}
}

func yearCacheKey(year int, countryCode string) string {
	return fmt.Sprintf("holidays-year-%d-%s", year, countryCode)
}

func rangeCacheKey(start types.Date, end types.Date, countryCode string) string {
	return fmt.Sprintf("holidays-range-%s-%s-%s", start, end, countryCode)
}
