package calendarApi

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomroth04/calendarAPI/types"
)

// fakeClock is a manually advanced clock shared by cache and client tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, size int, clock *fakeClock) *HolidayCache {
	t.Helper()
	c, err := NewHolidayCache(size, 30*time.Minute, clock.Now)
	require.NoError(t, err)
	return c
}

func TestHolidayCache_GetAfterSet(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	c := newTestCache(t, 16, clock)

	keys := []string{
		yearCacheKey(2025, "KR"),
		rangeCacheKey(types.MustParseDate("2025-01-01"), types.MustParseDate("2025-01-31"), "KR"),
		"anything",
	}
	for i, key := range keys {
		c.Set(key, i)
		got, ok := c.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, i, got)
	}
}

func TestHolidayCache_ExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	c := newTestCache(t, 16, clock)

	c.Set("holidays-year-2025-KR", "list")

	clock.Advance(29 * time.Minute)
	_, ok := c.Get("holidays-year-2025-KR")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("holidays-year-2025-KR")
	assert.False(t, ok)

	// the stale entry is gone, not just hidden
	assert.Equal(t, 0, c.Status().Size)
}

func TestHolidayCache_ExpiredGetKeepsConcurrentSet(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	var c *HolidayCache
	armed := false
	var err error
	c, err = NewHolidayCache(8, 30*time.Minute, func() time.Time {
		now := clock.Now()
		if armed {
			// a writer refreshes the key while the expired read is in progress
			armed = false
			c.Set("k", "fresh")
		}
		return now
	})
	require.NoError(t, err)

	c.Set("k", "stale")
	clock.Advance(31 * time.Minute)
	armed = true

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
	assert.True(t, c.Contains("k"))
}

func TestHolidayCache_Invalidate(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCache(t, 16, clock)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.InvalidateAll()
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Empty(t, c.Status().Keys)
}

func TestHolidayCache_BoundedSize(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCache(t, 3, clock)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	status := c.Status()
	assert.Equal(t, 3, status.Size)
	assert.Equal(t, []string{"key-2", "key-3", "key-4"}, status.Keys)
	assert.Equal(t, 30*time.Minute, status.TTL)

	_, ok := c.Get("key-0")
	assert.False(t, ok)
}

func TestHolidayCache_Contains(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCache(t, 4, clock)

	c.Set("a", 1)
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))

	clock.Advance(31 * time.Minute)
	assert.False(t, c.Contains("a"))
}

func TestNewHolidayCache_InvalidSize(t *testing.T) {
	_, err := NewHolidayCache(0, time.Minute, nil)
	assert.Error(t, err)
}
