package cache

import (
	"sort"
	"sync"
	"time"
)

// EvictionPolicy selects which entries go first when the table is full.
type EvictionPolicy int

const (
	// EvictOldest removes entries by creation time, oldest first.
	EvictOldest EvictionPolicy = iota
	// EvictColdest removes entries by (hit count, creation time) ascending,
	// an approximation of LRU that favors entries with fewer total hits.
	EvictColdest
)

type entry[T any] struct {
	value     T
	createdAt time.Time
	hitCount  uint64
}

func (e *entry[T]) expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.createdAt) > ttl
}

// Cache is a TTL-expiring key/value table with bounded size. Expired entries
// are removed lazily by the read that discovers them; there is no background
// sweep. All operations are safe for concurrent use, and no operation blocks
// on anything but the table mutex.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	maxSize int
	ttl     time.Duration
	policy  EvictionPolicy
	hits    uint64
	misses  uint64

	now func() time.Time // overridable in tests
}

func New[T any](maxSize int, ttl time.Duration, policy EvictionPolicy) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]*entry[T]),
		maxSize: maxSize,
		ttl:     ttl,
		policy:  policy,
		now:     time.Now,
	}
}

// Get returns the cached value for key. A missing or expired key is a miss;
// an expired entry is deleted on the read that finds it.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		if !e.expired(c.ttl, c.now()) {
			e.hitCount++
			c.hits++
			return e.value, true
		}
		delete(c.entries, key)
	}

	var zero T
	c.misses++
	return zero, false
}

// Set stores value under key. When the table is at capacity it evicts 10%
// of the entries (at least one) by the configured policy before inserting,
// so the table never exceeds maxSize after Set returns.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evict()
	}

	c.entries[key] = &entry[T]{value: value, createdAt: c.now()}
}

// evict removes max(1, maxSize/10) entries. Caller holds the lock.
func (c *Cache[T]) evict() {
	numToRemove := c.maxSize / 10
	if numToRemove < 1 {
		numToRemove = 1
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}

	switch c.policy {
	case EvictColdest:
		sort.Slice(keys, func(i, j int) bool {
			a, b := c.entries[keys[i]], c.entries[keys[j]]
			if a.hitCount != b.hitCount {
				return a.hitCount < b.hitCount
			}
			return a.createdAt.Before(b.createdAt)
		})
	default:
		sort.Slice(keys, func(i, j int) bool {
			return c.entries[keys[i]].createdAt.Before(c.entries[keys[j]].createdAt)
		})
	}

	if numToRemove > len(keys) {
		numToRemove = len(keys)
	}
	for _, k := range keys[:numToRemove] {
		delete(c.entries, k)
	}
}

// Clear drops all entries and resets the hit/miss counters.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry[T])
	c.hits = 0
	c.misses = 0
}

// Stats is a point-in-time snapshot of one cache table.
type Stats struct {
	Size                int     `json:"size"`
	MaxSize             int     `json:"max_size"`
	Hits                uint64  `json:"hits"`
	Misses              uint64  `json:"misses"`
	HitRate             float64 `json:"hit_rate"`
	TotalRequests       uint64  `json:"total_requests"`
	EstimatedSavingsUSD float64 `json:"estimated_savings_usd,omitempty"`
}

func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}

	return Stats{
		Size:          len(c.entries),
		MaxSize:       c.maxSize,
		Hits:          c.hits,
		Misses:        c.misses,
		HitRate:       round2(hitRate),
		TotalRequests: total,
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
