package cache

import (
	"sync"
	"time"

	"github.com/gridfall/outbreak/internal/model"
)

// Places caches reverse-geocoded places keyed by rounded coordinate grid
// cell. The geocoder is rate limited and slow, so lookups on the hot path
// must resolve from memory.
type Places struct {
	mu      sync.RWMutex
	entries map[string]placeEntry
	ttl     time.Duration
	now     func() time.Time
}

type placeEntry struct {
	place   model.Place
	expires time.Time
}

// NewPlaces creates a place cache. A zero ttl means entries never expire.
func NewPlaces(ttl time.Duration) *Places {
	return &Places{
		entries: make(map[string]placeEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a cached place by grid key.
func (c *Places) Get(key string) (model.Place, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return model.Place{}, false
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return model.Place{}, false
	}
	return e.place, true
}

// Add stores a place by grid key.
func (c *Places) Add(key string, p model.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = placeEntry{place: p, expires: c.now().Add(c.ttl)}
}

// Warm preloads the cache, e.g. from persisted places at startup.
func (c *Places) Warm(places []model.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := c.now().Add(c.ttl)
	for _, p := range places {
		c.entries[p.Key] = placeEntry{place: p, expires: exp}
	}
}

// Len returns the number of cached entries, counting expired ones that have
// not been touched yet.
func (c *Places) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset clears the cache.
func (c *Places) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]placeEntry)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
