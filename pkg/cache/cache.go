// Package cache provides the two TTL caches backing the broadcast router: a
// general tier for authenticated dashboard queries and a public tier for the
// homepage. Entries past their TTL read as absent without being evicted;
// capacity overflow evicts the single oldest-inserted entry.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	timestamp time.Time
}

type Cache struct {
	Mutex    sync.RWMutex
	ttl      time.Duration
	capacity int
	entries  map[string]*entry
	order    []string
	now      func() time.Time
}

func New(ttl time.Duration, capacity int) *Cache {
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]*entry),
		order:    make([]string, 0, capacity),
		now:      time.Now,
	}
}

// Get returns the cached value for key if the entry is younger than the TTL.
// Stale entries are reported as misses but deliberately left in place; they
// are replaced on the next Set or dropped by write invalidation.
func (c *Cache) Get(key string) (any, bool) {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the current timestamp. Overwriting an
// existing key keeps its original insertion slot; a new key past capacity
// evicts the oldest-inserted entry.
func (c *Cache) Set(key string, value any) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.timestamp = c.now()
		return
	}
	c.entries[key] = &entry{value: value, timestamp: c.now()}
	c.order = append(c.order, key)
	if len(c.entries) > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Invalidate drops the entry for key, if present.
func (c *Cache) Invalidate(key string) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()
	return len(c.entries)
}
