package dedupe

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache remembers recently archived document IDs. Entries expire after ttl
// and the least recently added entry is evicted once capacity is reached.
type Cache struct {
	lru *expirable.LRU[string, struct{}]
}

// NewCache creates a cache with the provided capacity and ttl.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{lru: expirable.NewLRU[string, struct{}](capacity, nil, ttl)}
}

// Contains reports whether id was added within the ttl window.
func (c *Cache) Contains(id string) bool {
	_, ok := c.lru.Peek(id)
	return ok
}

// Add records id as archived, restarting its ttl if already present.
func (c *Cache) Add(id string) {
	c.lru.Add(id, struct{}{})
}

// Len returns the number of tracked IDs.
func (c *Cache) Len() int {
	return c.lru.Len()
}
