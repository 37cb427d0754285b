package cache

import (
	"sync"
	"time"

	"momskitchen-hub/internal/domain"
)

// cacheEntry is a resolved profile with its expiry.
type cacheEntry struct {
	profile   domain.Profile
	expiresAt time.Time
}

// ProfileCache provides thread-safe in-memory caching of resolved
// profiles with TTL, keyed per identity class by credential cache key.
// Implements domain.ProfileCache.
type ProfileCache struct {
	mu      sync.RWMutex
	entries map[domain.Class]map[string]*cacheEntry
	ttl     time.Duration
}

// NewProfileCache creates a cache with the specified TTL.
func NewProfileCache(ttl time.Duration) *ProfileCache {
	c := &ProfileCache{
		entries: map[domain.Class]map[string]*cacheEntry{
			domain.ClassUser: make(map[string]*cacheEntry),
			domain.ClassMom:  make(map[string]*cacheEntry),
		},
		ttl: ttl,
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached profile for the class.
func (c *ProfileCache) Get(class domain.Class, key string) (domain.Profile, bool) {
	if key == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[class][key]
	if !found || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.profile, true
}

// Set stores a resolved profile for the class.
func (c *ProfileCache) Set(class domain.Class, key string, profile domain.Profile) {
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[class][key] = &cacheEntry{
		profile:   profile,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Drop removes one entry, forcing the next resolution to hit the backend.
func (c *ProfileCache) Drop(class domain.Class, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries[class], key)
}

// cleanup removes expired entries.
func (c *ProfileCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, class := range c.entries {
		for key, entry := range class {
			if now.After(entry.expiresAt) {
				delete(class, key)
			}
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *ProfileCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}
