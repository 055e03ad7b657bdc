package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"ga4-dashboard/internal/models"
)

// maxCacheEntries bounds the memo cache; a session only ever needs the
// current upload, so a small bound is plenty.
const maxCacheEntries = 8

// tableCache memoizes parsed tables keyed by content hash so the same
// upload is never re-transformed across UI interactions.
type tableCache struct {
	mu      sync.RWMutex
	entries map[string]*models.Table
}

func newTableCache() *tableCache {
	return &tableCache{entries: make(map[string]*models.Table)}
}

// ContentKey identifies an upload by its bytes.
func ContentKey(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (c *tableCache) get(key string) (*models.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[key]
	return t, ok
}

func (c *tableCache) put(key string, t *models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= maxCacheEntries {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = t
}

func (c *tableCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
