package cache

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
)

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryPageCache keeps pages in process. Time is read from an injected
// clock so expiry can be driven by tests.
type MemoryPageCache struct {
	mu      sync.RWMutex
	clock   clock.Clock
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryPageCache(clk clock.Clock, ttl time.Duration) *MemoryPageCache {
	if clk == nil {
		clk = clock.WallClock
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryPageCache{
		clock:   clk,
		ttl:     ttl,
		entries: map[string]memoryEntry{},
	}
}

func (c *MemoryPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		c.mu.Lock()
		// another writer may have refreshed the entry meanwhile
		if cur, ok := c.entries[key]; ok && !c.clock.Now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.body, true, nil
}

func (c *MemoryPageCache) Set(ctx context.Context, key string, body []byte) error {
	stored := make([]byte, len(body))
	copy(stored, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{body: stored, expiresAt: c.clock.Now().Add(c.ttl)}
	return nil
}

func (c *MemoryPageCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]memoryEntry{}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryPageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
