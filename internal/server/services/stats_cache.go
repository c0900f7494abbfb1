package services

import (
	"sync"
	"time"

	"github.com/lucasmateusli/equiptrack/pkg/models"
)

// StatsCache holds the dashboard counters for a short window so repeated
// GET /api/stats calls don't each hit the backend.
type StatsCache struct {
	mu      sync.Mutex
	stats   *models.EquipmentStats
	expires time.Time
	ttl     time.Duration
}

func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{ttl: ttl}
}

func (c *StatsCache) Get() *models.EquipmentStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil || time.Now().After(c.expires) {
		return nil
	}
	copied := *c.stats
	return &copied
}

func (c *StatsCache) Set(stats *models.EquipmentStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *stats
	c.stats = &copied
	c.expires = time.Now().Add(c.ttl)
}

// Invalidate drops the cached counters after any equipment mutation.
func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
}
