package services

import (
	"sync"
	"time"

	"altesse/internal/models"
)

// WidgetCache holds the last computed widget stats with a TTL
type WidgetCache struct {
	mu        sync.RWMutex
	widget    *models.WidgetStats
	cacheTime time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewWidgetCache(ttl time.Duration) *WidgetCache {
	return &WidgetCache{
		ttl: ttl,
		now: time.Now,
	}
}

// isCacheValid checks if cache is still valid
func (wc *WidgetCache) isCacheValid() bool {
	return wc.widget != nil && wc.now().Sub(wc.cacheTime) < wc.ttl
}

// Get returns the cached widget stats, or nil when stale
func (wc *WidgetCache) Get() *models.WidgetStats {
	wc.mu.RLock()
	defer wc.mu.RUnlock()

	if !wc.isCacheValid() {
		return nil
	}
	return wc.widget
}

func (wc *WidgetCache) Set(widget *models.WidgetStats) {
	wc.mu.Lock()
	defer wc.mu.Unlock()

	wc.widget = widget
	wc.cacheTime = wc.now()
}

// Clear drops the cached value
func (wc *WidgetCache) Clear() {
	wc.mu.Lock()
	defer wc.mu.Unlock()

	wc.widget = nil
}
