package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
)

const defaultTTL = time.Minute

// ReportCache is a short-lived in-memory cache for assembled comparison
// reports. Report generation is read-only and idempotent for a fixed
// wall-clock day, so identical requests within the TTL can share a result
// instead of re-running the aggregation fan-out.
type ReportCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

type entry struct {
	report    entity.Report
	expiresAt time.Time
}

// New creates a report cache with the given TTL
func New(ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &ReportCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
	go c.cleanup()
	return c
}

// Key derives the cache key from everything that affects the report body.
// The request id and actor are deliberately excluded.
func Key(period entity.PeriodRequest, mode entity.ComparisonMode, filter entity.DimensionFilter) string {
	var b strings.Builder
	b.WriteString(string(period.Kind))
	if !period.Start.IsZero() {
		b.WriteString("|" + period.Start.Format("2006-01-02"))
	}
	if !period.End.IsZero() {
		b.WriteString("|" + period.End.Format("2006-01-02"))
	}
	b.WriteString("|" + string(mode))
	if filter.VendorID != nil {
		b.WriteString(fmt.Sprintf("|v%d", *filter.VendorID))
	}
	if filter.CategoryID != nil {
		b.WriteString(fmt.Sprintf("|c%d", *filter.CategoryID))
	}
	return b.String()
}

// Get returns a cached report if one is still fresh
func (c *ReportCache) Get(key string) (entity.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return entity.Report{}, false
	}
	return e.report, true
}

// Set stores a freshly assembled report
func (c *ReportCache) Set(key string, rep entity.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		report:    rep,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries
func (c *ReportCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
