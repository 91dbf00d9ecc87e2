package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/pattern-edge/internal/metrics"
)

// windowKey identifies one cached window computation.
type windowKey struct {
	Competition string
	Pattern     string
	Days        int
	Day         time.Time
}

// String returns the string form used as the cache key.
func (k windowKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%s", k.Competition, k.Pattern, k.Days, k.Day.Format("2006-01-02"))
}

// windowCounts is the cached portion of a window statistic. Rates and weights
// are derived at assembly time, so only the scan result is stored.
type windowCounts struct {
	Count int
	Hits  int
}

// WindowCache memoizes window scans. The corpus is immutable within a run,
// so a (competition, pattern, window, day) scan always yields the same
// counts; the cache is never a source of truth, only a shortcut.
type WindowCache struct {
	cache  *cache.Cache
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewWindowCache creates a window cache with the given entry TTL.
func NewWindowCache(ttl time.Duration) *WindowCache {
	return &WindowCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves cached window counts.
func (wc *WindowCache) Get(key windowKey) (windowCounts, bool) {
	if value, found := wc.cache.Get(key.String()); found {
		if counts, ok := value.(windowCounts); ok {
			wc.hits.Add(1)
			metrics.RecordCacheHit()
			wc.updateMetrics()
			return counts, true
		}
	}
	wc.misses.Add(1)
	metrics.RecordCacheMiss()
	wc.updateMetrics()
	return windowCounts{}, false
}

// Set stores window counts.
func (wc *WindowCache) Set(key windowKey, counts windowCounts) {
	wc.cache.Set(key.String(), counts, wc.ttl)
}

// Stats returns cache statistics.
func (wc *WindowCache) Stats() (hits, misses int64, ratio float64) {
	hits = wc.hits.Load()
	misses = wc.misses.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached entries.
func (wc *WindowCache) ItemCount() int {
	return wc.cache.ItemCount()
}

// Clear flushes the cache and resets the counters.
func (wc *WindowCache) Clear() {
	wc.cache.Flush()
	wc.hits.Store(0)
	wc.misses.Store(0)
	wc.updateMetrics()
}

// updateMetrics exports the cache gauges.
func (wc *WindowCache) updateMetrics() {
	_, _, ratio := wc.Stats()
	metrics.UpdateCacheStats(ratio, wc.ItemCount())
}
