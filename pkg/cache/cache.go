// pkg/cache/cache.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package cache memoizes the four pure-function results the planner
// recomputes most often: distance, point-in-polygon, line-polygon
// intersection, and polygon bounds. Entries are plain value types
// keyed by rounded coordinates and a content hash of the polygon, so
// a caller that mutates a Polygon in place invalidates its own
// entries rather than reading stale hits.
package cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/log"
	"github.com/aerosurvey/planner/pkg/util"
)

const (
	// DefaultSize is the default per-map entry-count threshold; a sweep
	// empties every map holding more than half of it.
	DefaultSize = 10000
	// DefaultSweepInterval is the default elapsed time between purge
	// sweeps (spec.md §4.2).
	DefaultSweepInterval = 5 * time.Minute
	// entryTTL bounds how long any single entry can live regardless
	// of sweep timing; generous relative to DefaultSweepInterval so
	// TTL eviction is a backstop, not the primary mechanism.
	entryTTL = 30 * time.Minute
)

// PolygonID is a stable content-hash identity for a Polygon, used as
// part of cache keys that depend on a polygon's shape. It is computed
// from vertices rounded to 8 decimal places folded with the vertex
// count, so two independently constructed but equal polygons share
// cache entries (spec.md §9, SPEC_FULL.md §5 decision 4).
type PolygonID uint64

// IdentifyPolygon returns the content-hash identity of poly.
func IdentifyPolygon(poly geo.Polygon) PolygonID {
	s := make([]byte, 0, len(poly.Points)*24)
	for _, p := range poly.Points {
		s = fmt.Appendf(s, "%.8f,%.8f;", p.Lat, p.Lng)
	}
	s = fmt.Appendf(s, "#%d", len(poly.Points))
	return PolygonID(util.HashString64(string(s)))
}

// Cache bundles the four memo tables. The zero value is not usable;
// construct with New.
type Cache struct {
	lg *log.Logger

	mu          util.LoggingMutex
	size        int
	lastSweep   time.Time
	sweepEvery  time.Duration
	distance    *lru.LRU[string, float64]
	pointInPoly *lru.LRU[string, bool]
	lineXPoly   *lru.LRU[string, []geo.Point]
	bounds      *lru.LRU[PolygonID, geo.Bounds]

	sweeping util.AtomicBool
	stats    Stats
}

// recentDurationWindow bounds how many of the most recent plan
// durations Stats keeps around for diagnostics, beyond the running
// total/count spec.md §5 requires.
const recentDurationWindow = 32

// Stats accumulates planning-duration totals for the two
// performance counters spec.md §5 requires to stay consistent under
// concurrent updates, plus a bounded rolling window of the most
// recent durations for diagnostics.
type Stats struct {
	util.DurationStats

	recentMu sync.Mutex
	recent   *util.RingBuffer[time.Duration]
}

// New constructs a Cache with the given per-map size threshold and
// sweep interval. Pass 0 / 0 to use DefaultSize / DefaultSweepInterval.
func New(lg *log.Logger, size int, sweepEvery time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if sweepEvery <= 0 {
		sweepEvery = DefaultSweepInterval
	}
	c := &Cache{
		lg:         lg,
		size:       size,
		sweepEvery: sweepEvery,
		lastSweep:  time.Now(),
	}
	c.stats.recent = util.NewRingBuffer[time.Duration](recentDurationWindow)
	c.allocate()
	return c
}

func (c *Cache) allocate() {
	c.distance = lru.NewLRU[string, float64](c.size, nil, entryTTL)
	c.pointInPoly = lru.NewLRU[string, bool](c.size, nil, entryTTL)
	c.lineXPoly = lru.NewLRU[string, []geo.Point](c.size, nil, entryTTL)
	c.bounds = lru.NewLRU[PolygonID, geo.Bounds](c.size, nil, entryTTL)
}

// Reset clears all four maps and the timers; exposed for test
// isolation between planning scenarios (spec.md §9).
func (c *Cache) Reset() {
	c.mu.Lock(c.lg)
	defer c.mu.Unlock(c.lg)
	c.allocate()
	c.lastSweep = time.Now()
	c.stats.Reset()
	c.stats.recentMu.Lock()
	c.stats.recent = util.NewRingBuffer[time.Duration](recentDurationWindow)
	c.stats.recentMu.Unlock()
}

// maybeSweepLocked purges any map whose size exceeds half the threshold,
// if either the size threshold was exceeded or the sweep interval has
// elapsed since the last sweep. Must be called with c.mu held.
func (c *Cache) maybeSweepLocked() {
	overSize := c.distance.Len() > c.size || c.pointInPoly.Len() > c.size ||
		c.lineXPoly.Len() > c.size || c.bounds.Len() > c.size
	elapsed := time.Since(c.lastSweep) > c.sweepEvery
	if !overSize && !elapsed {
		return
	}

	c.sweeping.Store(true)
	defer c.sweeping.Store(false)

	half := c.size / 2
	purge := func(n int, purgeFn func()) {
		if n > half {
			purgeFn()
		}
	}
	purge(c.distance.Len(), func() { c.distance.Purge() })
	purge(c.pointInPoly.Len(), func() { c.pointInPoly.Purge() })
	purge(c.lineXPoly.Len(), func() { c.lineXPoly.Purge() })
	purge(c.bounds.Len(), func() { c.bounds.Purge() })

	c.lastSweep = time.Now()
	c.lg.Debugf("cache sweep: overSize=%v elapsed=%v", overSize, elapsed)
}

func distanceKey(a, b geo.Point) string {
	return fmt.Sprintf("%.8f,%.8f|%.8f,%.8f", a.Lat, a.Lng, b.Lat, b.Lng)
}

// Distance returns the cached great-circle distance between a and b,
// computing and storing it on a miss.
func (c *Cache) Distance(a, b geo.Point) float64 {
	key := distanceKey(a, b)
	c.mu.Lock(c.lg)
	if v, ok := c.distance.Get(key); ok {
		c.mu.Unlock(c.lg)
		return v
	}
	c.maybeSweepLocked()
	c.mu.Unlock(c.lg)

	v := geo.Distance(a, b)
	c.mu.Lock(c.lg)
	c.distance.Add(key, v)
	c.mu.Unlock(c.lg)
	return v
}

func pointInPolyKey(p geo.Point, id PolygonID) string {
	return fmt.Sprintf("%.8f,%.8f#%d", p.Lat, p.Lng, id)
}

// PointInPolygon returns the cached containment test for p against
// poly (identified by id, see IdentifyPolygon).
func (c *Cache) PointInPolygon(p geo.Point, poly geo.Polygon, id PolygonID) bool {
	key := pointInPolyKey(p, id)
	c.mu.Lock(c.lg)
	if v, ok := c.pointInPoly.Get(key); ok {
		c.mu.Unlock(c.lg)
		return v
	}
	c.maybeSweepLocked()
	c.mu.Unlock(c.lg)

	v := geo.PointInPolygon(p, poly)
	c.mu.Lock(c.lg)
	c.pointInPoly.Add(key, v)
	c.mu.Unlock(c.lg)
	return v
}

func lineXPolyKey(a, b geo.Point, id PolygonID) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f#%d", a.Lat, a.Lng, b.Lat, b.Lng, id)
}

// LinePolygonIntersections returns the cached crossings of line a-b
// against poly (identified by id).
func (c *Cache) LinePolygonIntersections(a, b geo.Point, poly geo.Polygon, id PolygonID) []geo.Point {
	key := lineXPolyKey(a, b, id)
	c.mu.Lock(c.lg)
	if v, ok := c.lineXPoly.Get(key); ok {
		c.mu.Unlock(c.lg)
		return v
	}
	c.maybeSweepLocked()
	c.mu.Unlock(c.lg)

	v := geo.LinePolygonIntersections(a, b, poly)
	c.mu.Lock(c.lg)
	c.lineXPoly.Add(key, v)
	c.mu.Unlock(c.lg)
	return v
}

// Bounds returns the cached bounding box of poly (identified by id).
func (c *Cache) Bounds(poly geo.Polygon, id PolygonID) geo.Bounds {
	c.mu.Lock(c.lg)
	if v, ok := c.bounds.Get(id); ok {
		c.mu.Unlock(c.lg)
		return v
	}
	c.maybeSweepLocked()
	c.mu.Unlock(c.lg)

	v := geo.PolygonBounds(poly)
	c.mu.Lock(c.lg)
	c.bounds.Add(id, v)
	c.mu.Unlock(c.lg)
	return v
}

// RecordPlanDuration records one planning call's elapsed time into
// the shared performance counters (spec.md §5), plus a bounded
// recent-durations window used only for diagnostics.
func (c *Cache) RecordPlanDuration(d time.Duration) {
	c.stats.Record(d)
	c.stats.recentMu.Lock()
	c.stats.recent.Add(d)
	c.stats.recentMu.Unlock()
}

// AveragePlanDuration returns total/count of recorded plan durations.
func (c *Cache) AveragePlanDuration() time.Duration {
	return c.stats.Average()
}

// RecentPlanDurations returns up to the last recentDurationWindow
// plan durations, oldest first, for diagnostics/logging.
func (c *Cache) RecentPlanDurations() []time.Duration {
	c.stats.recentMu.Lock()
	defer c.stats.recentMu.Unlock()
	n := c.stats.recent.Size()
	out := make([]time.Duration, n)
	for i := 0; i < n; i++ {
		out[i] = c.stats.recent.Get(i)
	}
	return out
}

// Snapshot is a point-in-time, JSON-serializable view of the cache's
// health, suitable for a status endpoint or periodic log line.
type Snapshot struct {
	Sweeping            util.AtomicBool `json:"sweeping"`
	DistanceEntries     int             `json:"distance_entries"`
	PointInPolyEntries  int             `json:"point_in_poly_entries"`
	LineXPolyEntries    int             `json:"line_x_poly_entries"`
	BoundsEntries       int             `json:"bounds_entries"`
	AveragePlanDuration time.Duration   `json:"average_plan_duration_ns"`
}

// Snapshot returns the cache's current entry counts and sweep status.
// Sweeping is read without c.mu held, so it may briefly lag an
// in-progress sweep; that's acceptable for a diagnostic snapshot.
func (c *Cache) Snapshot() Snapshot {
	s := Snapshot{AveragePlanDuration: c.AveragePlanDuration()}
	s.Sweeping.Store(c.sweeping.Load())
	c.mu.Lock(c.lg)
	s.DistanceEntries = c.distance.Len()
	s.PointInPolyEntries = c.pointInPoly.Len()
	s.LineXPolyEntries = c.lineXPoly.Len()
	s.BoundsEntries = c.bounds.Len()
	c.mu.Unlock(c.lg)
	return s
}
