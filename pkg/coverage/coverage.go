// pkg/coverage/coverage.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package coverage implements the uncoverage-repair pass: adaptive
// grid sampling to find parts of the polygon the current waypoint
// set does not photograph, clustering of the gaps, and supplementary
// waypoint synthesis with global deduplication (spec.md §4.5).
package coverage

import (
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aerosurvey/planner/pkg/cache"
	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/log"
	"github.com/aerosurvey/planner/pkg/rand"
	"github.com/aerosurvey/planner/pkg/sweep"
)

const (
	minSamples          = 200
	maxSamples          = 1500
	targetCoveragePct   = 98.0
	dedupFraction       = 0.75
	clusterSpanFraction = 0.8

	metersPerDegree = 111320.0 // crude deg<->m conversion for local grid fallback
)

// Params bundles the photo/overlap-derived quantities the repair
// pass needs.
type Params struct {
	PhotoWidth, PhotoLength   float64
	LineSpacing, PointSpacing float64
	DirectionDeg              float64
}

func (p Params) coverageRadius() float64 {
	return 0.25 * math.Max(p.PhotoWidth, p.PhotoLength)
}

// Result reports the outcome of one repair pass.
type Result struct {
	Waypoints   []geo.Point // supplementary waypoints only, unordered
	CoveragePct float64
	Done        bool // true when no further repair pass is warranted
}

// Repair runs one uncoverage-repair pass against poly given the
// waypoints already planned (existing), returning any supplementary
// waypoints synthesized to cover the gaps.
func Repair(poly geo.Polygon, existing []geo.Point, params Params, c *cache.Cache, lg *log.Logger) Result {
	id := cache.IdentifyPolygon(poly)
	uncovered, coveragePct := sampleAndFilter(poly, existing, params, c, id)
	if len(uncovered) < 2 || coveragePct >= targetCoveragePct {
		return Result{CoveragePct: coveragePct, Done: true}
	}

	clusterRadius := math.Max(2*params.LineSpacing, 4*params.PointSpacing)
	clusters := orderClustersBySize(clusterPoints(uncovered, clusterRadius))

	allWaypoints := append([]geo.Point(nil), existing...)
	var supplementary []geo.Point

	for _, cluster := range clusters {
		candidates := synthesizeForCluster(cluster, poly, params, c, id, lg)
		for _, cand := range candidates {
			if tooClose(cand, allWaypoints, dedupFraction*params.PointSpacing) {
				continue
			}
			allWaypoints = append(allWaypoints, cand)
			supplementary = append(supplementary, cand)
		}
	}

	return Result{Waypoints: supplementary, CoveragePct: coveragePct, Done: false}
}

// sampleAndFilter grid-samples poly, keeps samples inside it, and
// classifies each as covered/uncovered based on distance to the
// nearest existing waypoint. This is one of the two designated
// data-parallel hot spots (spec.md §5): independent samples, no
// cross-item dependency.
func sampleAndFilter(poly geo.Polygon, existing []geo.Point, params Params, c *cache.Cache, id cache.PolygonID) ([]geo.Point, float64) {
	grid := gridSample(poly, params)
	radius := params.coverageRadius()

	var mu sync.Mutex
	var uncovered []geo.Point
	insideCount, coveredCount := 0, 0

	var eg errgroup.Group
	eg.SetLimit(16)
	for _, p := range grid {
		p := p
		eg.Go(func() error {
			if !c.PointInPolygon(p, poly, id) {
				return nil
			}
			covered := nearestDistance(p, existing) <= radius
			mu.Lock()
			insideCount++
			if covered {
				coveredCount++
			} else {
				uncovered = append(uncovered, p)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	coveragePct := 100.0
	if insideCount > 0 {
		coveragePct = 100.0 * float64(coveredCount) / float64(insideCount)
	}
	return uncovered, coveragePct
}

func gridCellSize(areaM2, baseGrid float64) float64 {
	switch {
	case areaM2 < 10000:
		return 0.2 * baseGrid
	case areaM2 < 100000:
		return 0.3 * baseGrid
	default:
		return 0.5 * baseGrid
	}
}

// gridSample implements spec.md §4.5 step 1: cell size scaled by
// polygon area, total sample count clamped to [200,1500] by scaling
// the cell size when the naive estimate overruns either bound.
func gridSample(poly geo.Polygon, params Params) []geo.Point {
	baseGrid := math.Min(params.PhotoWidth, params.PhotoLength)
	area := geo.Area(poly)
	cell := gridCellSize(area, baseGrid)

	bounds := geo.PolygonBounds(poly)
	widthM := geo.Distance(geo.Point{Lat: bounds.MinLat, Lng: bounds.MinLng}, geo.Point{Lat: bounds.MinLat, Lng: bounds.MaxLng})
	heightM := geo.Distance(geo.Point{Lat: bounds.MinLat, Lng: bounds.MinLng}, geo.Point{Lat: bounds.MaxLat, Lng: bounds.MinLng})

	estimate := (widthM/cell + 1) * (heightM/cell + 1)
	if estimate > maxSamples {
		cell *= math.Sqrt(estimate / maxSamples)
	} else if estimate > 0 && estimate < minSamples {
		scale := math.Sqrt(estimate / minSamples)
		if scale > 0 {
			cell *= scale
		}
	}

	nx := int(widthM/cell) + 1
	ny := int(heightM/cell) + 1
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}

	latSpan := bounds.MaxLat - bounds.MinLat
	lngSpan := bounds.MaxLng - bounds.MinLng

	var pts []geo.Point
	for i := 0; i <= ny; i++ {
		lat := bounds.MinLat
		if ny > 0 {
			lat += float64(i) / float64(ny) * latSpan
		}
		for j := 0; j <= nx; j++ {
			lng := bounds.MinLng
			if nx > 0 {
				lng += float64(j) / float64(nx) * lngSpan
			}
			pts = append(pts, geo.Point{Lat: lat, Lng: lng})
		}
	}
	return pts
}

func nearestDistance(p geo.Point, pts []geo.Point) float64 {
	if len(pts) == 0 {
		return math.Inf(1)
	}
	min := math.Inf(1)
	for _, q := range pts {
		if d := geo.Distance(p, q); d < min {
			min = d
		}
	}
	return min
}

// clusterPoints groups uncovered points by expanding-frontier
// adjacency: a point joins a cluster if it lies within radius of any
// point already in that cluster (spec.md §4.5 step 4).
func clusterPoints(pts []geo.Point, radius float64) [][]geo.Point {
	n := len(pts)
	assigned := make([]bool, n)
	var clusters [][]geo.Point

	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		cluster := []int{i}
		assigned[i] = true
		frontier := []int{i}
		for len(frontier) > 0 {
			var next []int
			for _, fi := range frontier {
				for j := 0; j < n; j++ {
					if assigned[j] {
						continue
					}
					if geo.Distance(pts[fi], pts[j]) <= radius {
						assigned[j] = true
						cluster = append(cluster, j)
						next = append(next, j)
					}
				}
			}
			frontier = next
		}
		group := make([]geo.Point, len(cluster))
		for k, idx := range cluster {
			group[k] = pts[idx]
		}
		clusters = append(clusters, group)
	}
	return clusters
}

// orderClustersBySize draws clusters without replacement, weighted by
// point count, so larger gaps are resolved (and claim any contested
// dedup radius against a neighboring cluster's candidate) before
// smaller ones. Clusters of equal size are drawn in random order
// rather than raster-scan discovery order, so the grid-sampling scan
// direction never systematically favors one side of the polygon over
// another across repeated repair passes.
func orderClustersBySize(clusters [][]geo.Point) [][]geo.Point {
	if len(clusters) <= 1 {
		return clusters
	}
	remaining := make([]int, len(clusters))
	for i := range remaining {
		remaining[i] = i
	}
	ordered := make([][]geo.Point, 0, len(clusters))
	for len(remaining) > 0 {
		picked, ok := rand.SampleWeighted(remaining, func(i int) int { return len(clusters[i]) })
		if !ok {
			break
		}
		ordered = append(ordered, clusters[picked])
		for i, v := range remaining {
			if v == picked {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return ordered
}

func clusterSpan(cluster []geo.Point) float64 {
	if len(cluster) < 2 {
		return 0
	}
	return geo.PolygonBounds(geo.Polygon{Points: cluster}).DiagonalMeters()
}

func clusterCentroid(cluster []geo.Point) geo.Point {
	return geo.Centroid(geo.Polygon{Points: cluster})
}

// synthesizeForCluster implements spec.md §4.5 step 5: a single
// waypoint for a small cluster, otherwise a reduced sweep centered on
// the cluster, falling back to a local axis-aligned grid if no sweep
// line survives.
func synthesizeForCluster(cluster []geo.Point, poly geo.Polygon, params Params, c *cache.Cache, id cache.PolygonID, lg *log.Logger) []geo.Point {
	span := clusterSpan(cluster)
	centroid := clusterCentroid(cluster)

	if span < clusterSpanFraction*params.LineSpacing {
		if c.PointInPolygon(centroid, poly, id) {
			return []geo.Point{centroid}
		}
		if p := nearestInPolygon(cluster, poly, c, id); p != nil {
			return []geo.Point{*p}
		}
		return nil
	}

	sweepParams := sweep.Params{
		DirectionDeg: params.DirectionDeg,
		LineSpacing:  params.LineSpacing,
		PointSpacing: params.PointSpacing,
	}
	lines := sweep.Generate(poly, centroid, sweepParams, c, lg)
	radius := params.coverageRadius()

	var kept []geo.Point
	for _, line := range lines {
		for _, p := range line.Waypoints {
			if nearestDistance(p, cluster) <= radius {
				kept = append(kept, p)
			}
		}
	}
	if len(kept) > 0 {
		return kept
	}

	lg.Warnf("coverage: no sweep line survived for a cluster, falling back to a local grid")
	return localGrid(cluster, poly, params, c, id)
}

func nearestInPolygon(cluster []geo.Point, poly geo.Polygon, c *cache.Cache, id cache.PolygonID) *geo.Point {
	for _, p := range cluster {
		if c.PointInPolygon(p, poly, id) {
			pp := p
			return &pp
		}
	}
	return nil
}

func localGrid(cluster []geo.Point, poly geo.Polygon, params Params, c *cache.Cache, id cache.PolygonID) []geo.Point {
	bounds := geo.PolygonBounds(geo.Polygon{Points: cluster})
	radius := params.coverageRadius()
	step := params.PointSpacing
	latStep := step / metersPerDegree
	lngStep := step / metersPerDegree

	var out []geo.Point
	for lat := bounds.MinLat; lat <= bounds.MaxLat+latStep/2; lat += latStep {
		for lng := bounds.MinLng; lng <= bounds.MaxLng+lngStep/2; lng += lngStep {
			p := geo.Point{Lat: lat, Lng: lng}
			if !c.PointInPolygon(p, poly, id) {
				continue
			}
			if nearestDistance(p, cluster) <= radius {
				out = append(out, p)
			}
		}
	}
	return out
}

func tooClose(p geo.Point, existing []geo.Point, threshold float64) bool {
	for _, q := range existing {
		if geo.Distance(p, q) < threshold {
			return true
		}
	}
	return false
}

// DensityGate reports whether the stricter spacing validator should
// run, per spec.md §4.5's density gate: only when observed waypoint
// density exceeds 1.5x the expected density for the given spacings.
func DensityGate(waypointCount int, polygonAreaM2 float64, params Params) bool {
	if polygonAreaM2 <= 0 || params.LineSpacing <= 0 || params.PointSpacing <= 0 {
		return false
	}
	density := float64(waypointCount) / polygonAreaM2
	expected := 1.0 / (params.LineSpacing * params.PointSpacing)
	return density > 1.5*expected
}

// ValidateSpacing checks that no two waypoints lie closer than
// 0.75*point_spacing, returning the index pair of the first violation
// found, or ok=true if none.
func ValidateSpacing(pts []geo.Point, pointSpacing float64) (i, j int, ok bool) {
	threshold := dedupFraction * pointSpacing
	for a := 0; a < len(pts); a++ {
		for b := a + 1; b < len(pts); b++ {
			if geo.Distance(pts[a], pts[b]) < threshold {
				return a, b, false
			}
		}
	}
	return -1, -1, true
}
