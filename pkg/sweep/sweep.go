// pkg/sweep/sweep.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sweep generates the parallel-line sweep family clipped to
// a polygon, with per-line waypoint sequences honoring along-track
// spacing (spec.md §4.3).
package sweep

import (
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aerosurvey/planner/pkg/cache"
	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/log"
	"github.com/aerosurvey/planner/pkg/util"
)

// Line is one surviving sweep line: an ordered, in-polygon waypoint
// sequence.
type Line struct {
	Waypoints []geo.Point
	Offset    int // k in k*lineSpacing, signed
}

// Params bundles the sweep direction and spacings the generator
// needs; point_spacing/line_spacing are expected to already be
// derived from photo dimensions and overlaps per spec.md §3.
type Params struct {
	DirectionDeg float64
	LineSpacing  float64
	PointSpacing float64
}

const (
	minK            = 20
	maxK            = 100
	chordShrinkFrac = 0.02
	centroidBiasFor = 0.10
)

// Generate emits the parallel sweep-line family for poly anchored at
// anchor (the start point when inside, otherwise the polygon
// centroid), per spec.md §4.3. Work across offsets k is
// data-parallel, bounded by a worker limit, matching spec.md §5's
// "line generator... is a hot parallel spot."
func Generate(poly geo.Polygon, anchor geo.Point, params Params, c *cache.Cache, lg *log.Logger) []Line {
	id := cache.IdentifyPolygon(poly)
	bounds := c.Bounds(poly, id)
	d := bounds.DiagonalMeters()

	k := int(math.Ceil(d/params.LineSpacing)) + 10
	if k < minK {
		k = minK
	}
	if k > maxK {
		k = maxK
	}

	offsets := make([]int, 0, 2*k+1)
	for i := -k; i <= k; i++ {
		offsets = append(offsets, i)
	}

	lines := generateForOffsets(poly, anchor, params, offsets, c, id, lg)
	if len(lines) >= 3 {
		return lines
	}

	// Fallback: retry perpendicular with half line spacing (spec.md §4.3).
	lg.Warnf("sweep: only %d lines survived, retrying perpendicular at half spacing", len(lines))
	fallback := Params{
		DirectionDeg: geo.NormalizeHeading(params.DirectionDeg + 90),
		LineSpacing:  params.LineSpacing / 2,
		PointSpacing: params.PointSpacing,
	}
	k2 := int(math.Ceil(d/fallback.LineSpacing)) + 10
	if k2 < minK {
		k2 = minK
	}
	if k2 > maxK {
		k2 = maxK
	}
	offsets2 := make([]int, 0, 2*k2+1)
	for i := -k2; i <= k2; i++ {
		offsets2 = append(offsets2, i)
	}
	return generateForOffsets(poly, anchor, fallback, offsets2, c, id, lg)
}

func generateForOffsets(poly geo.Polygon, anchor geo.Point, params Params, offsets []int, c *cache.Cache, id cache.PolygonID, lg *log.Logger) []Line {
	bounds := c.Bounds(poly, id)
	dExtend := 2 * bounds.DiagonalMeters()
	perp := geo.NormalizeHeading(params.DirectionDeg + 90)

	var mu sync.Mutex
	var results []Line
	var eg errgroup.Group
	eg.SetLimit(16)

	for _, k := range offsets {
		k := k
		eg.Go(func() error {
			line, ok := buildLine(poly, anchor, params, perp, dExtend, k, c, id, lg)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, line)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Offset < results[j].Offset })
	return results
}

func buildLine(poly geo.Polygon, anchor geo.Point, params Params, perp, dExtend float64, k int, c *cache.Cache, id cache.PolygonID, lg *log.Logger) (Line, bool) {
	offsetM := float64(k) * params.LineSpacing
	center := anchor
	if k != 0 {
		center = geo.Offset(anchor, perp, offsetM)
	}
	lineStart := geo.Offset(center, params.DirectionDeg, -dExtend)
	lineEnd := geo.Offset(center, params.DirectionDeg, dExtend)

	crossings := c.LinePolygonIntersections(lineStart, lineEnd, poly, id)
	if len(crossings) < 2 {
		return Line{}, false
	}

	sortAlongDirection(crossings, lineStart, params.DirectionDeg)

	var chords [][2]geo.Point
	for i := 0; i+1 < len(crossings); i += 2 {
		chords = append(chords, [2]geo.Point{crossings[i], crossings[i+1]})
	}

	for _, chord := range chords {
		s, e := shrinkChord(chord[0], chord[1], chordShrinkFrac)
		if !geo.StrictInside(s, e, poly) {
			continue
		}
		wps, ok := emitWaypoints(s, e, poly, params.PointSpacing, lg)
		if !ok || len(wps) < 2 {
			continue
		}
		return Line{Waypoints: wps, Offset: k}, true
	}
	return Line{}, false
}

func sortAlongDirection(pts []geo.Point, origin geo.Point, directionDeg float64) {
	sort.Slice(pts, func(i, j int) bool {
		return projectAlong(pts[i], origin, directionDeg) < projectAlong(pts[j], origin, directionDeg)
	})
}

func projectAlong(p, origin geo.Point, directionDeg float64) float64 {
	d := geo.Distance(origin, p)
	b := geo.Bearing(origin, p)
	diff := geo.HeadingDifference(b, directionDeg)
	return util.Select(diff > 90, -1.0, 1.0) * d
}

func shrinkChord(a, b geo.Point, frac float64) (geo.Point, geo.Point) {
	s := lerpPoint(a, b, frac)
	e := lerpPoint(a, b, 1-frac)
	return s, e
}

func lerpPoint(a, b geo.Point, t float64) geo.Point {
	return geo.Point{Lat: a.Lat + t*(b.Lat-a.Lat), Lng: a.Lng + t*(b.Lng-a.Lng)}
}

func emitWaypoints(s, e geo.Point, poly geo.Polygon, pointSpacing float64, lg *log.Logger) ([]geo.Point, bool) {
	length := geo.Distance(s, e)
	n := int(math.Ceil(length/pointSpacing)) + 1
	if n < 2 {
		n = 2
	}

	centroid := geo.Centroid(poly)
	pts := make([]geo.Point, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		p := lerpPoint(s, e, t)
		if !geo.PointInPolygon(p, poly) {
			return nil, false
		}
		pts = append(pts, p)
	}

	for i := 0; i+1 < len(pts); i++ {
		if geo.StrictInside(pts[i], pts[i+1], poly) {
			continue
		}
		// Midpoint rescue biased 10% toward the centroid.
		mid := lerpPoint(pts[i], pts[i+1], 0.5)
		rescued := lerpPoint(mid, centroid, centroidBiasFor)
		if geo.PointInPolygon(rescued, poly) &&
			geo.StrictInside(pts[i], rescued, poly) && geo.StrictInside(rescued, pts[i+1], poly) {
			newPts := make([]geo.Point, 0, len(pts)+1)
			newPts = append(newPts, pts[:i+1]...)
			newPts = append(newPts, rescued)
			newPts = append(newPts, pts[i+1:]...)
			pts = newPts
			i++ // skip past the rescued point on the next iteration
			continue
		}
		lg.Debugf("sweep: leg %d->%d not strictly inside and rescue failed", i, i+1)
		return nil, false
	}
	return pts, true
}
