// pkg/sequence/sequence.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sequence orders a family of clipped sweep lines into one
// snake path, alternating traversal direction and synthesizing
// in-polygon bridge points whenever a direct leg between lines would
// leave the polygon (spec.md §4.4).
package sequence

import (
	"math"
	"sort"

	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/log"
	"github.com/aerosurvey/planner/pkg/sweep"
	"github.com/aerosurvey/planner/pkg/util"
)

const bridgeSearchDepth = 3 // 3x3 two-point attempts, spec.md §9 open question 2

// Sequence orders lines into a snake path starting near start,
// returning the concatenated waypoint list.
func Sequence(lines []sweep.Line, start geo.Point, poly geo.Polygon, lg *log.Logger) []geo.Point {
	if len(lines) == 0 {
		return nil
	}

	ordered := orderLines(lines, start)
	centroid := geo.Centroid(poly)

	var out []geo.Point
	flip := false
	for i, line := range ordered {
		wps := util.DuplicateSlice(line.Waypoints)
		if flip {
			util.ReverseSliceInPlace(wps)
		}

		if i > 0 && len(out) > 0 {
			tail := out[len(out)-1]
			head := wps[0]
			if !geo.StrictInside(tail, head, poly) {
				if bridge, ok := synthesizeBridge(tail, head, centroid, poly); ok {
					out = append(out, bridge...)
				} else {
					lg.Warnf("sequence: no bridge found between line %d and %d, leaving leg for cleanup", i-1, i)
				}
			}
		}

		out = append(out, wps...)
		flip = !flip
	}

	return finalCleanup(out, poly, centroid, lg)
}

func orderLines(lines []sweep.Line, start geo.Point) []sweep.Line {
	type mid struct {
		line sweep.Line
		pt   geo.Point
	}
	mids := make([]mid, len(lines))
	var minLat, maxLat, minLng, maxLng = math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	for i, l := range lines {
		mids[i] = mid{line: l, pt: midpoint(l.Waypoints)}
		minLat = math.Min(minLat, mids[i].pt.Lat)
		maxLat = math.Max(maxLat, mids[i].pt.Lat)
		minLng = math.Min(minLng, mids[i].pt.Lng)
		maxLng = math.Max(maxLng, mids[i].pt.Lng)
	}

	byLat := (maxLat - minLat) >= (maxLng - minLng)
	sort.Slice(mids, func(i, j int) bool {
		if byLat {
			return mids[i].pt.Lat < mids[j].pt.Lat
		}
		return mids[i].pt.Lng < mids[j].pt.Lng
	})

	ordered := make([]sweep.Line, len(mids))
	for i, m := range mids {
		ordered[i] = m.line
	}

	distFirst := geo.Distance(start, mids[0].pt)
	distLast := geo.Distance(start, mids[len(mids)-1].pt)
	if distLast < distFirst {
		util.ReverseSliceInPlace(ordered)
	}
	return ordered
}

func midpoint(pts []geo.Point) geo.Point {
	if len(pts) == 0 {
		return geo.Point{}
	}
	return pts[len(pts)/2]
}

// Bridge synthesizes an in-polygon bridge between tail and head,
// exported so uncoverage repair (spec.md §4.5 step 7) can connect a
// supplementary segment onto the existing route with the same rules.
func Bridge(tail, head, centroid geo.Point, poly geo.Polygon) ([]geo.Point, bool) {
	return synthesizeBridge(tail, head, centroid, poly)
}

// synthesizeBridge implements spec.md §4.4 step 3: centroid-first,
// then fractional/ring candidates, then a bounded two-point search.
func synthesizeBridge(tail, head, centroid geo.Point, poly geo.Polygon) ([]geo.Point, bool) {
	if geo.StrictInside(tail, centroid, poly) && geo.StrictInside(centroid, head, poly) {
		return []geo.Point{centroid}, true
	}

	candidates := bridgeCandidates(tail, head, centroid)
	for _, c := range candidates {
		if !geo.PointInPolygon(c, poly) {
			continue
		}
		if geo.StrictInside(tail, c, poly) && geo.StrictInside(c, head, poly) {
			return []geo.Point{c}, true
		}
	}

	for i := 0; i < bridgeSearchDepth && i < len(candidates); i++ {
		c1 := candidates[i]
		if !geo.PointInPolygon(c1, poly) || !geo.StrictInside(tail, c1, poly) {
			continue
		}
		for j := 0; j < bridgeSearchDepth && j < len(candidates); j++ {
			c2 := candidates[j]
			if !geo.PointInPolygon(c2, poly) {
				continue
			}
			if geo.StrictInside(c1, c2, poly) && geo.StrictInside(c2, head, poly) {
				return []geo.Point{c1, c2}, true
			}
		}
	}

	return nil, false
}

func bridgeCandidates(tail, head, centroid geo.Point) []geo.Point {
	var out []geo.Point
	fracs := []float64{1.0 / 5, 2.0 / 5, 3.0 / 5, 4.0 / 5}
	biases := []float64{0.10, 0.20, 0.30}
	for i, f := range fracs {
		base := geo.Point{Lat: tail.Lat + f*(head.Lat-tail.Lat), Lng: tail.Lng + f*(head.Lng-tail.Lng)}
		bias := biases[i%len(biases)]
		out = append(out, geo.Point{
			Lat: base.Lat + bias*(centroid.Lat-base.Lat),
			Lng: base.Lng + bias*(centroid.Lng-base.Lng),
		})
	}

	thLen := geo.Distance(tail, head)
	for _, frac := range []float64{0.05, 0.1, 0.15} {
		radius := thLen * frac
		for _, bearing := range []float64{0, 90, 180, 270} {
			out = append(out, geo.Offset(centroid, bearing, radius))
		}
	}
	return out
}

// finalCleanup walks the accumulated list; for each leg that is not
// strictly inside, attempts one bridge insertion, and if that still
// fails, drops the trailing endpoint and continues (spec.md §4.4
// step 4 / §7's InternalInvariantViolation handling).
func finalCleanup(pts []geo.Point, poly geo.Polygon, centroid geo.Point, lg *log.Logger) []geo.Point {
	if len(pts) < 2 {
		return pts
	}
	out := []geo.Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		tail := out[len(out)-1]
		head := pts[i]
		if geo.StrictInside(tail, head, poly) {
			out = append(out, head)
			continue
		}
		if bridge, ok := synthesizeBridge(tail, head, centroid, poly); ok {
			out = append(out, bridge...)
			out = append(out, head)
			continue
		}
		lg.Errorf("sequence: dropping unreachable leg from %+v to %+v after cleanup", tail, head)
	}
	return out
}
