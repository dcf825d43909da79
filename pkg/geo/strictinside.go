// pkg/geo/strictinside.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import "math"

// StrictInside is the predicate shared by the line generator,
// sequencer, and uncoverage repair: both endpoints inside, 2-8
// evenly spaced interior samples inside (count scaled by leg length),
// and the segment crossing no polygon edge. Concave polygons can
// otherwise fool an endpoints-only test.
func StrictInside(a, b Point, poly Polygon) bool {
	if !PointInPolygon(a, poly) || !PointInPolygon(b, poly) {
		return false
	}

	n := len(poly.Points)
	for i := 0; i < n; i++ {
		e0, e1 := poly.Points[i], poly.Points[(i+1)%n]
		if SegmentsIntersect(a, b, e0, e1) {
			// Allow touching at a or b themselves (shared endpoint
			// with a polygon vertex is not a true crossing).
			if pointsEqual(a, e0) || pointsEqual(a, e1) || pointsEqual(b, e0) || pointsEqual(b, e1) {
				continue
			}
			return false
		}
	}

	samples := sampleCount(Distance(a, b))
	for k := 1; k <= samples; k++ {
		t := float64(k) / float64(samples+1)
		p := Point{Lat: a.Lat + t*(b.Lat-a.Lat), Lng: a.Lng + t*(b.Lng-a.Lng)}
		if !PointInPolygon(p, poly) {
			return false
		}
	}
	return true
}

func sampleCount(lengthM float64) int {
	n := int(math.Round(lengthM / 20))
	if n < 2 {
		n = 2
	}
	if n > 8 {
		n = 8
	}
	return n
}

func pointsEqual(a, b Point) bool {
	const eps = 1e-9
	return math.Abs(a.Lat-b.Lat) < eps && math.Abs(a.Lng-b.Lng) < eps
}
