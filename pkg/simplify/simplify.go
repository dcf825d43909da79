// pkg/simplify/simplify.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package simplify collapses sequences of near-collinear waypoints
// lying on one sweep leg while preserving true turn points
// (spec.md §4.6).
package simplify

import "github.com/aerosurvey/planner/pkg/geo"

const (
	// DefaultAngleToleranceDeg is tau_ang; a point is a turn when its
	// bearing change exceeds 5x this.
	DefaultAngleToleranceDeg = 2.0
	// DefaultMinSegmentLengthM is advisory per spec.md §4.6 and is
	// not otherwise enforced by this implementation.
	DefaultMinSegmentLengthM = 10.0

	turnAngleMultiplier    = 5.0
	longLegMultiplier      = 3.0
	maxPerpDeviationMeters = 3.0
)

// Simplify removes non-turn interior points from pts using the
// default tolerances.
func Simplify(pts []geo.Point) []geo.Point {
	return SimplifyWithParams(pts, DefaultAngleToleranceDeg, DefaultMinSegmentLengthM)
}

// SimplifyWithParams removes non-turn interior points from pts. The
// first and last points are always kept.
func SimplifyWithParams(pts []geo.Point, tauAngDeg, _ float64) []geo.Point {
	n := len(pts)
	if n <= 2 {
		return append([]geo.Point(nil), pts...)
	}

	out := make([]geo.Point, 0, n)
	out = append(out, pts[0])
	segStart := 0

	for i := 1; i < n-1; i++ {
		b1 := geo.Bearing(pts[i-1], pts[i])
		b2 := geo.Bearing(pts[i], pts[i+1])
		diff := geo.HeadingDifference(b1, b2)
		legLen := geo.Distance(pts[i-1], pts[i])
		neighborAvg := neighborLegAverage(pts, i)

		isTurn := diff > turnAngleMultiplier*tauAngDeg ||
			(neighborAvg > 0 && legLen > longLegMultiplier*neighborAvg)

		if isTurn {
			out = append(out, pts[i])
			segStart = i
			continue
		}

		if maxPerpDeviation(pts, segStart, i) > maxPerpDeviationMeters {
			// Deviation exceeded: close the running segment at the
			// previous point and restart from it.
			out = append(out, pts[i-1])
			segStart = i - 1
		}
	}

	out = append(out, pts[n-1])
	return out
}

func neighborLegAverage(pts []geo.Point, i int) float64 {
	var sum float64
	var count int
	if i-2 >= 0 {
		sum += geo.Distance(pts[i-2], pts[i-1])
		count++
	}
	if i+2 < len(pts) {
		sum += geo.Distance(pts[i+1], pts[i+2])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func maxPerpDeviation(pts []geo.Point, segStart, i int) float64 {
	var max float64
	for j := segStart + 1; j < i; j++ {
		d := geo.PointLineDistance(pts[j], pts[segStart], pts[i])
		if d > max {
			max = d
		}
	}
	return max
}
