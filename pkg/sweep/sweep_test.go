// pkg/sweep/sweep_test.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sweep

import (
	"testing"

	"github.com/aerosurvey/planner/pkg/cache"
	"github.com/aerosurvey/planner/pkg/geo"
)

// unitSquare matches spec.md §8 scenario 1: a 100m square at the
// equator.
func unitSquare() geo.Polygon {
	return geo.Polygon{Points: []geo.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.000898},
		{Lat: 0.000898, Lng: 0.000898},
		{Lat: 0.000898, Lng: 0},
	}}
}

func TestGenerateUnitSquare(t *testing.T) {
	poly := unitSquare()
	c := cache.New(nil, 0, 0)
	anchor := geo.Centroid(poly)

	params := Params{DirectionDeg: 0, LineSpacing: 10, PointSpacing: 10}
	lines := Generate(poly, anchor, params, c, nil)

	if len(lines) == 0 {
		t.Fatalf("expected at least one surviving sweep line")
	}
	// ~100m / 10m spacing => roughly 10-11 lines.
	if len(lines) < 8 || len(lines) > 13 {
		t.Errorf("got %d lines, expected roughly 11", len(lines))
	}

	for _, line := range lines {
		for _, p := range line.Waypoints {
			if !geo.PointInPolygon(p, poly) {
				t.Errorf("waypoint %+v not inside polygon", p)
			}
		}
		for i := 0; i+1 < len(line.Waypoints); i++ {
			if !geo.StrictInside(line.Waypoints[i], line.Waypoints[i+1], poly) {
				t.Errorf("leg %d->%d in line offset %d not strictly inside", i, i+1, line.Offset)
			}
		}
	}
}

func TestGenerateFallsBackWhenTooFewLines(t *testing.T) {
	poly := unitSquare()
	c := cache.New(nil, 0, 0)
	anchor := geo.Centroid(poly)

	// Huge spacing relative to the polygon forces the primary
	// direction to yield fewer than 3 lines, triggering the
	// perpendicular/half-spacing fallback.
	params := Params{DirectionDeg: 0, LineSpacing: 200, PointSpacing: 50}
	lines := Generate(poly, anchor, params, c, nil)

	for _, line := range lines {
		for _, p := range line.Waypoints {
			if !geo.PointInPolygon(p, poly) {
				t.Errorf("fallback waypoint %+v not inside polygon", p)
			}
		}
	}
}
