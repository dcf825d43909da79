// pkg/coverage/coverage_test.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package coverage

import (
	"testing"

	"github.com/aerosurvey/planner/pkg/cache"
	"github.com/aerosurvey/planner/pkg/geo"
)

func bigSquare() geo.Polygon {
	// ~400m x 400m square at the equator.
	return geo.Polygon{Points: []geo.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.0036},
		{Lat: 0.0036, Lng: 0.0036},
		{Lat: 0.0036, Lng: 0},
	}}
}

func TestRepairFindsGapsWhenUncovered(t *testing.T) {
	poly := bigSquare()
	c := cache.New(nil, 0, 0)
	params := Params{PhotoWidth: 50, PhotoLength: 50, LineSpacing: 10, PointSpacing: 10, DirectionDeg: 0}

	// No existing waypoints at all: everything should be uncovered.
	result := Repair(poly, nil, params, c, nil)
	if result.Done {
		t.Errorf("expected repair to find gaps with zero existing waypoints")
	}
	if len(result.Waypoints) == 0 {
		t.Errorf("expected supplementary waypoints when nothing is covered")
	}
	for _, p := range result.Waypoints {
		if !geo.PointInPolygon(p, poly) {
			t.Errorf("supplementary waypoint %+v should be inside the polygon", p)
		}
	}
}

func TestRepairDoneWhenDensePlacement(t *testing.T) {
	poly := bigSquare()
	c := cache.New(nil, 0, 0)
	params := Params{PhotoWidth: 50, PhotoLength: 50, LineSpacing: 10, PointSpacing: 10, DirectionDeg: 0}

	// Densely cover the square with a fine grid of "existing" waypoints.
	var existing []geo.Point
	for lat := 0.0; lat <= 0.0036; lat += 0.0001 {
		for lng := 0.0; lng <= 0.0036; lng += 0.0001 {
			existing = append(existing, geo.Point{Lat: lat, Lng: lng})
		}
	}

	result := Repair(poly, existing, params, c, nil)
	if !result.Done {
		t.Errorf("expected dense existing coverage (%.1f%%) to satisfy the repair pass", result.CoveragePct)
	}
}

func TestDensityGate(t *testing.T) {
	params := Params{LineSpacing: 10, PointSpacing: 10}
	// expected density = 1/(10*10) = 0.01 per m^2
	if DensityGate(100, 10000, params) {
		t.Errorf("density at exactly expected should not trip the gate")
	}
	if !DensityGate(200, 10000, params) {
		t.Errorf("density well above 1.5x expected should trip the gate")
	}
}

func TestValidateSpacing(t *testing.T) {
	pts := []geo.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.0001}, // ~11m away
	}
	if _, _, ok := ValidateSpacing(pts, 20); ok {
		t.Errorf("points closer than 0.75*point_spacing should fail validation")
	}
	if _, _, ok := ValidateSpacing(pts, 5); !ok {
		t.Errorf("points farther than 0.75*point_spacing should pass validation")
	}
}

func TestOrderClustersBySizeKeepsAllClustersAndPrefersLarger(t *testing.T) {
	clusters := [][]geo.Point{
		make([]geo.Point, 1),
		make([]geo.Point, 8),
		make([]geo.Point, 3),
	}
	var largestFirstCount int
	const trials = 200
	for i := 0; i < trials; i++ {
		ordered := orderClustersBySize(clusters)
		if len(ordered) != len(clusters) {
			t.Fatalf("expected %d clusters, got %d", len(clusters), len(ordered))
		}
		total := 0
		for _, c := range ordered {
			total += len(c)
		}
		if total != 12 {
			t.Fatalf("expected all points preserved across reorder, got total %d", total)
		}
		if len(ordered[0]) == 8 {
			largestFirstCount++
		}
	}
	if largestFirstCount == 0 || largestFirstCount == trials {
		t.Errorf("expected the size-8 cluster to lead often but not always, got %d/%d", largestFirstCount, trials)
	}
}
