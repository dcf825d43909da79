// pkg/cache/cache_test.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package cache

import (
	"encoding/json"
	"testing"

	"github.com/aerosurvey/planner/pkg/geo"
)

func testSquare() geo.Polygon {
	return geo.Polygon{Points: []geo.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.001},
		{Lat: 0.001, Lng: 0.001},
		{Lat: 0.001, Lng: 0},
	}}
}

func TestIdentifyPolygonStableAndContentBased(t *testing.T) {
	a := testSquare()
	b := testSquare() // independently constructed, equal content
	if IdentifyPolygon(a) != IdentifyPolygon(b) {
		t.Errorf("equal polygons built independently should share an identity")
	}

	c := testSquare()
	c.Points[0].Lat += 0.0001
	if IdentifyPolygon(a) == IdentifyPolygon(c) {
		t.Errorf("mutated polygon should get a new identity")
	}
}

func TestDistanceCacheHit(t *testing.T) {
	c := New(nil, 0, 0)
	a := geo.Point{Lat: 0, Lng: 0}
	b := geo.Point{Lat: 0.001, Lng: 0.001}

	d1 := c.Distance(a, b)
	d2 := c.Distance(a, b)
	if d1 != d2 {
		t.Errorf("cached distance should be stable across calls, got %v then %v", d1, d2)
	}
}

func TestPointInPolygonCache(t *testing.T) {
	c := New(nil, 0, 0)
	poly := testSquare()
	id := IdentifyPolygon(poly)
	p := geo.Point{Lat: 0.0005, Lng: 0.0005}

	if !c.PointInPolygon(p, poly, id) {
		t.Errorf("center point should be inside")
	}
	if !c.PointInPolygon(p, poly, id) {
		t.Errorf("cached lookup should agree with the first call")
	}
}

func TestResetClearsEntries(t *testing.T) {
	c := New(nil, 0, 0)
	a := geo.Point{Lat: 0, Lng: 0}
	b := geo.Point{Lat: 0.001, Lng: 0.001}
	c.Distance(a, b)
	if c.distance.Len() == 0 {
		t.Fatalf("expected a cached entry before Reset")
	}
	c.Reset()
	if c.distance.Len() != 0 {
		t.Errorf("Reset should clear the distance map, got %d entries", c.distance.Len())
	}
	if c.AveragePlanDuration() != 0 {
		t.Errorf("Reset should clear the duration stats")
	}
}

func TestBoundsCache(t *testing.T) {
	c := New(nil, 0, 0)
	poly := testSquare()
	id := IdentifyPolygon(poly)
	b := c.Bounds(poly, id)
	if b.MinLat != 0 || b.MaxLat != 0.001 {
		t.Errorf("bounds = %+v, expected lat range [0, 0.001]", b)
	}
}

func TestDurationStatsAverage(t *testing.T) {
	c := New(nil, 0, 0)
	c.RecordPlanDuration(100)
	c.RecordPlanDuration(200)
	if avg := c.AveragePlanDuration(); avg != 150 {
		t.Errorf("average duration = %v, expected 150", avg)
	}
}

func TestRecentPlanDurations(t *testing.T) {
	c := New(nil, 0, 0)
	c.RecordPlanDuration(10)
	c.RecordPlanDuration(20)
	c.RecordPlanDuration(30)
	recent := c.RecentPlanDurations()
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent durations, got %d", len(recent))
	}
	if recent[0] != 10 || recent[2] != 30 {
		t.Errorf("recent durations out of order: %v", recent)
	}
}

func TestSnapshotReflectsEntriesAndMarshalsToJSON(t *testing.T) {
	c := New(nil, 0, 0)
	a := geo.Point{Lat: 0, Lng: 0}
	b := geo.Point{Lat: 0.001, Lng: 0.001}
	c.Distance(a, b)

	snap := c.Snapshot()
	if snap.DistanceEntries != 1 {
		t.Errorf("expected 1 distance entry, got %d", snap.DistanceEntries)
	}
	if snap.Sweeping.Load() {
		t.Errorf("cache should not be mid-sweep outside maybeSweepLocked")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("snapshot did not marshal to valid JSON: %s", data)
	}
}
