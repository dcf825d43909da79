// pkg/simplify/simplify_test.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simplify

import (
	"testing"

	"github.com/aerosurvey/planner/pkg/geo"
)

func TestSimplifyCollapsesCollinearRun(t *testing.T) {
	// Ten points on a straight east-west line.
	var pts []geo.Point
	for i := 0; i < 10; i++ {
		pts = append(pts, geo.Point{Lat: 0, Lng: float64(i) * 0.0001})
	}
	out := Simplify(pts)
	if len(out) != 2 {
		t.Errorf("collinear run should collapse to endpoints, got %d points", len(out))
	}
}

func TestSimplifyPreservesTurn(t *testing.T) {
	pts := []geo.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.0005},
		{Lat: 0, Lng: 0.001}, // 90-degree turn here
		{Lat: 0.0005, Lng: 0.001},
		{Lat: 0.001, Lng: 0.001},
	}
	out := Simplify(pts)
	found := false
	for _, p := range out {
		if p.Lat == 0 && p.Lng == 0.001 {
			found = true
		}
	}
	if !found {
		t.Errorf("turn point should be preserved, got %v", out)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	var pts []geo.Point
	for i := 0; i < 6; i++ {
		pts = append(pts, geo.Point{Lat: 0, Lng: float64(i) * 0.0002})
	}
	pts = append(pts, geo.Point{Lat: 0.0005, Lng: 0.001})
	pts = append(pts, geo.Point{Lat: 0.001, Lng: 0.001})

	once := Simplify(pts)
	twice := Simplify(once)

	if len(once) != len(twice) {
		t.Fatalf("simplifier should be idempotent: once=%d twice=%d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("idempotence mismatch at index %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestSimplifyKeepsEndpoints(t *testing.T) {
	pts := []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}
	out := Simplify(pts)
	if len(out) != 2 {
		t.Errorf("a two-point sequence should be returned unchanged, got %d", len(out))
	}
}
