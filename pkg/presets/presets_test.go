// pkg/presets/presets_test.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package presets

import (
	"testing"

	"github.com/aerosurvey/planner/pkg/geo"
)

func TestLookupKnownPreset(t *testing.T) {
	p, ok := Lookup("mavic3e-nadir-mapping")
	if !ok {
		t.Fatal("expected mavic3e-nadir-mapping to exist")
	}
	if p.PhotoWidthM <= 0 || p.PhotoLengthM <= 0 {
		t.Errorf("preset has non-positive photo dimensions: %+v", p)
	}
}

func TestLookupUnknownPreset(t *testing.T) {
	if _, ok := Lookup("does-not-exist"); ok {
		t.Error("expected does-not-exist preset to be absent")
	}
}

func TestSweepParamsCarriesFields(t *testing.T) {
	p, _ := Lookup("phantom4-corridor")
	start := geo.Point{Lat: 1, Lng: 2}
	sp := p.SweepParams(45, start)
	if sp.DirectionDeg != 45 || sp.StartPoint != start {
		t.Errorf("SweepParams did not carry direction/start through: %+v", sp)
	}
	if sp.PhotoWidthM != p.PhotoWidthM {
		t.Errorf("SweepParams did not carry photo width through")
	}
}

func TestObliqueParamsCarriesGimbalPitch(t *testing.T) {
	p, _ := Lookup("mavic3e-oblique-45")
	start := geo.Point{Lat: 1, Lng: 2}
	poly := geo.Polygon{Points: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}}
	op := p.ObliqueParams(45, start, poly)
	if op.GimbalPitchDeg != p.GimbalPitchDeg {
		t.Errorf("ObliqueParams did not carry GimbalPitchDeg through: got %v, want %v", op.GimbalPitchDeg, p.GimbalPitchDeg)
	}
	if op.DirectionDeg != 45 || op.StartPoint != start || len(op.Polygon.Points) != 3 {
		t.Errorf("ObliqueParams did not carry direction/start/polygon through: %+v", op)
	}
}

func TestNadirPresetPitchMagnitudeBelowObliqueThreshold(t *testing.T) {
	p, _ := Lookup("mavic3e-nadir-mapping")
	if pitch := p.GimbalPitchDeg; pitch > 0 || -pitch >= 15 {
		t.Errorf("mavic3e-nadir-mapping pitch %v is not nadir (|pitch| must be < 15 per spec.md §4.7)", pitch)
	}
}
