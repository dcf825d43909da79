// pkg/presets/presets.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package presets holds a small named table of camera/overlap presets
// for cmd/surveyplan to default from. It is plain glue, not a planning
// component (spec.md §1 names preset catalogs as thin, out-of-scope
// surface).
package presets

import (
	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/planner"
	"github.com/aerosurvey/planner/pkg/util"
)

// Preset bundles a named camera + overlap configuration.
type Preset struct {
	Name              string
	PhotoWidthM       float64
	PhotoLengthM      float64
	SideOverlapPct    float64
	ForwardOverlapPct float64
	FlightHeightM     float64
	GimbalPitchDeg    float64
}

// SweepParams converts a Preset plus a direction and start point into
// a full planner.SweepParams. It does not carry GimbalPitchDeg, since
// SweepParams itself has no pitch field (spec.md §3); use ObliqueParams
// for oblique/expanded-area calls, which does.
func (p Preset) SweepParams(directionDeg float64, start geo.Point) planner.SweepParams {
	return planner.SweepParams{
		DirectionDeg:      directionDeg,
		PhotoWidthM:       p.PhotoWidthM,
		PhotoLengthM:      p.PhotoLengthM,
		SideOverlapPct:    p.SideOverlapPct,
		ForwardOverlapPct: p.ForwardOverlapPct,
		FlightHeightM:     p.FlightHeightM,
		StartPoint:        start,
	}
}

// ObliqueParams converts a Preset plus a direction, start point, and
// target polygon into a full planner.ObliqueParams, carrying the
// preset's GimbalPitchDeg through so a preset actually drives oblique
// direction-count selection (spec.md §4.7) rather than being
// overridden by the caller's own pitch.
func (p Preset) ObliqueParams(directionDeg float64, start geo.Point, poly geo.Polygon) planner.ObliqueParams {
	return planner.ObliqueParams{
		SweepParams:    p.SweepParams(directionDeg, start),
		GimbalPitchDeg: p.GimbalPitchDeg,
		Polygon:        poly,
	}
}

// Catalog lists the built-in presets, keyed by name. GimbalPitchDeg
// follows spec.md §4.7's convention: magnitude near 0 is nadir
// (straight down), larger magnitude is more oblique.
var Catalog = map[string]Preset{
	"mavic3e-nadir-mapping": {
		Name:              "DJI Mavic 3E nadir mapping",
		PhotoWidthM:       120,
		PhotoLengthM:      90,
		SideOverlapPct:    70,
		ForwardOverlapPct: 80,
		FlightHeightM:     80,
		GimbalPitchDeg:    -5,
	},
	"mavic3e-oblique-45": {
		Name:              "DJI Mavic 3E oblique 45°",
		PhotoWidthM:       120,
		PhotoLengthM:      90,
		SideOverlapPct:    75,
		ForwardOverlapPct: 80,
		FlightHeightM:     80,
		GimbalPitchDeg:    -45,
	},
	"phantom4-corridor": {
		Name:              "DJI Phantom 4 corridor inspection",
		PhotoWidthM:       60,
		PhotoLengthM:      45,
		SideOverlapPct:    60,
		ForwardOverlapPct: 75,
		FlightHeightM:     40,
		GimbalPitchDeg:    -30,
	},
	"m300-high-altitude": {
		Name:              "DJI Matrice 300 high-altitude survey",
		PhotoWidthM:       200,
		PhotoLengthM:      150,
		SideOverlapPct:    65,
		ForwardOverlapPct: 75,
		FlightHeightM:     120,
		GimbalPitchDeg:    -8,
	},
}

// Lookup returns the named preset and whether it exists.
func Lookup(name string) (Preset, bool) {
	p, ok := Catalog[name]
	return p, ok
}

// Names returns the catalog's keys sorted alphabetically, for
// listing available presets in a CLI's usage text.
func Names() []string {
	return util.SortedMapKeys(Catalog)
}
