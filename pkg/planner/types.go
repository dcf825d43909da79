// pkg/planner/types.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import "github.com/aerosurvey/planner/pkg/geo"

// SweepParams mirrors spec.md §3.
type SweepParams struct {
	DirectionDeg                      float64
	PhotoWidthM, PhotoLengthM         float64
	SideOverlapPct, ForwardOverlapPct float64
	FlightHeightM                     float64
	StartPoint                        geo.Point
}

// LineSpacing is the derived perpendicular spacing between sweep
// lines.
func (p SweepParams) LineSpacing() float64 {
	return p.PhotoWidthM * (1 - p.SideOverlapPct/100)
}

// PointSpacing is the derived along-track spacing between waypoints.
func (p SweepParams) PointSpacing() float64 {
	return p.PhotoLengthM * (1 - p.ForwardOverlapPct/100)
}

// ObliqueParams mirrors spec.md §3: SweepParams plus a gimbal pitch
// and the target polygon.
type ObliqueParams struct {
	SweepParams
	GimbalPitchDeg float64
	Polygon        geo.Polygon
}

// Route mirrors spec.md §3.
type Route struct {
	DirectionDeg   float64
	GimbalPitchDeg float64
	Waypoints      []geo.Point
	DistanceM      float64
	Label          string
}

// PlanResult is the single-direction result shape of spec.md §3.
type PlanResult struct {
	Waypoints      []geo.Point
	TotalDistanceM float64
	TotalLines     int
}

// ObliqueResult is the multi-direction result shape of spec.md §3.
type ObliqueResult struct {
	Routes             []Route
	TotalDistanceM     float64
	TotalRouteCount    int
	Optimized          bool
	Rationale          string
	ExpandedPolygon    geo.Polygon
	ExpansionDistanceM float64
	EdgeCoveragePct    float64
}

// ExpandedAreaInfo is the result shape of the expandedAreaInfo entry
// point (spec.md §6).
type ExpandedAreaInfo struct {
	ExpandedPolygon    geo.Polygon
	ExpansionDistanceM float64
	OriginalAreaM2     float64
	ExpandedAreaM2     float64
	AreaIncreasePct    float64
}
