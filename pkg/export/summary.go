// pkg/export/summary.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package export

import (
	"encoding/json"

	"github.com/aerosurvey/planner/pkg/planner"
)

// PlanSummary is the JSON summary of a single-direction plan.
type PlanSummary struct {
	WaypointCount  int     `json:"waypoint_count"`
	TotalDistanceM float64 `json:"total_distance_m"`
	TotalLines     int     `json:"total_lines"`
}

// PlanResultSummary builds the JSON summary for a PlanResult.
func PlanResultSummary(result planner.PlanResult) ([]byte, error) {
	return json.MarshalIndent(PlanSummary{
		WaypointCount:  len(result.Waypoints),
		TotalDistanceM: result.TotalDistanceM,
		TotalLines:     result.TotalLines,
	}, "", "  ")
}

// RouteSummary is one route's entry in an ObliqueSummary.
type RouteSummary struct {
	DirectionDeg   float64 `json:"direction_deg"`
	GimbalPitchDeg float64 `json:"gimbal_pitch_deg"`
	Label          string  `json:"label"`
	WaypointCount  int     `json:"waypoint_count"`
	DistanceM      float64 `json:"distance_m"`
}

// ObliqueSummary is the JSON summary of a multi-direction oblique
// plan.
type ObliqueSummary struct {
	Routes             []RouteSummary `json:"routes"`
	TotalDistanceM     float64        `json:"total_distance_m"`
	TotalRouteCount    int            `json:"total_route_count"`
	Optimized          bool           `json:"optimized"`
	Rationale          string         `json:"rationale"`
	ExpansionDistanceM float64        `json:"expansion_distance_m"`
	EdgeCoveragePct    float64        `json:"edge_coverage_pct"`
}

// ObliqueResultSummary builds the JSON summary for an ObliqueResult.
func ObliqueResultSummary(result planner.ObliqueResult) ([]byte, error) {
	routes := make([]RouteSummary, len(result.Routes))
	for i, r := range result.Routes {
		routes[i] = RouteSummary{
			DirectionDeg:   r.DirectionDeg,
			GimbalPitchDeg: r.GimbalPitchDeg,
			Label:          r.Label,
			WaypointCount:  len(r.Waypoints),
			DistanceM:      r.DistanceM,
		}
	}
	return json.MarshalIndent(ObliqueSummary{
		Routes:             routes,
		TotalDistanceM:     result.TotalDistanceM,
		TotalRouteCount:    result.TotalRouteCount,
		Optimized:          result.Optimized,
		Rationale:          result.Rationale,
		ExpansionDistanceM: result.ExpansionDistanceM,
		EdgeCoveragePct:    result.EdgeCoveragePct,
	}, "", "  ")
}
