// pkg/export/csv.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aerosurvey/planner/pkg/planner"
)

var csvHeader = []string{"route_index", "direction_deg", "gimbal_pitch_deg", "waypoint_index", "lat", "lng"}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 8, 64) }

// PlanResultCSV writes one row per waypoint for a single-direction
// PlanResult (route_index is always 0, gimbal_pitch_deg is always 0).
func PlanResultCSV(w io.Writer, result planner.PlanResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, p := range result.Waypoints {
		row := []string{"0", "0", "0", strconv.Itoa(i), ftoa(p.Lat), ftoa(p.Lng)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// ObliqueResultCSV writes one row per waypoint across all routes of
// an ObliqueResult, tagging each with its route/direction/pitch.
func ObliqueResultCSV(w io.Writer, result planner.ObliqueResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for ri, route := range result.Routes {
		for wi, p := range route.Waypoints {
			row := []string{
				strconv.Itoa(ri),
				ftoa(route.DirectionDeg),
				ftoa(route.GimbalPitchDeg),
				strconv.Itoa(wi),
				ftoa(p.Lat),
				ftoa(p.Lng),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}
