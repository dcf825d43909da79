// pkg/export/geojson.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package export renders planner results into the wire formats
// spec.md §6 names: GeoJSON, CSV, and a JSON summary. These are
// implementation-free translations of the result structures, so they
// are built directly on encoding/json and encoding/csv rather than a
// domain library.
package export

import (
	"encoding/json"

	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/planner"
	"github.com/aerosurvey/planner/pkg/util"
)

// Feature is a minimal GeoJSON Feature: geometry plus a property bag.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry is a minimal GeoJSON geometry; Coordinates holds either a
// [lng,lat] pair (Point), a list of pairs (LineString), or a list of
// rings (Polygon).
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// FeatureCollection is the GeoJSON root object.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func lngLat(p geo.Point) [2]float64 { return [2]float64{p.Lng, p.Lat} }

func pointsToCoords(pts []geo.Point) [][2]float64 {
	return util.MapSlice(pts, lngLat)
}

func polygonFeature(poly geo.Polygon, props map[string]interface{}) Feature {
	ring := pointsToCoords(poly.Points)
	if len(ring) > 0 {
		ring = append(ring, ring[0]) // GeoJSON polygon rings are closed
	}
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: "Polygon", Coordinates: [][][2]float64{ring}},
		Properties: props,
	}
}

func lineStringFeature(pts []geo.Point, props map[string]interface{}) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: "LineString", Coordinates: pointsToCoords(pts)},
		Properties: props,
	}
}

func pointFeatures(pts []geo.Point, baseProps map[string]interface{}) []Feature {
	out := make([]Feature, len(pts))
	for i, p := range pts {
		props := map[string]interface{}{"waypoint_index": i}
		for k, v := range baseProps {
			props[k] = v
		}
		out[i] = Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: lngLat(p)},
			Properties: props,
		}
	}
	return out
}

// PlanResultGeoJSON renders a single-direction PlanResult as a
// polygon feature, one LineString for the route, and one Point
// feature per waypoint.
func PlanResultGeoJSON(poly geo.Polygon, result planner.PlanResult) ([]byte, error) {
	fc := FeatureCollection{Type: "FeatureCollection"}
	fc.Features = append(fc.Features, polygonFeature(poly, map[string]interface{}{"kind": "survey_area"}))
	fc.Features = append(fc.Features, lineStringFeature(result.Waypoints, map[string]interface{}{
		"kind": "route", "total_distance_m": result.TotalDistanceM, "total_lines": result.TotalLines,
	}))
	fc.Features = append(fc.Features, pointFeatures(result.Waypoints, map[string]interface{}{"kind": "waypoint"})...)
	return json.MarshalIndent(fc, "", "  ")
}

// ObliqueResultGeoJSON renders a multi-direction ObliqueResult: the
// survey polygon, the expanded buffer polygon, one LineString per
// direction, and one Point feature per waypoint across all routes.
func ObliqueResultGeoJSON(poly geo.Polygon, result planner.ObliqueResult) ([]byte, error) {
	fc := FeatureCollection{Type: "FeatureCollection"}
	fc.Features = append(fc.Features, polygonFeature(poly, map[string]interface{}{"kind": "survey_area"}))
	fc.Features = append(fc.Features, polygonFeature(result.ExpandedPolygon, map[string]interface{}{
		"kind": "expanded_area", "expansion_distance_m": result.ExpansionDistanceM,
	}))
	for _, route := range result.Routes {
		props := map[string]interface{}{
			"kind": "route", "direction_deg": route.DirectionDeg,
			"gimbal_pitch_deg": route.GimbalPitchDeg, "distance_m": route.DistanceM,
			"label": route.Label,
		}
		fc.Features = append(fc.Features, lineStringFeature(route.Waypoints, props))
		fc.Features = append(fc.Features, pointFeatures(route.Waypoints, map[string]interface{}{
			"kind": "waypoint", "direction_deg": route.DirectionDeg, "label": route.Label,
		})...)
	}
	return json.MarshalIndent(fc, "", "  ")
}
