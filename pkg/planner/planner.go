// pkg/planner/planner.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package planner composes pkg/geo, pkg/cache, pkg/sweep, pkg/sequence,
// pkg/coverage, and pkg/oblique into the four public entry points
// spec.md §6 names: single-direction planning, multi-block planning
// with uncoverage repair, oblique multi-pass planning, and expanded-
// area reporting.
package planner

import (
	"fmt"
	"time"

	"github.com/aerosurvey/planner/pkg/cache"
	"github.com/aerosurvey/planner/pkg/coverage"
	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/log"
	"github.com/aerosurvey/planner/pkg/oblique"
	"github.com/aerosurvey/planner/pkg/sequence"
	"github.com/aerosurvey/planner/pkg/simplify"
	"github.com/aerosurvey/planner/pkg/sweep"
	"github.com/aerosurvey/planner/pkg/util"
)

// defaultMaxBlocks bounds PlanMultiBlock's repair loop when the caller
// passes 0 (spec.md §4.5).
const defaultMaxBlocks = 5

// obliqueMaxBlocks is the repair budget spec.md §4.7 grants each
// oblique direction's single-direction plan.
const obliqueMaxBlocks = 10

// droppedWaypointLogWindow bounds how often the same dropped
// supplementary waypoint is re-logged when a caller replans the same
// polygon repeatedly (e.g. an interactive editor), to keep one
// unreachable cluster from flooding the log.
const droppedWaypointLogWindow = time.Minute

// Planner holds the shared cache, logger and dropped-waypoint log
// limiter every entry point draws on. The zero value is not usable;
// construct with New.
type Planner struct {
	cache *cache.Cache
	lg    *log.Logger

	recentlyDropped *util.TransientMap[string, struct{}]
}

// New constructs a Planner with its own cache, sized and swept at the
// package defaults (spec.md §4.2).
func New(lg *log.Logger) *Planner {
	return &Planner{
		cache:           cache.New(lg, cache.DefaultSize, cache.DefaultSweepInterval),
		lg:              lg,
		recentlyDropped: util.NewTransientMap[string, struct{}](),
	}
}

// Cache exposes the planner's cache for callers that want to report
// its performance counters (spec.md §5).
func (pl *Planner) Cache() *cache.Cache { return pl.cache }

// validateCommon checks the input rules spec.md §7 requires every
// entry point to enforce before any work begins.
func validateCommon(poly geo.Polygon, sp SweepParams) error {
	var e util.ErrorLogger
	e.Push("input")
	if len(poly.Points) < 3 {
		e.ErrorString("polygon must have at least 3 vertices")
	} else if !geo.IsSimpleRing(poly) {
		e.ErrorString("polygon must be a simple, non-self-intersecting ring")
	} else if geo.Area(poly) <= 0 {
		e.ErrorString("polygon must enclose a positive area")
	}
	if sp.SideOverlapPct < 0 || sp.SideOverlapPct > 100 {
		e.ErrorString("side_overlap_pct must be in [0,100]")
	}
	if sp.ForwardOverlapPct < 0 || sp.ForwardOverlapPct > 100 {
		e.ErrorString("forward_overlap_pct must be in [0,100]")
	}
	if sp.PhotoWidthM <= 0 || sp.PhotoLengthM <= 0 {
		e.ErrorString("photo_width and photo_length must be positive")
	}
	if sp.FlightHeightM <= 0 {
		e.ErrorString("flight_height must be positive")
	}
	e.Pop()
	if e.HaveErrors() {
		return &PlanError{Kind: InvalidInput, Msg: e.String()}
	}
	return nil
}

func sweepAnchor(poly geo.Polygon, start geo.Point) geo.Point {
	if geo.PointInPolygon(start, poly) {
		return start
	}
	return geo.Centroid(poly)
}

func sweepParamsFrom(sp SweepParams) sweep.Params {
	return sweep.Params{
		DirectionDeg: sp.DirectionDeg,
		LineSpacing:  sp.LineSpacing(),
		PointSpacing: sp.PointSpacing(),
	}
}

func coverageParamsFrom(sp SweepParams) coverage.Params {
	return coverage.Params{
		PhotoWidth:   sp.PhotoWidthM,
		PhotoLength:  sp.PhotoLengthM,
		LineSpacing:  sp.LineSpacing(),
		PointSpacing: sp.PointSpacing(),
		DirectionDeg: sp.DirectionDeg,
	}
}

func routeDistance(pts []geo.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(pts); i++ {
		total += geo.Distance(pts[i], pts[i+1])
	}
	return total
}

// PlanSingle generates one family of sweep lines in direction_deg,
// clipped to poly and sequenced into a single snake path starting near
// start. Returns an empty PlanResult, no error, when no line survives
// either the primary or the perpendicular-fallback orientation
// (spec.md §7's UnsatisfiableCoverage).
func (pl *Planner) PlanSingle(poly geo.Polygon, sp SweepParams) (PlanResult, error) {
	start := time.Now()
	defer func() { pl.cache.RecordPlanDuration(time.Since(start)) }()

	if err := validateCommon(poly, sp); err != nil {
		return PlanResult{}, err
	}

	anchor := sweepAnchor(poly, sp.StartPoint)
	lines := sweep.Generate(poly, anchor, sweepParamsFrom(sp), pl.cache, pl.lg)
	if len(lines) == 0 {
		return PlanResult{}, nil
	}

	waypoints := sequence.Sequence(lines, sp.StartPoint, poly, pl.lg)
	return PlanResult{
		Waypoints:      waypoints,
		TotalDistanceM: routeDistance(waypoints),
		TotalLines:     len(lines),
	}, nil
}

// PlanMultiBlock runs PlanSingle and then repeatedly repairs
// uncoverage, bridging each supplementary cluster onto the route,
// until either the coverage target is met or maxBlocks-1 additional
// passes have run (spec.md §4.5). maxBlocks<=0 uses
// defaultMaxBlocks. When simplify is true, the final route is run
// through pkg/simplify.
func (pl *Planner) PlanMultiBlock(poly geo.Polygon, sp SweepParams, maxBlocks int, simplifyRoute bool) (PlanResult, error) {
	if maxBlocks <= 0 {
		maxBlocks = defaultMaxBlocks
	}

	result, err := pl.PlanSingle(poly, sp)
	if err != nil {
		return PlanResult{}, err
	}
	if len(result.Waypoints) == 0 {
		return result, nil
	}

	covParams := coverageParamsFrom(sp)
	centroid := geo.Centroid(poly)
	waypoints := result.Waypoints

	for block := 0; block < maxBlocks-1; block++ {
		repair := coverage.Repair(poly, waypoints, covParams, pl.cache, pl.lg)
		if repair.Done || len(repair.Waypoints) == 0 {
			break
		}
		waypoints = pl.appendSupplementary(waypoints, repair.Waypoints, centroid, poly)
	}

	if simplifyRoute {
		waypoints = simplify.Simplify(waypoints)
	}

	areaM2 := geo.Area(poly)
	if coverage.DensityGate(len(waypoints), areaM2, covParams) {
		if i, j, ok := coverage.ValidateSpacing(waypoints, sp.PointSpacing()); !ok {
			pl.lg.Warnf("planner: waypoints %d and %d violate minimum spacing after repair", i, j)
		}
	}

	return PlanResult{
		Waypoints:      waypoints,
		TotalDistanceM: routeDistance(waypoints),
		TotalLines:     result.TotalLines,
	}, nil
}

// appendSupplementary bridges each supplementary waypoint onto the
// tail of the route in the order Repair returned them, dropping (and
// logging, at most once per droppedWaypointLogWindow) any that cannot
// be reached, matching pkg/sequence's own InternalInvariantViolation
// handling.
func (pl *Planner) appendSupplementary(route []geo.Point, supplementary []geo.Point, centroid geo.Point, poly geo.Polygon) []geo.Point {
	if len(route) == 0 {
		return supplementary
	}
	for _, wp := range supplementary {
		tail := route[len(route)-1]
		if geo.StrictInside(tail, wp, poly) {
			route = append(route, wp)
			continue
		}
		if bridge, ok := sequence.Bridge(tail, wp, centroid, poly); ok {
			route = append(route, bridge...)
			route = append(route, wp)
			continue
		}
		key := fmt.Sprintf("%.8f,%.8f", wp.Lat, wp.Lng)
		if _, logged := pl.recentlyDropped.Get(key); !logged {
			pl.recentlyDropped.Add(key, struct{}{}, droppedWaypointLogWindow)
			pl.lg.Errorf("planner: dropping unreachable supplementary waypoint %+v", wp)
		}
	}
	return route
}

// PlanOblique runs the multi-direction oblique driver, planning each
// selected direction with PlanMultiBlock (repair enabled, up to
// obliqueMaxBlocks passes) against the outward-buffered polygon
// (spec.md §4.7).
func (pl *Planner) PlanOblique(op ObliqueParams) (ObliqueResult, error) {
	if err := validateCommon(op.Polygon, op.SweepParams); err != nil {
		return ObliqueResult{}, err
	}
	if op.GimbalPitchDeg > 0 {
		return ObliqueResult{}, &PlanError{Kind: InvalidInput, Msg: "gimbal_pitch_deg must be <= 0 (nose-down or level)"}
	}

	params := oblique.Params{
		MainDirectionDeg:  op.DirectionDeg,
		GimbalPitchDeg:    op.GimbalPitchDeg,
		PhotoWidth:        op.PhotoWidthM,
		PhotoLength:       op.PhotoLengthM,
		SideOverlapPct:    op.SideOverlapPct,
		ForwardOverlapPct: op.ForwardOverlapPct,
		FlightHeightM:     op.FlightHeightM,
		StartPoint:        op.StartPoint,
	}

	plan := func(poly geo.Polygon, directionDeg float64, start geo.Point) ([]geo.Point, error) {
		sp := op.SweepParams
		sp.DirectionDeg = directionDeg
		sp.StartPoint = start
		res, err := pl.PlanMultiBlock(poly, sp, obliqueMaxBlocks, true)
		if err != nil {
			return nil, err
		}
		return res.Waypoints, nil
	}

	result, err := oblique.Run(op.Polygon, params, plan, pl.lg)
	if err != nil {
		return ObliqueResult{}, &PlanError{Kind: InvalidInput, Msg: err.Error()}
	}

	routes := make([]Route, len(result.Routes))
	total := 0.0
	for i, r := range result.Routes {
		routes[i] = Route{
			DirectionDeg:   r.DirectionDeg,
			GimbalPitchDeg: op.GimbalPitchDeg,
			Waypoints:      r.Waypoints,
			DistanceM:      r.DistanceM,
			Label:          directionLabel(i, r.DirectionDeg),
		}
		total += r.DistanceM
	}

	return ObliqueResult{
		Routes:             routes,
		TotalDistanceM:     total,
		TotalRouteCount:    len(routes),
		Optimized:          true,
		Rationale:          obliqueRationale(len(routes), op.GimbalPitchDeg),
		ExpandedPolygon:    result.ExpandedPolygon,
		ExpansionDistanceM: result.ExpansionDistanceM,
		EdgeCoveragePct:    result.EdgeCoveragePct,
	}, nil
}

func directionLabel(i int, directionDeg float64) string {
	names := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	idx := int((directionDeg+22.5)/45) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

func obliqueRationale(count int, pitchDeg float64) string {
	switch count {
	case 1:
		return "near-nadir pitch selected a single direction"
	case 3:
		return "moderate oblique pitch selected three directions"
	case 4:
		return "steep oblique pitch selected four directions"
	default:
		return "extreme oblique pitch selected five directions"
	}
}

// ExpandedAreaInfo reports the outward-buffered polygon and its area
// increase over the original, without running any planning pass
// (spec.md §6).
func (pl *Planner) ExpandedAreaInfo(op ObliqueParams) (ExpandedAreaInfo, error) {
	if err := validateCommon(op.Polygon, op.SweepParams); err != nil {
		return ExpandedAreaInfo{}, err
	}

	d := oblique.ExpansionDistance(op.PhotoWidthM, op.PhotoLengthM, op.FlightHeightM,
		op.GimbalPitchDeg, op.SideOverlapPct, op.ForwardOverlapPct)
	expanded := oblique.BufferOutward(op.Polygon, d)

	originalArea := geo.Area(op.Polygon)
	expandedArea := geo.Area(expanded)
	increase := 0.0
	if originalArea > 0 {
		increase = 100 * (expandedArea - originalArea) / originalArea
	}

	return ExpandedAreaInfo{
		ExpandedPolygon:    expanded,
		ExpansionDistanceM: d,
		OriginalAreaM2:     originalArea,
		ExpandedAreaM2:     expandedArea,
		AreaIncreasePct:    increase,
	}, nil
}
