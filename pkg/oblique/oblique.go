// pkg/oblique/oblique.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package oblique implements the multi-direction driver: it chooses
// 1/3/4/5 sweep directions from gimbal pitch, buffers the polygon
// outward, invokes a single-direction planner per direction, clips
// results back to the original polygon, and aggregates (spec.md
// §4.7).
package oblique

import (
	"errors"
	"math"

	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/log"
	"github.com/aerosurvey/planner/pkg/simplify"
	"github.com/aerosurvey/planner/pkg/util"
)

// Params mirrors spec.md §3's ObliqueParams for the portion this
// package needs.
type Params struct {
	MainDirectionDeg                 float64
	GimbalPitchDeg                   float64
	PhotoWidth, PhotoLength          float64
	SideOverlapPct, ForwardOverlapPct float64
	FlightHeightM                     float64
	StartPoint                       geo.Point
}

// PlanFunc is a single-direction planner (with uncoverage repair
// enabled) that this driver invokes once per selected direction. It
// is supplied by pkg/planner so that pkg/oblique does not need to
// import it back (planner composes G/C/L/S/U into PlanMultiBlock;
// oblique only orchestrates calling it per direction).
type PlanFunc func(poly geo.Polygon, directionDeg float64, start geo.Point) ([]geo.Point, error)

// Route is one direction's final, simplified waypoint list.
type Route struct {
	DirectionDeg float64
	Waypoints    []geo.Point
	DistanceM    float64
}

// Result is the aggregated ObliqueResult of spec.md §3.
type Result struct {
	Routes             []Route
	ExpandedPolygon    geo.Polygon
	ExpansionDistanceM float64
	EdgeCoveragePct    float64
}

// Validate checks the spec.md §4.7 input-validation rules.
func Validate(poly geo.Polygon, p Params) error {
	if len(poly.Points) < 3 {
		return errors.New("polygon must have at least 3 vertices")
	}
	if p.SideOverlapPct < 0 || p.SideOverlapPct > 100 {
		return errors.New("side overlap percentage must be in [0,100]")
	}
	if p.ForwardOverlapPct < 0 || p.ForwardOverlapPct > 100 {
		return errors.New("forward overlap percentage must be in [0,100]")
	}
	if p.PhotoWidth <= 0 || p.PhotoLength <= 0 {
		return errors.New("photo dimensions must be positive")
	}
	if p.FlightHeightM <= 0 {
		return errors.New("flight height must be positive")
	}
	if p.GimbalPitchDeg > 0 {
		return errors.New("gimbal pitch must be <= 0 (nose-down or level)")
	}
	return nil
}

// SelectDirectionCount maps |gimbal pitch| to a direction count per
// the spec.md §4.7 table.
func SelectDirectionCount(pitchAbsDeg float64) int {
	switch {
	case pitchAbsDeg < 15:
		return 1
	case pitchAbsDeg < 30:
		return 3
	case pitchAbsDeg < 45:
		return 4
	default:
		return 5
	}
}

// SelectDirections returns the absolute compass bearings for the
// selected direction count, offset from mainDirectionDeg.
func SelectDirections(mainDirectionDeg, gimbalPitchDeg float64) []float64 {
	count := SelectDirectionCount(math.Abs(gimbalPitchDeg))
	var offsets []float64
	switch count {
	case 1:
		offsets = []float64{0}
	case 3:
		offsets = []float64{0, 90, 180}
	case 4:
		offsets = []float64{0, 90, 180, 270}
	default:
		offsets = []float64{0, 72, 144, 216, 288}
	}
	dirs := make([]float64, len(offsets))
	for i, o := range offsets {
		dirs[i] = geo.NormalizeHeading(mainDirectionDeg + o)
	}
	return dirs
}

// ExpansionDistance computes the outward buffer distance d per
// spec.md §4.7.
func ExpansionDistance(photoW, photoL, flightHeightM, gimbalPitchDeg, sideOverlapPct, forwardOverlapPct float64) float64 {
	pAbs := math.Abs(gimbalPitchDeg)
	pRad := pAbs * math.Pi / 180
	maxWL := math.Max(photoW, photoL)

	base := 0.6 * maxWL
	tiltOffset := 0.0
	if pAbs > 5 {
		tiltOffset = flightHeightM * math.Tan(pRad) * 0.5
	}
	overlapFactor := 1 - 0.1*math.Min(sideOverlapPct, forwardOverlapPct)/100

	d := (base + tiltOffset) * overlapFactor
	lower := 0.3 * maxWL
	upper := 0.8*maxWL + tiltOffset
	if d < lower {
		d = lower
	}
	if d > upper {
		d = upper
	}
	return d
}

// EffectiveCoverageRadius returns r, the radius within which a
// waypoint is considered to photograph a point of the original
// polygon, per spec.md §4.7.
func EffectiveCoverageRadius(photoW, photoL, gimbalPitchDeg, sideOverlapPct, forwardOverlapPct float64) float64 {
	pRad := math.Abs(gimbalPitchDeg) * math.Pi / 180
	maxWL := math.Max(photoW, photoL)
	r := maxWL * 0.5 * math.Cos(pRad) * (1 - 0.3*math.Min(sideOverlapPct, forwardOverlapPct)/100)
	floor := 0.4 * maxWL / 2
	if r < floor {
		r = floor
	}
	return r
}

// localMeters projects p into a local tangent frame centered at
// origin, in meters. Duplicated from pkg/geo's unexported toMeters
// since the buffering math below needs the raw x/y components, not
// just distances.
func localMeters(p, origin geo.Point) (x, y float64) {
	meanLat := origin.Lat * math.Pi / 180
	x = (p.Lng - origin.Lng) * math.Cos(meanLat) * math.Pi / 180 * geo.EarthRadiusM
	y = (p.Lat - origin.Lat) * math.Pi / 180 * geo.EarthRadiusM
	return x, y
}

// BufferOutward expands poly outward by d meters using the
// angle-bisector construction of spec.md §4.7: ensure CCW winding,
// then for each vertex offset along the normalized sum of the two
// adjacent outward edge normals (falling back to a single edge's
// normal when the bisector is degenerate).
func BufferOutward(poly geo.Polygon, d float64) geo.Polygon {
	ccw := geo.ReorientCCW(poly)
	pts := ccw.Points
	n := len(pts)
	out := make([]geo.Point, n)

	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]

		px, py := localMeters(prev, cur)
		nx, ny := localMeters(next, cur)

		// Edge vectors: prev->cur and cur->next, both ending/starting
		// at cur (the local origin).
		e1x, e1y := -px, -py
		e2x, e2y := nx, ny

		// Outward normal of an edge in a CCW polygon: rotate the edge
		// vector -90 degrees, i.e. (dx,dy) -> (dy,-dx).
		n1x, n1y := normalize(e1y, -e1x)
		n2x, n2y := normalize(e2y, -e2x)

		bx, by := n1x+n2x, n1y+n2y
		blen := math.Hypot(bx, by)
		if blen < 1e-9 {
			bx, by = n1x, n1y
			blen = math.Hypot(bx, by)
			if blen < 1e-9 {
				bx, by = n2x, n2y
				blen = math.Hypot(bx, by)
			}
		}
		if blen > 1e-12 {
			bx, by = bx/blen, by/blen
		}

		bearing := math.Mod(math.Atan2(bx, by)*180/math.Pi+360, 360)
		out[i] = geo.Offset(cur, bearing, d)
	}
	return geo.Polygon{Points: out}
}

func normalize(x, y float64) (float64, float64) {
	l := math.Hypot(x, y)
	if l < 1e-12 {
		return 0, 0
	}
	return x / l, y / l
}

func distanceToPolygonBoundary(p geo.Point, poly geo.Polygon) float64 {
	pts := poly.Points
	n := len(pts)
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		if d := geo.PointSegmentDistance(p, pts[i], pts[(i+1)%n]); d < min {
			min = d
		}
	}
	return min
}

// filterToOriginal splits wps into those that can photograph the
// original polygon (inside it, or within radius of it) and those
// that cannot, per spec.md §4.7's per-direction filter.
func filterToOriginal(wps []geo.Point, original geo.Polygon, radius float64) (kept, discarded []geo.Point) {
	for _, p := range wps {
		if geo.PointInPolygon(p, original) || distanceToPolygonBoundary(p, original) <= radius {
			kept = append(kept, p)
		} else {
			discarded = append(discarded, p)
		}
	}
	return kept, discarded
}

// sampleInterior samples the original polygon's interior on a grid
// at the given spacing, for the residual-coverage check.
func sampleInterior(poly geo.Polygon, spacing float64) []geo.Point {
	bounds := geo.PolygonBounds(poly)
	latStep := spacing / geo.EarthRadiusM * 180 / math.Pi
	meanLat := (bounds.MinLat + bounds.MaxLat) / 2
	lngStep := latStep / math.Max(math.Cos(meanLat*math.Pi/180), 1e-6)

	var raw []geo.Point
	for lat := bounds.MinLat; lat <= bounds.MaxLat; lat += latStep {
		for lng := bounds.MinLng; lng <= bounds.MaxLng; lng += lngStep {
			raw = append(raw, geo.Point{Lat: lat, Lng: lng})
		}
	}
	return util.FilterSlice(raw, func(p geo.Point) bool { return geo.PointInPolygon(p, poly) })
}

func nearestAmong(p geo.Point, pts []geo.Point) float64 {
	min := math.Inf(1)
	for _, q := range pts {
		if d := geo.Distance(p, q); d < min {
			min = d
		}
	}
	return min
}

// sampleBoundary samples poly's boundary every stepM meters, used
// for the edge-coverage percentage (spec.md §4.7).
func sampleBoundary(poly geo.Polygon, stepM float64) []geo.Point {
	pts := poly.Points
	n := len(pts)
	var out []geo.Point
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		length := geo.Distance(a, b)
		steps := int(length / stepM)
		if steps < 1 {
			steps = 1
		}
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			out = append(out, geo.Point{Lat: a.Lat + t*(b.Lat-a.Lat), Lng: a.Lng + t*(b.Lng-a.Lng)})
		}
	}
	return out
}

// EdgeCoveragePct reports the fraction of boundary samples within
// 0.6*max(w,l) of some emitted waypoint (spec.md §4.7).
func EdgeCoveragePct(original geo.Polygon, waypoints []geo.Point, photoW, photoL float64) float64 {
	samples := sampleBoundary(original, 10)
	if len(samples) == 0 {
		return 100
	}
	radius := 0.6 * math.Max(photoW, photoL)
	covered := 0
	for _, s := range samples {
		if nearestAmong(s, waypoints) <= radius {
			covered++
		}
	}
	return 100 * float64(covered) / float64(len(samples))
}

func routeDistance(pts []geo.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(pts); i++ {
		total += geo.Distance(pts[i], pts[i+1])
	}
	return total
}

type routeWork struct {
	dir       float64
	kept      []geo.Point
	discarded []geo.Point
}

// Run executes the full oblique driver: direction selection,
// buffering, per-direction planning + filtering, residual-coverage
// restoration, per-direction simplification, and edge-coverage
// reporting.
func Run(poly geo.Polygon, params Params, plan PlanFunc, lg *log.Logger) (Result, error) {
	if err := Validate(poly, params); err != nil {
		return Result{}, err
	}

	d := ExpansionDistance(params.PhotoWidth, params.PhotoLength, params.FlightHeightM,
		params.GimbalPitchDeg, params.SideOverlapPct, params.ForwardOverlapPct)
	expanded := BufferOutward(poly, d)
	directions := SelectDirections(params.MainDirectionDeg, params.GimbalPitchDeg)
	radius := EffectiveCoverageRadius(params.PhotoWidth, params.PhotoLength,
		params.GimbalPitchDeg, params.SideOverlapPct, params.ForwardOverlapPct)

	var works []routeWork
	for _, dir := range directions {
		wps, err := plan(expanded, dir, params.StartPoint)
		if err != nil {
			lg.Warnf("oblique: direction %.1f failed to plan: %v", dir, err)
			continue
		}
		kept, discarded := filterToOriginal(wps, poly, radius)
		if len(kept) == 0 {
			lg.Warnf("oblique: direction %.1f yielded zero waypoints after filtering, dropping", dir)
			continue
		}
		works = append(works, routeWork{dir: dir, kept: kept, discarded: discarded})
	}

	restoreResidual(poly, works, radius)

	var routes []Route
	var combined []geo.Point
	for _, w := range works {
		simplified := simplify.Simplify(w.kept)
		routes = append(routes, Route{DirectionDeg: w.dir, Waypoints: simplified, DistanceM: routeDistance(simplified)})
		combined = append(combined, simplified...)
	}

	edgePct := EdgeCoveragePct(poly, combined, params.PhotoWidth, params.PhotoLength)

	return Result{
		Routes:             routes,
		ExpandedPolygon:    expanded,
		ExpansionDistanceM: d,
		EdgeCoveragePct:    edgePct,
	}, nil
}

// restoreResidual implements spec.md §4.7's secondary pass: sample
// the original polygon's interior at half r; for any sample not
// covered by the currently-kept waypoints, restore a previously
// discarded waypoint (from any direction) that covers it.
func restoreResidual(poly geo.Polygon, works []routeWork, radius float64) {
	halfRadius := radius / 2
	samples := sampleInterior(poly, halfRadius*2)
	if len(samples) == 0 {
		return
	}

	var allKept []geo.Point
	for _, w := range works {
		allKept = append(allKept, w.kept...)
	}

	for _, s := range samples {
		if nearestAmong(s, allKept) <= halfRadius {
			continue
		}
		for wi := range works {
			w := &works[wi]
			for di := 0; di < len(w.discarded); di++ {
				cand := w.discarded[di]
				if geo.Distance(s, cand) <= radius {
					w.kept = append(w.kept, cand)
					allKept = append(allKept, cand)
					w.discarded = util.DeleteSliceElement(w.discarded, di)
					break
				}
			}
		}
	}
}
