// pkg/geo/point.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package geo implements the geodesic primitives the planner builds
// on: distance, bearing, destination offset, point-in-polygon,
// segment intersection, and polygon area/centroid/bounds, all in
// double precision over WGS-84 decimal degrees.
package geo

import "math"

const (
	// EarthRadiusM is the mean Earth radius used for the Haversine
	// formula, in meters.
	EarthRadiusM = 6371000.0

	smallAngleThreshold = 1e-4 // degrees
)

// Point is a location in WGS-84 decimal degrees.
type Point struct {
	Lat, Lng float64
}

// Polygon is an ordered, simple, closed ring; the edge from the last
// vertex back to the first is implicit.
type Polygon struct {
	Points []Point
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// Distance returns the great-circle distance between a and b in
// meters. For very small deltas it switches to a cheaper planar
// approximation at the mean latitude (spec'd to stay within 0.1 m of
// the Haversine oracle in that regime).
func Distance(a, b Point) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	if math.Abs(dLat) < smallAngleThreshold && math.Abs(dLng) < smallAngleThreshold {
		meanLat := toRadians((a.Lat + b.Lat) / 2)
		x := dLng * math.Cos(meanLat)
		y := dLat
		return math.Sqrt(x*x+y*y) * math.Pi / 180 * EarthRadiusM
	}
	return haversine(a, b)
}

func haversine(a, b Point) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinDLat2 := math.Sin(dLat / 2)
	sinDLng2 := math.Sin(dLng / 2)
	h := sinDLat2*sinDLat2 + math.Cos(lat1)*math.Cos(lat2)*sinDLng2*sinDLng2
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusM * c
}

// Bearing returns the initial compass bearing in degrees [0,360) from
// a to b.
func Bearing(a, b Point) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	theta := math.Atan2(y, x)
	return math.Mod(toDegrees(theta)+360, 360)
}

// Offset returns the point reached by traveling distanceM meters from
// origin along the given bearing in degrees.
func Offset(origin Point, bearingDeg, distanceM float64) Point {
	br := toRadians(bearingDeg)
	lat1 := toRadians(origin.Lat)
	lng1 := toRadians(origin.Lng)
	delta := distanceM / EarthRadiusM

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(br))
	lng2 := lng1 + math.Atan2(
		math.Sin(br)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2))

	return Point{Lat: toDegrees(lat2), Lng: toDegrees(lng2)}
}

// HeadingDifference returns the absolute angular difference between
// two bearings, in [0,180].
func HeadingDifference(a, b float64) float64 {
	d := math.Abs(a - b)
	d = math.Mod(d, 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// NormalizeHeading wraps a bearing into [0,360).
func NormalizeHeading(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
