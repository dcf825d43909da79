// pkg/planner/photogrammetry.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

// GSD returns ground sample distance in cm/pixel given flight
// height (m), sensor width (mm), focal length (mm), and image width
// (pixels). Pure formula, no planner state, per spec.md §6.
func GSD(flightHeightM, sensorWidthMM, focalLengthMM float64, imageWidthPx int) float64 {
	return (flightHeightM * sensorWidthMM * 100) / (focalLengthMM * float64(imageWidthPx))
}

// AltitudeForGSD inverts GSD: the flight height (m) needed to achieve
// a target ground sample distance (cm/pixel).
func AltitudeForGSD(targetGSDcmPerPx, sensorWidthMM, focalLengthMM float64, imageWidthPx int) float64 {
	return (targetGSDcmPerPx * focalLengthMM * float64(imageWidthPx)) / (sensorWidthMM * 100)
}

// FootprintWidth returns the ground footprint width in meters for a
// given flight height and sensor/lens geometry.
func FootprintWidth(flightHeightM, sensorWidthMM, focalLengthMM float64) float64 {
	return (flightHeightM * sensorWidthMM) / focalLengthMM
}

// FootprintLength returns the ground footprint length in meters.
func FootprintLength(flightHeightM, sensorHeightMM, focalLengthMM float64) float64 {
	return (flightHeightM * sensorHeightMM) / focalLengthMM
}
