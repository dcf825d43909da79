// cmd/surveyplan/main.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// surveyplan plans a drone survey flight path from a polygon+params
// JSON file and writes the result in the chosen export format.
// Usage: surveyplan -in plot.json -mode multiblock -format geojson
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aerosurvey/planner/pkg/export"
	"github.com/aerosurvey/planner/pkg/geo"
	"github.com/aerosurvey/planner/pkg/log"
	"github.com/aerosurvey/planner/pkg/planner"
	"github.com/aerosurvey/planner/pkg/presets"
	"github.com/aerosurvey/planner/pkg/util"
)

type inputFile struct {
	Polygon           [][2]float64 `json:"polygon"` // [lat, lng] pairs
	DirectionDeg      float64      `json:"direction_deg"`
	PhotoWidthM       float64      `json:"photo_width_m"`
	PhotoLengthM      float64      `json:"photo_length_m"`
	SideOverlapPct    float64      `json:"side_overlap_pct"`
	ForwardOverlapPct float64      `json:"forward_overlap_pct"`
	FlightHeightM     float64      `json:"flight_height_m"`
	StartLat          float64      `json:"start_lat"`
	StartLng          float64      `json:"start_lng"`
	GimbalPitchDeg    float64      `json:"gimbal_pitch_deg"`
	MaxBlocks         int          `json:"max_blocks"`
	Simplify          bool         `json:"simplify"`
	Preset            string       `json:"preset"`
}

func main() {
	inPath := flag.String("in", "", "path to polygon+params JSON input file")
	mode := flag.String("mode", "multiblock", "single | multiblock | oblique | expanded")
	format := flag.String("format", "geojson", "geojson | csv | summary")
	outPath := flag.String("out", "", "output path (default: stdout)")
	logLevel := flag.String("log-level", "info", "debug | info | warn | error")
	logDir := flag.String("log-dir", "", "log directory (default: user config dir)")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: surveyplan -in <input.json> [-mode single|multiblock|oblique|expanded] [-format geojson|csv|summary] [-out <path>]")
		fmt.Fprintf(os.Stderr, "Known presets: %v\n", presets.Names())
		os.Exit(1)
	}

	lg := log.New(false, *logLevel, *logDir)

	if err := run(*inPath, *mode, *format, *outPath, lg); err != nil {
		fmt.Fprintf(os.Stderr, "surveyplan: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, mode, format, outPath string, lg *log.Logger) error {
	in, err := loadInput(inPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	poly, sp := in.toPlannerInputs()
	pl := planner.New(lg)
	op := in.toObliqueParams(poly, sp)

	var data []byte
	switch mode {
	case "single":
		result, err := pl.PlanSingle(poly, sp)
		if err != nil {
			return err
		}
		data, err = encodePlanResult(poly, result, format)
		if err != nil {
			return err
		}
	case "multiblock":
		result, err := pl.PlanMultiBlock(poly, sp, in.MaxBlocks, in.Simplify)
		if err != nil {
			return err
		}
		data, err = encodePlanResult(poly, result, format)
		if err != nil {
			return err
		}
	case "oblique":
		result, err := pl.PlanOblique(op)
		if err != nil {
			return err
		}
		data, err = encodeObliqueResult(poly, result, format)
		if err != nil {
			return err
		}
	case "expanded":
		info, err := pl.ExpandedAreaInfo(op)
		if err != nil {
			return err
		}
		data, err = json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	return writeOutput(outPath, data)
}

// loadInput reads and decodes the polygon+params JSON file, using
// util.UnmarshalJSON so a malformed file reports a line/character
// position instead of encoding/json's raw offset.
func loadInput(path string) (inputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return inputFile{}, err
	}
	defer f.Close()

	var in inputFile
	if err := util.UnmarshalJSON(f, &in); err != nil {
		return inputFile{}, err
	}
	return in, nil
}

// toPlannerInputs converts the raw input file into a geo.Polygon and
// planner.SweepParams, applying a named preset's camera/overlap
// fields first if one is given (explicit fields in the file still
// take priority for anything the preset doesn't set).
func (in inputFile) toPlannerInputs() (geo.Polygon, planner.SweepParams) {
	pts := make([]geo.Point, len(in.Polygon))
	for i, p := range in.Polygon {
		pts[i] = geo.Point{Lat: p[0], Lng: p[1]}
	}
	poly := geo.Polygon{Points: pts}
	start := geo.Point{Lat: in.StartLat, Lng: in.StartLng}

	sp := planner.SweepParams{
		DirectionDeg:      in.DirectionDeg,
		PhotoWidthM:       in.PhotoWidthM,
		PhotoLengthM:      in.PhotoLengthM,
		SideOverlapPct:    in.SideOverlapPct,
		ForwardOverlapPct: in.ForwardOverlapPct,
		FlightHeightM:     in.FlightHeightM,
		StartPoint:        start,
	}
	if preset, ok := presets.Lookup(in.Preset); ok {
		sp = preset.SweepParams(in.DirectionDeg, start)
	}
	return poly, sp
}

// toObliqueParams builds the planner.ObliqueParams used by the
// "oblique" and "expanded" modes. When in.Preset names a known
// preset, its GimbalPitchDeg drives direction-count selection
// (spec.md §4.7); otherwise the raw input file's gimbal_pitch_deg is
// used, matching toPlannerInputs' preset-first, explicit-field-
// fallback convention.
func (in inputFile) toObliqueParams(poly geo.Polygon, sp planner.SweepParams) planner.ObliqueParams {
	if preset, ok := presets.Lookup(in.Preset); ok {
		return preset.ObliqueParams(in.DirectionDeg, sp.StartPoint, poly)
	}
	return planner.ObliqueParams{SweepParams: sp, GimbalPitchDeg: in.GimbalPitchDeg, Polygon: poly}
}

func encodePlanResult(poly geo.Polygon, result planner.PlanResult, format string) ([]byte, error) {
	switch format {
	case "geojson":
		return export.PlanResultGeoJSON(poly, result)
	case "csv":
		var buf bytes.Buffer
		if err := export.PlanResultCSV(&buf, result); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "summary":
		return export.PlanResultSummary(result)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func encodeObliqueResult(poly geo.Polygon, result planner.ObliqueResult, format string) ([]byte, error) {
	switch format {
	case "geojson":
		return export.ObliqueResultGeoJSON(poly, result)
	case "csv":
		var buf bytes.Buffer
		if err := export.ObliqueResultCSV(&buf, result); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "summary":
		return export.ObliqueResultSummary(result)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0644)
}
