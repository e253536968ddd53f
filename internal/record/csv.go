package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// fieldSetters maps canonical CSV headers to record fields. Header matching
// is case-insensitive.
var fieldSetters = map[string]func(*Record, float64){
	"fov_threat_count":            func(r *Record, v float64) { r.FOVThreatCount = v },
	"min_distance_in_fov":         func(r *Record, v float64) { r.MinDistanceInFOV = v },
	"fov_density":                 func(r *Record, v float64) { r.FOVDensity = v },
	"fov_front_cone_threat_count": func(r *Record, v float64) { r.FOVFrontConeThreatCount = v },
	"angle_weighted_density":      func(r *Record, v float64) { r.AngleWeightedDensity = v },
	"threats_left_sector":         func(r *Record, v float64) { r.ThreatsLeftSector = v },
	"threats_right_sector":        func(r *Record, v float64) { r.ThreatsRightSector = v },
	"average_threat_angle_offset": func(r *Record, v float64) { r.AverageThreatAngleOffset = v },
	"heading_deg":                 func(r *Record, v float64) { r.HeadingDeg = v },
	"previous_heading_deg":        func(r *Record, v float64) { r.PreviousHeadingDeg = v },
	"chassis_weight_kg":           func(r *Record, v float64) { r.ChassisWeightKg = v },
	"engine_weight_kg":            func(r *Record, v float64) { r.EngineWeightKg = v },
	"thruster_weight_kg":          func(r *Record, v float64) { r.ThrusterWeightKg = v },
	"fuel_weight_kg":              func(r *Record, v float64) { r.FuelWeightKg = v },
	"total_thrust_kn":             func(r *Record, v float64) { r.TotalThrustKN = v },
	"starting_fuel_kwh":           func(r *Record, v float64) { r.StartingFuelKWh = v },
	"moment_of_inertia":           func(r *Record, v float64) { r.MomentOfInertia = v },
}

var stringSetters = map[string]func(*Record, string){
	"engine_class": func(r *Record, v string) { r.EngineClass = v },
	"zone":         func(r *Record, v string) { r.Zone = v },
}

// LoadCSV reads up to limit records from r (limit <= 0 reads everything).
// Unknown columns are ignored; absent and unparseable numeric cells stay NaN.
// Only a structurally broken CSV stream is an error.
func LoadCSV(r io.Reader, limit int) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []Record
	for limit <= 0 || len(records) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(records)+1, err)
		}

		rec := New()
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if setter, ok := stringSetters[header[i]]; ok {
				setter(&rec, cell)
				continue
			}
			setter, ok := fieldSetters[header[i]]
			if !ok || cell == "" {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				setter(&rec, v)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
