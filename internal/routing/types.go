// Package routing implements capacity- and time-window-constrained
// multi-vehicle route optimization over great-circle geometry.
package routing

import "math"

// ModelVersion is reported with every optimization result.
const ModelVersion = "1.0.0"

// Location is a delivery point or depot. Coordinates are degrees and are
// not range-checked; identifier uniqueness is the caller's responsibility.
type Location struct {
	ID              string  `json:"id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Name            string  `json:"name,omitempty"`
	Demand          int     `json:"demand"`
	TimeWindowStart *int    `json:"time_window_start,omitempty"` // minutes from horizon start
	TimeWindowEnd   *int    `json:"time_window_end,omitempty"`
	ServiceTime     int     `json:"service_time"` // minutes on site
}

// HasWindow reports whether both ends of the time window are declared.
func (l Location) HasWindow() bool {
	return l.TimeWindowStart != nil && l.TimeWindowEnd != nil
}

// Vehicle is a routing resource.
type Vehicle struct {
	ID               string   `json:"id"`
	Capacity         int      `json:"capacity"`
	StartLocationIdx int      `json:"start_location_idx"`
	EndLocationIdx   *int     `json:"end_location_idx,omitempty"` // nil = return to start
	CostPerKm        float64  `json:"cost_per_km"`
	MaxDistanceKm    *float64 `json:"max_distance_km,omitempty"`
	MaxStops         *int     `json:"max_stops,omitempty"`
}

// NewLocation returns a Location with the standard defaults applied
// (demand 1, service time 10 minutes).
func NewLocation(id string, lat, lon float64) Location {
	return Location{ID: id, Latitude: lat, Longitude: lon, Demand: 1, ServiceTime: 10}
}

// NewVehicle returns a Vehicle with the standard defaults applied
// (capacity 100, depot start, unit cost per km).
func NewVehicle(id string) Vehicle {
	return Vehicle{ID: id, Capacity: 100, CostPerKm: 1.0}
}

// Stop is one visit on a vehicle's route, in sequence order.
type Stop struct {
	LocationID string  `json:"location_id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Sequence   int     `json:"sequence"`
}

// VehicleRoute is the ordered visit plan for one vehicle. Values keep full
// float precision; rounding happens only at the serialization boundary.
type VehicleRoute struct {
	VehicleID   string
	Stops       []Stop
	DistanceKm  float64
	TimeMinutes float64
	Cost        float64
}

// OptimizationResult is the uniform output of any solve attempt, exact or
// heuristic.
type OptimizationResult struct {
	Success             bool
	Routes              []VehicleRoute
	TotalDistanceKm     float64
	TotalTimeMinutes    float64
	TotalCost           float64
	UnassignedLocations []string
	ComputationTimeMS   float64
	SolverStatus        string
	ModelVersion        string
}

// ToAPI serializes the result for the HTTP boundary. Distances and costs are
// rounded to 2 decimals, times to 1; this is a presentation contract only.
func (r OptimizationResult) ToAPI() map[string]any {
	routes := make([]map[string]any, 0, len(r.Routes))
	for _, rt := range r.Routes {
		routes = append(routes, map[string]any{
			"vehicle_id":   rt.VehicleID,
			"stops":        rt.Stops,
			"distance_km":  round2(rt.DistanceKm),
			"time_minutes": round1(rt.TimeMinutes),
			"cost":         round2(rt.Cost),
		})
	}
	unassigned := r.UnassignedLocations
	if unassigned == nil {
		unassigned = []string{}
	}
	return map[string]any{
		"success":              r.Success,
		"routes":               routes,
		"total_distance_km":    round2(r.TotalDistanceKm),
		"total_time_minutes":   round1(r.TotalTimeMinutes),
		"total_cost":           round2(r.TotalCost),
		"unassigned_locations": unassigned,
		"computation_time_ms":  round2(r.ComputationTimeMS),
		"solver_status":        r.SolverStatus,
		"model_version":        r.ModelVersion,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
