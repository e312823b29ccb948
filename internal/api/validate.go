package api

import (
	"fmt"

	"logiroute/internal/routing"
)

// LocationIn is the wire form of a delivery point. Optional fields are
// pointers so an absent value and an explicit zero stay distinguishable.
type LocationIn struct {
	ID              string   `json:"id"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Name            string   `json:"name"`
	Demand          *int     `json:"demand"`
	TimeWindowStart *int     `json:"time_window_start"`
	TimeWindowEnd   *int     `json:"time_window_end"`
	ServiceTime     *int     `json:"service_time"`
}

// VehicleIn is the wire form of a routing resource.
type VehicleIn struct {
	ID               string   `json:"id"`
	Capacity         *int     `json:"capacity"`
	StartLocationIdx *int     `json:"start_location_idx"`
	EndLocationIdx   *int     `json:"end_location_idx"`
	CostPerKm        *float64 `json:"cost_per_km"`
	MaxDistanceKm    *float64 `json:"max_distance_km"`
	MaxStops         *int     `json:"max_stops"`
}

// OptimizeRequest is the body of POST /v1/optimize.
type OptimizeRequest struct {
	Locations  []LocationIn `json:"locations"`
	Vehicles   []VehicleIn  `json:"vehicles"`
	DepotIndex *int         `json:"depot_index"`
	Objective  string       `json:"objective"`
}

// SimpleRequest is the body of POST /v1/optimize/simple: bare coordinate
// pairs, first waypoint doubling as depot unless one is given.
type SimpleRequest struct {
	Waypoints [][2]float64 `json:"waypoints"`
	Depot     *[2]float64  `json:"depot"`
}

func validateOptimizeRequest(req *OptimizeRequest) error {
	if len(req.Locations) == 0 {
		return fmt.Errorf("locations are required")
	}
	for i, l := range req.Locations {
		if l.ID == "" {
			return fmt.Errorf("locations[%d]: id is required", i)
		}
		if l.Latitude == nil || l.Longitude == nil {
			return fmt.Errorf("locations[%d]: latitude and longitude are required", i)
		}
		if *l.Latitude < -90 || *l.Latitude > 90 {
			return fmt.Errorf("locations[%d]: latitude out of range", i)
		}
		if *l.Longitude < -180 || *l.Longitude > 180 {
			return fmt.Errorf("locations[%d]: longitude out of range", i)
		}
		if (l.TimeWindowStart == nil) != (l.TimeWindowEnd == nil) {
			return fmt.Errorf("locations[%d]: time window needs both start and end", i)
		}
		if l.TimeWindowStart != nil && *l.TimeWindowStart > *l.TimeWindowEnd {
			return fmt.Errorf("locations[%d]: time_window_start after time_window_end", i)
		}
	}
	for i, v := range req.Vehicles {
		if v.ID == "" {
			return fmt.Errorf("vehicles[%d]: id is required", i)
		}
		if v.Capacity != nil && *v.Capacity < 0 {
			return fmt.Errorf("vehicles[%d]: capacity must be >= 0", i)
		}
	}
	if req.DepotIndex != nil && (*req.DepotIndex < 0 || *req.DepotIndex >= len(req.Locations)) {
		return fmt.Errorf("depot_index %d out of range", *req.DepotIndex)
	}
	switch req.Objective {
	case "", "distance", "time":
	default:
		return fmt.Errorf("invalid objective: %s (allowed: distance, time)", req.Objective)
	}
	return nil
}

func validateSimpleRequest(req *SimpleRequest) error {
	if len(req.Waypoints) == 0 {
		return fmt.Errorf("waypoints are required")
	}
	for i, wp := range req.Waypoints {
		if wp[0] < -90 || wp[0] > 90 || wp[1] < -180 || wp[1] > 180 {
			return fmt.Errorf("waypoints[%d]: coordinates out of range", i)
		}
	}
	return nil
}

// toLocations normalizes wire locations into the routing form, applying the
// standard defaults for absent optional fields.
func toLocations(in []LocationIn) []routing.Location {
	out := make([]routing.Location, 0, len(in))
	for _, l := range in {
		loc := routing.NewLocation(l.ID, *l.Latitude, *l.Longitude)
		loc.Name = l.Name
		if l.Demand != nil {
			loc.Demand = *l.Demand
		}
		if l.ServiceTime != nil {
			loc.ServiceTime = *l.ServiceTime
		}
		loc.TimeWindowStart = l.TimeWindowStart
		loc.TimeWindowEnd = l.TimeWindowEnd
		out = append(out, loc)
	}
	return out
}

func toVehicles(in []VehicleIn) []routing.Vehicle {
	out := make([]routing.Vehicle, 0, len(in))
	for _, v := range in {
		veh := routing.NewVehicle(v.ID)
		if v.Capacity != nil {
			veh.Capacity = *v.Capacity
		}
		if v.StartLocationIdx != nil {
			veh.StartLocationIdx = *v.StartLocationIdx
		}
		veh.EndLocationIdx = v.EndLocationIdx
		if v.CostPerKm != nil {
			veh.CostPerKm = *v.CostPerKm
		}
		veh.MaxDistanceKm = v.MaxDistanceKm
		veh.MaxStops = v.MaxStops
		out = append(out, veh)
	}
	return out
}
