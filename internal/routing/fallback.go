package routing

import (
	"logiroute/internal/geo"
)

// fallbackSolve is the nearest-neighbor construction used when the search
// phase is disabled or fails. It respects vehicle capacity but not time
// windows, and back-computes route time from distance and average speed, so
// the result is feasible rather than optimal. Deterministic for identical
// input ordering: equidistant candidates resolve to the lowest index.
func fallbackSolve(locs []Location, vehicles []Vehicle, depot int, speedKmh float64) OptimizationResult {
	unvisited := make(map[int]bool, len(locs))
	for i := range locs {
		if i != depot {
			unvisited[i] = true
		}
	}

	var routes []VehicleRoute
	totalDistance := 0.0
	for _, v := range vehicles {
		if len(unvisited) == 0 {
			break
		}
		stops := []Stop{depotStop(locs, depot, 0)}
		current := depot
		routeDistance := 0.0
		capacityUsed := 0
		for len(unvisited) > 0 {
			nearest := -1
			nearestDist := 0.0
			for i := range locs {
				if !unvisited[i] || capacityUsed+locs[i].Demand > v.Capacity {
					continue
				}
				d := geo.Haversine(locs[current].Latitude, locs[current].Longitude, locs[i].Latitude, locs[i].Longitude)
				if nearest == -1 || d < nearestDist {
					nearest = i
					nearestDist = d
				}
			}
			if nearest == -1 {
				break
			}
			delete(unvisited, nearest)
			routeDistance += nearestDist
			capacityUsed += locs[nearest].Demand
			current = nearest
			stops = append(stops, Stop{
				LocationID: locs[nearest].ID,
				Name:       locs[nearest].Name,
				Latitude:   locs[nearest].Latitude,
				Longitude:  locs[nearest].Longitude,
				Sequence:   len(stops),
			})
		}
		routeDistance += geo.Haversine(locs[current].Latitude, locs[current].Longitude, locs[depot].Latitude, locs[depot].Longitude)
		stops = append(stops, depotStop(locs, depot, len(stops)))

		if len(stops) > 2 {
			routes = append(routes, VehicleRoute{
				VehicleID:   v.ID,
				Stops:       stops,
				DistanceKm:  routeDistance,
				TimeMinutes: routeDistance / speedKmh * 60,
				Cost:        routeDistance * v.CostPerKm,
			})
			totalDistance += routeDistance
		}
	}

	var unassigned []string
	for i := range locs {
		if unvisited[i] {
			unassigned = append(unassigned, locs[i].ID)
		}
	}
	totalCost := 0.0
	for _, r := range routes {
		totalCost += r.Cost
	}
	return OptimizationResult{
		Success:             len(routes) > 0,
		Routes:              routes,
		TotalDistanceKm:     totalDistance,
		TotalTimeMinutes:    totalDistance / speedKmh * 60,
		TotalCost:           totalCost,
		UnassignedLocations: unassigned,
		SolverStatus:        string(StatusHeuristic),
		ModelVersion:        ModelVersion,
	}
}

func depotStop(locs []Location, depot, seq int) Stop {
	return Stop{
		LocationID: locs[depot].ID,
		Name:       locs[depot].Name,
		Latitude:   locs[depot].Latitude,
		Longitude:  locs[depot].Longitude,
		Sequence:   seq,
	}
}
