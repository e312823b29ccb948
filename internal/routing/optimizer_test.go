package routing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SolverTimeout = 2 * time.Second
	return cfg
}

// clusteredLocations builds a depot at the origin plus n deliveries spread on
// a small grid around it, demand 1 each.
func clusteredLocations(n int) []Location {
	depot := NewLocation("depot", 28.6139, 77.2090)
	depot.Name = "Depot"
	depot.Demand = 0
	locs := []Location{depot}
	offsets := [][2]float64{
		{0.02, 0.01}, {-0.015, 0.03}, {0.04, -0.02}, {-0.03, -0.025},
		{0.01, 0.05}, {0.055, 0.015}, {-0.045, 0.04}, {0.025, -0.05},
	}
	for i := 0; i < n; i++ {
		off := offsets[i%len(offsets)]
		scale := 1 + float64(i/len(offsets))
		l := NewLocation(
			"loc_"+string(rune('a'+i)),
			depot.Latitude+off[0]*scale,
			depot.Longitude+off[1]*scale,
		)
		locs = append(locs, l)
	}
	return locs
}

func routeDemand(t *testing.T, locs []Location, r VehicleRoute) int {
	t.Helper()
	byID := map[string]Location{}
	for _, l := range locs {
		byID[l.ID] = l
	}
	total := 0
	for i, s := range r.Stops {
		if i == 0 || i == len(r.Stops)-1 {
			continue // depot legs
		}
		l, ok := byID[s.LocationID]
		require.True(t, ok, "unknown stop %s", s.LocationID)
		total += l.Demand
	}
	return total
}

func TestOptimizeDegenerateInputs(t *testing.T) {
	o := NewOptimizer(testConfig())
	ctx := context.Background()

	res := o.Optimize(ctx, nil, nil, 0, ObjectiveDistance)
	require.False(t, res.Success)
	require.NotEmpty(t, res.SolverStatus)

	res = o.Optimize(ctx, clusteredLocations(0), nil, 0, ObjectiveDistance)
	require.False(t, res.Success)

	res = o.Optimize(ctx, clusteredLocations(30), nil, 0, ObjectiveDistance)
	require.False(t, res.Success, "waypoint cap must reject oversized input")
}

func TestOptimizeSingleDelivery(t *testing.T) {
	o := NewOptimizer(testConfig())
	locs := clusteredLocations(1)
	res := o.Optimize(context.Background(), locs, []Vehicle{NewVehicle("v1")}, 0, ObjectiveDistance)

	require.True(t, res.Success)
	require.Len(t, res.Routes, 1)
	require.Empty(t, res.UnassignedLocations)
	r := res.Routes[0]
	require.Len(t, r.Stops, 3)
	require.Equal(t, "depot", r.Stops[0].LocationID)
	require.Equal(t, locs[1].ID, r.Stops[1].LocationID)
	require.Equal(t, "depot", r.Stops[2].LocationID)
	require.Positive(t, res.TotalDistanceKm)
	require.GreaterOrEqual(t, res.ComputationTimeMS, 0.0)
}

func TestOptimizeCapacityRespected(t *testing.T) {
	locs := clusteredLocations(6)
	v1 := NewVehicle("v1")
	v1.Capacity = 3
	v2 := NewVehicle("v2")
	v2.Capacity = 3
	vehicles := []Vehicle{v1, v2}

	for _, disabled := range []bool{false, true} {
		cfg := testConfig()
		cfg.DisableSolver = disabled
		o := NewOptimizer(cfg)
		res := o.Optimize(context.Background(), locs, vehicles, 0, ObjectiveDistance)
		require.True(t, res.Success)
		for _, r := range res.Routes {
			require.LessOrEqual(t, routeDemand(t, locs, r), 3, "disabled=%v vehicle=%s", disabled, r.VehicleID)
		}
	}
}

func TestOptimizeConservation(t *testing.T) {
	locs := clusteredLocations(5)
	v := NewVehicle("v1")
	v.Capacity = 3 // forces two locations unassigned

	for _, disabled := range []bool{false, true} {
		cfg := testConfig()
		cfg.DisableSolver = disabled
		o := NewOptimizer(cfg)
		res := o.Optimize(context.Background(), locs, []Vehicle{v}, 0, ObjectiveDistance)
		require.True(t, res.Success)

		seen := map[string]int{}
		for _, r := range res.Routes {
			for i, s := range r.Stops {
				if i == 0 || i == len(r.Stops)-1 {
					continue
				}
				seen[s.LocationID]++
			}
		}
		for _, id := range res.UnassignedLocations {
			seen[id]++
		}
		for _, l := range locs[1:] {
			require.Equal(t, 1, seen[l.ID], "disabled=%v location %s must appear exactly once", disabled, l.ID)
		}
	}
}

func TestOptimizeMultiVehicleDistribution(t *testing.T) {
	locs := clusteredLocations(6)
	v1 := NewVehicle("v1")
	v1.Capacity = 4
	v2 := NewVehicle("v2")
	v2.Capacity = 4

	o := NewOptimizer(testConfig())
	res := o.Optimize(context.Background(), locs, []Vehicle{v1, v2}, 0, ObjectiveDistance)
	require.True(t, res.Success)
	require.Empty(t, res.UnassignedLocations)
	require.Greater(t, len(res.Routes), 1, "demand exceeding one capacity must spread across vehicles")
}

func TestOptimizeDefaultVehicle(t *testing.T) {
	o := NewOptimizer(testConfig())
	res := o.Optimize(context.Background(), clusteredLocations(3), nil, 0, ObjectiveDistance)
	require.True(t, res.Success)
	require.Len(t, res.Routes, 1)
	require.Equal(t, "vehicle_1", res.Routes[0].VehicleID)
}

func TestOptimizeTimeObjective(t *testing.T) {
	o := NewOptimizer(testConfig())
	res := o.Optimize(context.Background(), clusteredLocations(4), nil, 0, ObjectiveTime)
	require.True(t, res.Success)
	require.Positive(t, res.TotalTimeMinutes)
}

func TestOptimizeTimeWindowInfeasibleGoesUnassigned(t *testing.T) {
	locs := clusteredLocations(3)
	// A window that closes before any vehicle could plausibly arrive.
	start, end := 0, 1
	far := NewLocation("far", 19.0760, 72.8777) // ~1150 km away
	far.TimeWindowStart = &start
	far.TimeWindowEnd = &end
	locs = append(locs, far)

	o := NewOptimizer(testConfig())
	res := o.Optimize(context.Background(), locs, nil, 0, ObjectiveDistance)
	require.True(t, res.Success)
	require.Contains(t, res.UnassignedLocations, "far")
}

func TestFallbackDeterminism(t *testing.T) {
	cfg := testConfig()
	cfg.DisableSolver = true
	o := NewOptimizer(cfg)

	locs := clusteredLocations(7)
	v1 := NewVehicle("v1")
	v1.Capacity = 4
	v2 := NewVehicle("v2")
	v2.Capacity = 4
	vehicles := []Vehicle{v1, v2}

	first := o.Optimize(context.Background(), locs, vehicles, 0, ObjectiveDistance)
	second := o.Optimize(context.Background(), locs, vehicles, 0, ObjectiveDistance)

	require.Equal(t, string(StatusHeuristic), first.SolverStatus)
	require.Equal(t, first.TotalDistanceKm, second.TotalDistanceKm)
	require.Len(t, second.Routes, len(first.Routes))
	for i := range first.Routes {
		require.Equal(t, first.Routes[i].Stops, second.Routes[i].Stops)
	}
}

func TestSearchDeterminism(t *testing.T) {
	o := NewOptimizer(testConfig())
	locs := clusteredLocations(6)
	first := o.Optimize(context.Background(), locs, nil, 0, ObjectiveDistance)
	second := o.Optimize(context.Background(), locs, nil, 0, ObjectiveDistance)
	require.Equal(t, first.TotalDistanceKm, second.TotalDistanceKm)
	require.Equal(t, first.SolverStatus, second.SolverStatus)
}

func TestOptimizeSimple(t *testing.T) {
	o := NewOptimizer(testConfig())
	res := o.OptimizeSimple(context.Background(), [][2]float64{
		{28.6139, 77.2090},
		{28.6339, 77.2290},
		{28.5939, 77.1890},
	}, nil)
	require.True(t, res.Success)
	require.Len(t, res.Routes, 1)
	require.Equal(t, "depot", res.Routes[0].Stops[0].LocationID)

	depot := [2]float64{28.6139, 77.2090}
	res = o.OptimizeSimple(context.Background(), [][2]float64{
		{28.6339, 77.2290},
		{28.5939, 77.1890},
	}, &depot)
	require.True(t, res.Success)
}

func TestResultToAPIRounding(t *testing.T) {
	res := OptimizationResult{
		Success:           true,
		TotalDistanceKm:   150.567,
		TotalTimeMinutes:  92.34,
		TotalCost:         150.567,
		ComputationTimeMS: 12.3456,
		SolverStatus:      string(StatusOptimal),
		ModelVersion:      ModelVersion,
		Routes: []VehicleRoute{{
			VehicleID:   "v1",
			DistanceKm:  75.2835,
			TimeMinutes: 46.17,
			Cost:        75.2835,
		}},
	}
	out := res.ToAPI()
	require.Equal(t, 150.57, out["total_distance_km"])
	require.Equal(t, 92.3, out["total_time_minutes"])
	require.Equal(t, 150.57, out["total_cost"])
	require.Equal(t, 12.35, out["computation_time_ms"])
	require.Equal(t, string(StatusOptimal), out["solver_status"])
	require.Equal(t, []string{}, out["unassigned_locations"])

	routes, ok := out["routes"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, routes, 1)
	require.Equal(t, 75.28, routes[0]["distance_km"])
	require.Equal(t, 46.2, routes[0]["time_minutes"])
}

func TestPerVehicleLimits(t *testing.T) {
	locs := clusteredLocations(5)
	v := NewVehicle("v1")
	v.Capacity = 100
	maxStops := 2
	v.MaxStops = &maxStops

	o := NewOptimizer(testConfig())
	res := o.Optimize(context.Background(), locs, []Vehicle{v}, 0, ObjectiveDistance)
	require.True(t, res.Success)
	require.Len(t, res.Routes, 1)
	// Depot bookends excluded, at most two deliveries on the route.
	require.LessOrEqual(t, len(res.Routes[0].Stops)-2, 2)
	require.Len(t, res.UnassignedLocations, 3)
}
