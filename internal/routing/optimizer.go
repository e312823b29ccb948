package routing

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Config is the static, read-only configuration for an Optimizer. The zero
// value of any numeric field falls back to the documented default;
// DisableSolver routes every call straight to the nearest-neighbor
// heuristic, which keeps the "search phase unavailable" case an injectable
// first-class branch.
type Config struct {
	MaxWaypoints    int           // locations accepted per call (default 25)
	MaxVehicles     int           // vehicles accepted per call (default 50)
	SolverTimeout   time.Duration // wall-clock budget for the search phase (default 30s)
	AverageSpeedKmh float64       // used for the time matrix and the fallback path (default 40)
	DisableSolver   bool
}

// DefaultConfig returns the standard optimizer limits.
func DefaultConfig() Config {
	return Config{
		MaxWaypoints:    25,
		MaxVehicles:     50,
		SolverTimeout:   30 * time.Second,
		AverageSpeedKmh: 40,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxWaypoints <= 0 {
		c.MaxWaypoints = d.MaxWaypoints
	}
	if c.MaxVehicles <= 0 {
		c.MaxVehicles = d.MaxVehicles
	}
	if c.SolverTimeout <= 0 {
		c.SolverTimeout = d.SolverTimeout
	}
	if c.AverageSpeedKmh <= 0 {
		c.AverageSpeedKmh = d.AverageSpeedKmh
	}
	return c
}

// Optimizer plans multi-vehicle delivery routes. It holds no mutable state
// beyond its configuration, so concurrent Optimize calls are safe.
type Optimizer struct {
	cfg Config
}

func NewOptimizer(cfg Config) *Optimizer {
	return &Optimizer{cfg: cfg.withDefaults()}
}

// Config returns the optimizer's effective configuration.
func (o *Optimizer) Config() Config { return o.cfg }

// Optimize plans routes for the given locations and vehicles. It never
// returns an error for expected failure modes: input problems surface as
// success=false with a descriptive status, and search-phase failures fall
// through to the nearest-neighbor heuristic.
func (o *Optimizer) Optimize(ctx context.Context, locations []Location, vehicles []Vehicle, depotIndex int, objective Objective) OptimizationResult {
	start := time.Now()
	finish := func(r OptimizationResult) OptimizationResult {
		r.ComputationTimeMS = float64(time.Since(start).Microseconds()) / 1000
		return r
	}

	if len(vehicles) == 0 {
		v := NewVehicle("vehicle_1")
		v.Capacity = 1000
		vehicles = []Vehicle{v}
	}
	if len(locations) < 2 {
		return finish(failed("need at least 2 locations (depot + 1 delivery)"))
	}
	if len(locations) > o.cfg.MaxWaypoints {
		return finish(failed(fmt.Sprintf("too many waypoints, max: %d", o.cfg.MaxWaypoints)))
	}
	if len(vehicles) > o.cfg.MaxVehicles {
		return finish(failed(fmt.Sprintf("too many vehicles, max: %d", o.cfg.MaxVehicles)))
	}
	if depotIndex < 0 || depotIndex >= len(locations) {
		return finish(failed(fmt.Sprintf("depot index %d out of range", depotIndex)))
	}
	if objective != ObjectiveTime {
		objective = ObjectiveDistance
	}

	if !o.cfg.DisableSolver {
		outcome := o.search(ctx, locations, vehicles, depotIndex, objective)
		if outcome.HasSolution() {
			return finish(assemble(outcome))
		}
		if outcome.Err != nil {
			log.Printf("routing: search phase failed status=%s err=%v, using fallback", outcome.Status, outcome.Err)
		} else {
			log.Printf("routing: search phase returned status=%s, using fallback", outcome.Status)
		}
	}
	return finish(fallbackSolve(locations, vehicles, depotIndex, o.cfg.AverageSpeedKmh))
}

// OptimizeSimple accepts bare (latitude, longitude) waypoint pairs plus an
// optional depot pair and synthesizes standard locations (demand 1, depot 0).
func (o *Optimizer) OptimizeSimple(ctx context.Context, waypoints [][2]float64, depot *[2]float64) OptimizationResult {
	locations := make([]Location, 0, len(waypoints)+1)
	addDepot := func(lat, lon float64) {
		d := NewLocation("depot", lat, lon)
		d.Name = "Depot"
		d.Demand = 0
		locations = append(locations, d)
	}
	if depot != nil {
		addDepot(depot[0], depot[1])
	}
	for i, wp := range waypoints {
		if depot == nil && i == 0 {
			addDepot(wp[0], wp[1])
			continue
		}
		l := NewLocation(fmt.Sprintf("stop_%d", i), wp[0], wp[1])
		l.Name = fmt.Sprintf("Stop %d", i)
		locations = append(locations, l)
	}
	return o.Optimize(ctx, locations, nil, 0, ObjectiveDistance)
}

func (o *Optimizer) search(ctx context.Context, locations []Location, vehicles []Vehicle, depotIndex int, objective Objective) SolveOutcome {
	p, err := buildProblem(locations, vehicles, depotIndex, objective, o.cfg.AverageSpeedKmh)
	if err != nil {
		return SolveOutcome{Status: StatusInvalid, Err: err}
	}
	deadline := time.Now().Add(o.cfg.SolverTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return p.solveSearch(ctx, deadline)
}

// assemble sums the per-route totals of a search outcome into the uniform
// result shape.
func assemble(outcome SolveOutcome) OptimizationResult {
	res := OptimizationResult{
		Success:             true,
		Routes:              outcome.Routes,
		UnassignedLocations: outcome.Unassigned,
		SolverStatus:        string(outcome.Status),
		ModelVersion:        ModelVersion,
	}
	for _, r := range outcome.Routes {
		res.TotalDistanceKm += r.DistanceKm
		res.TotalTimeMinutes += r.TimeMinutes
		res.TotalCost += r.Cost
	}
	return res
}

func failed(status string) OptimizationResult {
	return OptimizationResult{SolverStatus: status, ModelVersion: ModelVersion}
}
