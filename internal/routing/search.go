package routing

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Bounds on the cumulative dimensions tracked per route.
const (
	maxRouteDistanceMeters = 100_000_000 // shared ceiling when a vehicle declares no cap
	maxRouteTimeMinutes    = 1440        // planning horizon
	waitSlackMinutes       = 30          // max waiting permitted between consecutive stops
)

// Search tuning. Convergence is declared after this many guided-local-search
// rounds without improvement; the wall-clock budget always wins.
const convergenceRounds = 15

// problem is the immutable constraint model handed to the search phase. All
// vehicles start and end at the depot; per-vehicle capacity, distance and
// stop caps are enforced during feasibility checks.
type problem struct {
	locs      []Location
	vehicles  []Vehicle
	depot     int
	dist      [][]int // meters
	times     [][]int // minutes, service time of destination included
	objective Objective
	hasTW     bool
}

func buildProblem(locs []Location, vehicles []Vehicle, depot int, objective Objective, speedKmh float64) (problem, error) {
	if depot < 0 || depot >= len(locs) {
		return problem{}, fmt.Errorf("depot index %d out of range [0,%d)", depot, len(locs))
	}
	hasTW := false
	for _, l := range locs {
		if l.HasWindow() {
			hasTW = true
			break
		}
	}
	dist := DistanceMatrix(locs)
	return problem{
		locs:      locs,
		vehicles:  vehicles,
		depot:     depot,
		dist:      dist,
		times:     TimeMatrix(dist, locs, speedKmh),
		objective: objective,
		hasTW:     hasTW,
	}, nil
}

func (p problem) arcCost(i, j int) int {
	if p.objective == ObjectiveTime {
		return p.times[i][j]
	}
	return p.dist[i][j]
}

func (p problem) distCapMeters(vi int) int {
	if cap := p.vehicles[vi].MaxDistanceKm; cap != nil {
		return int(*cap * 1000)
	}
	return maxRouteDistanceMeters
}

// routeEval is the result of propagating the cumulative dimensions along one
// route, depot legs included.
type routeEval struct {
	distM    int
	timeMin  int
	load     int
	feasible bool
}

// evalRoute propagates distance, load and time along a candidate visit order.
// Arrival before a window opens means waiting, bounded by the slack; arrival
// after it closes is infeasible.
func (p problem) evalRoute(vi int, order []int) routeEval {
	v := p.vehicles[vi]
	if v.MaxStops != nil && len(order) > *v.MaxStops {
		return routeEval{}
	}
	ev := routeEval{feasible: true}
	cur := p.depot
	for _, idx := range order {
		ev.distM += p.dist[cur][idx]
		ev.timeMin += p.times[cur][idx]
		loc := p.locs[idx]
		if p.hasTW && loc.HasWindow() {
			if ev.timeMin < *loc.TimeWindowStart {
				wait := *loc.TimeWindowStart - ev.timeMin
				if wait > waitSlackMinutes {
					return routeEval{}
				}
				ev.timeMin = *loc.TimeWindowStart
			}
			if ev.timeMin > *loc.TimeWindowEnd {
				return routeEval{}
			}
		}
		ev.load += loc.Demand
		cur = idx
	}
	ev.distM += p.dist[cur][p.depot]
	ev.timeMin += p.times[cur][p.depot]
	if ev.load > v.Capacity {
		return routeEval{}
	}
	if ev.distM > p.distCapMeters(vi) {
		return routeEval{}
	}
	if p.hasTW && ev.timeMin > maxRouteTimeMinutes {
		return routeEval{}
	}
	return ev
}

// solution holds per-vehicle visit orders (location indices, depot excluded)
// and the set of locations no route could absorb.
type solution struct {
	plans      [][]int
	unassigned []int
}

func (s solution) clonePlan(vi int) []int {
	return append([]int(nil), s.plans[vi]...)
}

func (p problem) routeCost(order []int) int {
	total := 0
	cur := p.depot
	for _, idx := range order {
		total += p.arcCost(cur, idx)
		cur = idx
	}
	return total + p.arcCost(cur, p.depot)
}

func (p problem) solutionCost(s solution) int {
	total := 0
	for _, order := range s.plans {
		if len(order) > 0 {
			total += p.routeCost(order)
		}
	}
	return total
}

// arcKey identifies a directed arc for guided-local-search penalties.
type arcKey struct{ from, to int }

// routeAugCost is routeCost on the penalty-augmented objective.
func (p problem) routeAugCost(order []int, pen map[arcKey]int, lam float64) float64 {
	total := 0.0
	cur := p.depot
	step := func(next int) {
		total += float64(p.arcCost(cur, next)) + lam*float64(pen[arcKey{cur, next}])
		cur = next
	}
	for _, idx := range order {
		step(idx)
	}
	step(p.depot)
	return total
}

// greedySeed builds the initial solution by cheapest-arc construction:
// vehicles take turns appending the cheapest feasible unassigned location.
func (p problem) greedySeed() solution {
	n := len(p.locs)
	used := make([]bool, n)
	used[p.depot] = true
	remaining := n - 1
	plans := make([][]int, len(p.vehicles))
	for remaining > 0 {
		progress := false
		for vi := range p.vehicles {
			bestIdx, bestCost := -1, math.MaxInt
			last := p.depot
			if k := len(plans[vi]); k > 0 {
				last = plans[vi][k-1]
			}
			for i := 0; i < n; i++ {
				if used[i] {
					continue
				}
				c := p.arcCost(last, i)
				if c >= bestCost {
					continue
				}
				cand := append(append([]int(nil), plans[vi]...), i)
				if p.evalRoute(vi, cand).feasible {
					bestIdx, bestCost = i, c
				}
			}
			if bestIdx >= 0 {
				plans[vi] = append(plans[vi], bestIdx)
				used[bestIdx] = true
				remaining--
				progress = true
				if remaining == 0 {
					break
				}
			}
		}
		if !progress {
			break
		}
	}
	var unassigned []int
	for i := 0; i < n; i++ {
		if !used[i] {
			unassigned = append(unassigned, i)
		}
	}
	return solution{plans: plans, unassigned: unassigned}
}

// insertUnassigned attempts cheapest feasible insertion of every unassigned
// location across all routes and positions.
func (p problem) insertUnassigned(s solution) solution {
	if len(s.unassigned) == 0 {
		return s
	}
	var still []int
	for _, idx := range s.unassigned {
		bestVi, bestPos, bestDelta := -1, -1, math.MaxInt
		for vi := range s.plans {
			base := p.routeCost(s.plans[vi])
			for pos := 0; pos <= len(s.plans[vi]); pos++ {
				cand := insertAt(s.clonePlan(vi), idx, pos)
				if !p.evalRoute(vi, cand).feasible {
					continue
				}
				if delta := p.routeCost(cand) - base; delta < bestDelta {
					bestVi, bestPos, bestDelta = vi, pos, delta
				}
			}
		}
		if bestVi >= 0 {
			s.plans[bestVi] = insertAt(s.plans[bestVi], idx, bestPos)
		} else {
			still = append(still, idx)
		}
	}
	s.unassigned = still
	return s
}

func insertAt(order []int, idx, pos int) []int {
	order = append(order, 0)
	copy(order[pos+1:], order[pos:])
	order[pos] = idx
	return order
}

// twoOptPass reverses intra-route segments whenever that lowers the
// augmented cost and keeps the route feasible. Returns true on improvement.
func (p problem) twoOptPass(s solution, pen map[arcKey]int, lam float64) bool {
	improved := false
	for vi := range s.plans {
		order := s.plans[vi]
		n := len(order)
		if n < 2 {
			continue
		}
		base := p.routeAugCost(order, pen, lam)
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := s.clonePlan(vi)
				for a, b := i, k; a < b; a, b = a+1, b-1 {
					cand[a], cand[b] = cand[b], cand[a]
				}
				if !p.evalRoute(vi, cand).feasible {
					continue
				}
				if c := p.routeAugCost(cand, pen, lam); c+1e-9 < base {
					s.plans[vi] = cand
					order = cand
					base = c
					improved = true
				}
			}
		}
	}
	return improved
}

// relocatePass moves single locations to their cheapest feasible position in
// any route (or-opt with segment length 1).
func (p problem) relocatePass(s solution, pen map[arcKey]int, lam float64) bool {
	improved := false
	for vi := range s.plans {
		for i := 0; i < len(s.plans[vi]); i++ {
			idx := s.plans[vi][i]
			removed := append(s.clonePlan(vi)[:i], s.plans[vi][i+1:]...)
			baseFrom := p.routeAugCost(s.plans[vi], pen, lam)
			removedCost := p.routeAugCost(removed, pen, lam)
			// Removing a stop shifts downstream arrivals earlier, which can
			// push a window's wait past the slack; a cross-route move is
			// only allowed when the shortened source route stays feasible.
			removedOK := !p.hasTW || p.evalRoute(vi, removed).feasible
			bestVj, bestPos := -1, -1
			bestGain := 1e-9
			for vj := range s.plans {
				if vj != vi && !removedOK {
					continue
				}
				target := removed
				if vj != vi {
					target = s.plans[vj]
				}
				baseTo := p.routeAugCost(target, pen, lam)
				for pos := 0; pos <= len(target); pos++ {
					if vj == vi && pos == i {
						continue
					}
					cand := insertAt(append([]int(nil), target...), idx, pos)
					if !p.evalRoute(vj, cand).feasible {
						continue
					}
					if vj == vi {
						if gain := baseFrom - p.routeAugCost(cand, pen, lam); gain > bestGain {
							bestVj, bestPos, bestGain = vj, pos, gain
						}
						continue
					}
					gain := (baseFrom + baseTo) - (removedCost + p.routeAugCost(cand, pen, lam))
					if gain > bestGain {
						bestVj, bestPos, bestGain = vj, pos, gain
					}
				}
			}
			if bestVj >= 0 {
				if bestVj == vi {
					s.plans[vi] = insertAt(removed, idx, bestPos)
				} else {
					s.plans[vi] = removed
					s.plans[bestVj] = insertAt(s.plans[bestVj], idx, bestPos)
				}
				improved = true
				i--
			}
		}
	}
	return improved
}

// crossExchangePass swaps single locations between route pairs when the
// combined augmented cost drops and both routes stay feasible.
func (p problem) crossExchangePass(s solution, pen map[arcKey]int, lam float64) bool {
	improved := false
	m := len(s.plans)
	for a := 0; a < m; a++ {
		for b := a + 1; b < m; b++ {
			for i := 0; i < len(s.plans[a]); i++ {
				for j := 0; j < len(s.plans[b]); j++ {
					ca := s.clonePlan(a)
					cb := s.clonePlan(b)
					ca[i], cb[j] = cb[j], ca[i]
					if !p.evalRoute(a, ca).feasible || !p.evalRoute(b, cb).feasible {
						continue
					}
					before := p.routeAugCost(s.plans[a], pen, lam) + p.routeAugCost(s.plans[b], pen, lam)
					after := p.routeAugCost(ca, pen, lam) + p.routeAugCost(cb, pen, lam)
					if after+1e-9 < before {
						s.plans[a], s.plans[b] = ca, cb
						improved = true
					}
				}
			}
		}
	}
	return improved
}

// localOptimize runs the operator passes to a fixed point on the augmented
// objective, respecting the deadline.
func (p problem) localOptimize(ctx context.Context, s solution, pen map[arcKey]int, lam float64, deadline time.Time) solution {
	for {
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			return s
		}
		improved := p.twoOptPass(s, pen, lam)
		improved = p.relocatePass(s, pen, lam) || improved
		improved = p.crossExchangePass(s, pen, lam) || improved
		if !improved {
			return s
		}
	}
}

// penalizeWorstArc bumps the penalty of the in-solution arc with the highest
// utility (arc cost over one plus its penalty count). Ties break on the
// lowest endpoint pair, keeping the search deterministic.
func (p problem) penalizeWorstArc(s solution, pen map[arcKey]int) {
	bestUtil := -1.0
	var bestArc arcKey
	consider := func(from, to int) {
		k := arcKey{from, to}
		util := float64(p.arcCost(from, to)) / float64(1+pen[k])
		if util > bestUtil {
			bestUtil = util
			bestArc = k
		}
	}
	for _, order := range s.plans {
		cur := p.depot
		for _, idx := range order {
			consider(cur, idx)
			cur = idx
		}
		if len(order) > 0 {
			consider(cur, p.depot)
		}
	}
	if bestUtil >= 0 {
		pen[bestArc]++
	}
}

// solveSearch runs cheapest-arc construction followed by a guided
// local-search improvement phase bounded by the deadline. Deterministic for
// identical input: no randomness is used anywhere in the search.
func (p problem) solveSearch(ctx context.Context, deadline time.Time) (out SolveOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = SolveOutcome{Status: StatusFailed, Err: fmt.Errorf("solver panic: %v", r)}
		}
	}()

	best := p.greedySeed()
	best = p.insertUnassigned(best)
	assigned := 0
	for _, order := range best.plans {
		assigned += len(order)
	}
	if assigned == 0 {
		return SolveOutcome{Status: StatusNotSolved}
	}
	bestCost := p.solutionCost(best)

	// Penalty weight scaled to the mean arc cost of the seed solution, the
	// usual guided-local-search calibration.
	lam := 0.3 * float64(bestCost) / float64(assigned+len(best.plans))

	pen := map[arcKey]int{}
	curr := solution{plans: make([][]int, len(best.plans)), unassigned: append([]int(nil), best.unassigned...)}
	for vi := range best.plans {
		curr.plans[vi] = best.clonePlan(vi)
	}
	stale := 0
	converged := false
	for stale < convergenceRounds {
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			break
		}
		curr = p.localOptimize(ctx, curr, pen, lam, deadline)
		curr = p.insertUnassigned(curr)
		c := p.solutionCost(curr)
		if len(curr.unassigned) < len(best.unassigned) || (len(curr.unassigned) == len(best.unassigned) && c < bestCost) {
			best = solution{plans: make([][]int, len(curr.plans)), unassigned: append([]int(nil), curr.unassigned...)}
			for vi := range curr.plans {
				best.plans[vi] = curr.clonePlan(vi)
			}
			bestCost = c
			stale = 0
		} else {
			stale++
		}
		p.penalizeWorstArc(curr, pen)
	}
	if stale >= convergenceRounds {
		converged = true
	}

	routes := p.extractRoutes(best)
	if len(routes) == 0 {
		if !time.Now().Before(deadline) {
			return SolveOutcome{Status: StatusTimeout}
		}
		return SolveOutcome{Status: StatusNotSolved}
	}
	status := StatusFeasible
	if converged && len(best.unassigned) == 0 {
		status = StatusOptimal
	}
	return SolveOutcome{
		Status:     status,
		Routes:     routes,
		Unassigned: p.locationIDs(best.unassigned),
	}
}

// extractRoutes walks each vehicle's plan from depot to depot, assembling
// sequenced stops and full-precision totals. Trivial depot-to-depot routes
// contribute nothing.
func (p problem) extractRoutes(s solution) []VehicleRoute {
	var routes []VehicleRoute
	for vi, order := range s.plans {
		if len(order) == 0 {
			continue
		}
		v := p.vehicles[vi]
		stops := make([]Stop, 0, len(order)+2)
		appendStop := func(idx int) {
			loc := p.locs[idx]
			stops = append(stops, Stop{
				LocationID: loc.ID,
				Name:       loc.Name,
				Latitude:   loc.Latitude,
				Longitude:  loc.Longitude,
				Sequence:   len(stops),
			})
		}
		appendStop(p.depot)
		distM, timeMin := 0, 0
		cur := p.depot
		for _, idx := range order {
			distM += p.dist[cur][idx]
			timeMin += p.times[cur][idx]
			// waiting for a window to open is elapsed time too
			if loc := p.locs[idx]; p.hasTW && loc.HasWindow() && timeMin < *loc.TimeWindowStart {
				timeMin = *loc.TimeWindowStart
			}
			appendStop(idx)
			cur = idx
		}
		distM += p.dist[cur][p.depot]
		timeMin += p.times[cur][p.depot]
		appendStop(p.depot)

		distKm := float64(distM) / 1000
		routes = append(routes, VehicleRoute{
			VehicleID:   v.ID,
			Stops:       stops,
			DistanceKm:  distKm,
			TimeMinutes: float64(timeMin),
			Cost:        distKm * v.CostPerKm,
		})
	}
	return routes
}

func (p problem) locationIDs(indices []int) []string {
	if len(indices) == 0 {
		return nil
	}
	ids := make([]string, 0, len(indices))
	for _, i := range indices {
		ids = append(ids, p.locs[i].ID)
	}
	return ids
}
