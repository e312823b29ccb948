package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"logiroute/internal/metrics"
	"logiroute/internal/routing"
	"logiroute/internal/store"
)

// OptimizeHandler handles POST /v1/optimize: full structured locations and
// vehicles in, uniform optimization result out. The optimizer itself never
// errors for expected failure modes, so the only non-200 responses here are
// malformed or invalid request bodies.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req OptimizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateOptimizeRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}
	depot := 0
	if req.DepotIndex != nil {
		depot = *req.DepotIndex
	}
	objective := routing.ObjectiveDistance
	if req.Objective == "time" {
		objective = routing.ObjectiveTime
	}
	res := s.Optimizer.Optimize(r.Context(), toLocations(req.Locations), toVehicles(req.Vehicles), depot, objective)
	s.recordSolve(r.Context(), res, string(objective), len(req.Locations), len(req.Vehicles), w)
}

// OptimizeSimpleHandler handles POST /v1/optimize/simple: bare coordinate
// pairs with defaults for everything else.
func (s *Server) OptimizeSimpleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req SimpleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSimpleRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid simple request", err.Error(), r.URL.Path)
		return
	}
	locCount := len(req.Waypoints)
	if req.Depot != nil {
		locCount++
	}
	res := s.Optimizer.OptimizeSimple(r.Context(), req.Waypoints, req.Depot)
	s.recordSolve(r.Context(), res, string(routing.ObjectiveDistance), locCount, 1, w)
}

// recordSolve persists the solve summary, publishes the lifecycle event,
// updates metrics, and writes the response. Persistence failures are logged
// but never fail the request; the caller already has a routing answer.
func (s *Server) recordSolve(ctx context.Context, res routing.OptimizationResult, objective string, locCount, vehCount int, w http.ResponseWriter) {
	id := uuid.NewString()
	body := res.ToAPI()
	body["solve_id"] = id

	rec := store.SolveRecord{
		ID:                id,
		CreatedAt:         time.Now().UTC(),
		Objective:         objective,
		LocationCount:     locCount,
		VehicleCount:      vehCount,
		Success:           res.Success,
		SolverStatus:      res.SolverStatus,
		TotalDistanceKm:   res.TotalDistanceKm,
		TotalTimeMinutes:  res.TotalTimeMinutes,
		TotalCost:         res.TotalCost,
		UnassignedCount:   len(res.UnassignedLocations),
		ComputationTimeMS: res.ComputationTimeMS,
		Result:            body,
	}
	if err := s.Store.SaveSolve(ctx, rec); err != nil {
		log.Printf("api: save solve %s failed: %v", id, err)
	}

	evtType := "solve.completed"
	if !res.Success {
		evtType = "solve.failed"
	}
	s.Broker.Publish(TopicSolves, Event{Type: evtType, Data: map[string]any{
		"solve_id":          id,
		"success":           res.Success,
		"solver_status":     res.SolverStatus,
		"total_distance_km": rec.TotalDistanceKm,
		"unassigned_count":  rec.UnassignedCount,
	}})

	metrics.OptimizeRequests.WithLabelValues(res.SolverStatus, fmt.Sprintf("%t", res.Success)).Inc()
	metrics.OptimizeDuration.WithLabelValues(res.SolverStatus).Observe(res.ComputationTimeMS / 1000)
	metrics.OptimizeUnassigned.Add(float64(rec.UnassignedCount))

	writeJSON(w, http.StatusOK, body)
}

// OptimizerConfigHandler returns the effective optimizer limits and model
// info on GET /v1/optimizer/config.
func (s *Server) OptimizerConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cfg := s.Optimizer.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"model_version":     routing.ModelVersion,
		"solver_available":  !cfg.DisableSolver,
		"max_waypoints":     cfg.MaxWaypoints,
		"max_vehicles":      cfg.MaxVehicles,
		"timeout_seconds":   int(cfg.SolverTimeout.Seconds()),
		"average_speed_kmh": cfg.AverageSpeedKmh,
		"objectives":        []string{"distance", "time"},
	})
}

// SolvesHandler handles GET /v1/solves and GET /v1/solves/{id}.
func (s *Server) SolvesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if id := strings.TrimPrefix(r.URL.Path, "/v1/solves/"); id != r.URL.Path && id != "" {
		rec, err := s.Store.GetSolve(r.Context(), id)
		if err == store.ErrNotFound {
			writeProblem(w, http.StatusNotFound, "Solve not found", id, r.URL.Path)
			return
		}
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Get solve failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListSolves(r.Context(), cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List solves failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "next_cursor": next})
}

// HealthHandler reports process liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler reports whether dependencies are reachable.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
