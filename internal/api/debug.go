package api

import (
	"net/http"
	"time"

	"logiroute/internal/buildinfo"
)

// DebugInfoHandler handles GET /debug/info with build metadata and a
// sanitized config snapshot.
func (s *Server) DebugInfoHandler(w http.ResponseWriter, r *http.Request) {
	cfg := s.Optimizer.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"port":              s.Cfg.Port,
			"max_waypoints":     cfg.MaxWaypoints,
			"max_vehicles":      cfg.MaxVehicles,
			"timeout_seconds":   int(cfg.SolverTimeout.Seconds()),
			"average_speed_kmh": cfg.AverageSpeedKmh,
			"solver_available":  !cfg.DisableSolver,
			"rate_rps":          s.Cfg.RateLimit.RPS,
			"rate_burst":        s.Cfg.RateLimit.Burst,
			"has_database_url":  s.Cfg.DatabaseURL != "",
			"has_redis_url":     s.Cfg.RedisURL != "",
		},
	})
}
