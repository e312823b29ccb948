package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Route.MaxWaypoints != 25 {
		t.Fatalf("maxWaypoints = %d, want 25", cfg.Route.MaxWaypoints)
	}
	if cfg.Route.TimeoutSeconds != 30 {
		t.Fatalf("timeoutSeconds = %d, want 30", cfg.Route.TimeoutSeconds)
	}
	if cfg.Route.AverageSpeedKmh != 40 {
		t.Fatalf("averageSpeedKmh = %v, want 40", cfg.Route.AverageSpeedKmh)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("port: \"9090\"\nroute:\n  maxWaypoints: 40\n  timeoutSeconds: 5\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ROUTE_MAX_WAYPOINTS", "12")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q, want 9090 from file", cfg.Port)
	}
	if cfg.Route.TimeoutSeconds != 5 {
		t.Fatalf("timeoutSeconds = %d, want 5 from file", cfg.Route.TimeoutSeconds)
	}
	if cfg.Route.MaxWaypoints != 12 {
		t.Fatalf("maxWaypoints = %d, env must override file", cfg.Route.MaxWaypoints)
	}
}

func TestRoutingConfigMapping(t *testing.T) {
	t.Setenv("ROUTE_DISABLE_SOLVER", "true")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	rc := cfg.RoutingConfig()
	if !rc.DisableSolver {
		t.Fatal("DisableSolver must carry through")
	}
	if rc.SolverTimeout.Seconds() != 30 {
		t.Fatalf("timeout = %v, want 30s", rc.SolverTimeout)
	}
}
