//go:build postgres_integration

package store

import (
	"os"
	"testing"
	"time"
)

func TestPostgresConnectivityAndMigrate(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	p, err := NewPostgres(dsn)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer p.Close()
	if err := p.Ping(t.Context()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := p.Migrate(t.Context()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	rec := SolveRecord{
		ID:            "it_" + time.Now().UTC().Format("20060102150405.000"),
		CreatedAt:     time.Now().UTC(),
		Objective:     "distance",
		LocationCount: 3,
		VehicleCount:  1,
		Success:       true,
		SolverStatus:  "FEASIBLE",
		Result:        map[string]any{"success": true},
	}
	if err := p.SaveSolve(t.Context(), rec); err != nil {
		t.Fatalf("SaveSolve: %v", err)
	}
	got, err := p.GetSolve(t.Context(), rec.ID)
	if err != nil {
		t.Fatalf("GetSolve: %v", err)
	}
	if got.SolverStatus != rec.SolverStatus {
		t.Fatalf("status: got %s", got.SolverStatus)
	}
	if _, _, err := p.ListSolves(t.Context(), "", 1); err != nil {
		t.Fatalf("ListSolves: %v", err)
	}
}
