package store

import (
	"context"
	"errors"
	"time"
)

// SolveRecord is the persisted summary of one optimize call, kept for the
// history endpoints. The optimizer itself stays stateless; this is the
// surrounding service layer.
type SolveRecord struct {
	ID                string         `json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	Objective         string         `json:"objective"`
	LocationCount     int            `json:"location_count"`
	VehicleCount      int            `json:"vehicle_count"`
	Success           bool           `json:"success"`
	SolverStatus      string         `json:"solver_status"`
	TotalDistanceKm   float64        `json:"total_distance_km"`
	TotalTimeMinutes  float64        `json:"total_time_minutes"`
	TotalCost         float64        `json:"total_cost"`
	UnassignedCount   int            `json:"unassigned_count"`
	ComputationTimeMS float64        `json:"computation_time_ms"`
	Result            map[string]any `json:"result,omitempty"`
}

// Store is the persistence interface used by the API server.
type Store interface {
	SaveSolve(ctx context.Context, rec SolveRecord) error
	GetSolve(ctx context.Context, id string) (SolveRecord, error)
	ListSolves(ctx context.Context, cursor string, limit int) ([]SolveRecord, string, error)
	Ping(ctx context.Context) error
	Close() error
}

var ErrNotFound = errors.New("not found")
