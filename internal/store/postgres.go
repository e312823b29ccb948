package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres persists solve records via the pgx stdlib driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate creates the solves table when missing. Dev helper; production
// deployments run migrations out of band.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS solves (
    id                  text PRIMARY KEY,
    created_at          timestamptz NOT NULL,
    objective           text NOT NULL,
    location_count      int NOT NULL,
    vehicle_count       int NOT NULL,
    success             boolean NOT NULL,
    solver_status       text NOT NULL,
    total_distance_km   double precision NOT NULL,
    total_time_minutes  double precision NOT NULL,
    total_cost          double precision NOT NULL,
    unassigned_count    int NOT NULL,
    computation_time_ms double precision NOT NULL,
    result              jsonb
)`)
	return err
}

func (p *Postgres) SaveSolve(ctx context.Context, rec SolveRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("store: marshal result: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
INSERT INTO solves (id, created_at, objective, location_count, vehicle_count, success, solver_status,
    total_distance_km, total_time_minutes, total_cost, unassigned_count, computation_time_ms, result)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.CreatedAt, rec.Objective, rec.LocationCount, rec.VehicleCount, rec.Success, rec.SolverStatus,
		rec.TotalDistanceKm, rec.TotalTimeMinutes, rec.TotalCost, rec.UnassignedCount, rec.ComputationTimeMS, result)
	return err
}

func (p *Postgres) GetSolve(ctx context.Context, id string) (SolveRecord, error) {
	row := p.db.QueryRowContext(ctx, `
SELECT id, created_at, objective, location_count, vehicle_count, success, solver_status,
    total_distance_km, total_time_minutes, total_cost, unassigned_count, computation_time_ms, result
FROM solves WHERE id=$1`, id)
	rec, err := scanSolve(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SolveRecord{}, ErrNotFound
	}
	return rec, err
}

func (p *Postgres) ListSolves(ctx context.Context, cursor string, limit int) ([]SolveRecord, string, error) {
	if limit <= 0 {
		limit = 100
	}
	args := []any{limit + 1}
	q := `
SELECT id, created_at, objective, location_count, vehicle_count, success, solver_status,
    total_distance_km, total_time_minutes, total_cost, unassigned_count, computation_time_ms, NULL::jsonb
FROM solves`
	if cursor != "" {
		q += ` WHERE created_at < (SELECT created_at FROM solves WHERE id=$2)`
		args = append(args, cursor)
	}
	q += ` ORDER BY created_at DESC LIMIT $1`
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []SolveRecord{}
	for rows.Next() {
		rec, err := scanSolve(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}
	next := ""
	if len(out) > limit {
		out = out[:limit]
		next = out[limit-1].ID
	}
	return out, next, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolve(row rowScanner) (SolveRecord, error) {
	var rec SolveRecord
	var result []byte
	err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.Objective, &rec.LocationCount, &rec.VehicleCount,
		&rec.Success, &rec.SolverStatus, &rec.TotalDistanceKm, &rec.TotalTimeMinutes, &rec.TotalCost,
		&rec.UnassignedCount, &rec.ComputationTimeMS, &result)
	if err != nil {
		return SolveRecord{}, err
	}
	if len(result) > 0 {
		_ = json.Unmarshal(result, &rec.Result)
	}
	return rec, nil
}
