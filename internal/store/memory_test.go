package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemorySaveGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	rec := SolveRecord{
		ID:              "s1",
		CreatedAt:       time.Now().UTC(),
		Objective:       "distance",
		LocationCount:   5,
		VehicleCount:    2,
		Success:         true,
		SolverStatus:    "OPTIMAL",
		TotalDistanceKm: 12.34,
		Result:          map[string]any{"success": true},
	}
	if err := m.SaveSolve(ctx, rec); err != nil {
		t.Fatalf("SaveSolve: %v", err)
	}

	got, err := m.GetSolve(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSolve: %v", err)
	}
	if got.SolverStatus != "OPTIMAL" || got.Result == nil {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := m.GetSolve(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryListNewestFirstWithCursor(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		rec := SolveRecord{ID: fmt.Sprintf("s%d", i), CreatedAt: time.Now().UTC(), Result: map[string]any{"i": i}}
		if err := m.SaveSolve(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	page, next, err := m.ListSolves(ctx, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != "s4" || page[1].ID != "s3" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	if next == "" {
		t.Fatal("expected a next cursor")
	}
	if page[0].Result != nil {
		t.Fatal("listings must drop full results")
	}

	page, _, err = m.ListSolves(ctx, next, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 3 || page[0].ID != "s2" {
		t.Fatalf("unexpected second page: %+v", page)
	}
}
