package store

import (
	"context"
	"sync"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
// Solve records are kept newest-first with a cursor over record IDs.
type Memory struct {
	mu     sync.Mutex
	byID   map[string]SolveRecord
	recent []string // ids, newest first
	max    int
}

func NewMemory() *Memory {
	return &Memory{byID: map[string]SolveRecord{}, max: 1000}
}

func (m *Memory) SaveSolve(_ context.Context, rec SolveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[rec.ID]; !exists {
		m.recent = append([]string{rec.ID}, m.recent...)
	}
	m.byID[rec.ID] = rec
	if len(m.recent) > m.max {
		for _, id := range m.recent[m.max:] {
			delete(m.byID, id)
		}
		m.recent = m.recent[:m.max]
	}
	return nil
}

func (m *Memory) GetSolve(_ context.Context, id string) (SolveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return SolveRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListSolves(_ context.Context, cursor string, limit int) ([]SolveRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	start := 0
	if cursor != "" {
		for i, id := range m.recent {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	out := []SolveRecord{}
	next := ""
	for i := start; i < len(m.recent) && len(out) < limit; i++ {
		rec := m.byID[m.recent[i]]
		rec.Result = nil // summaries only in listings
		out = append(out, rec)
		if len(out) == limit && i+1 < len(m.recent) {
			next = m.recent[i]
		}
	}
	return out, next, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
