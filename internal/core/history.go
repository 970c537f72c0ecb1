package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// DefaultRunLimit caps ListRuns when no positive limit is given.
const DefaultRunLimit = 50

// RunStore persists the history of fills.
type RunStore interface {
	RecordRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
}

// MemoryRunStore keeps runs in process memory, newest last.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs []Run
	max  int
}

var _ RunStore = (*MemoryRunStore)(nil)

// NewMemoryRunStore keeps at most max runs (unbounded when max <= 0).
func NewMemoryRunStore(max int) *MemoryRunStore {
	return &MemoryRunStore{max: max}
}

func (m *MemoryRunStore) RecordRun(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	if m.max > 0 && len(m.runs) > m.max {
		m.runs = append([]Run(nil), m.runs[len(m.runs)-m.max:]...)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first.
func (m *MemoryRunStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Run, 0, min(limit, len(m.runs)))
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MemoryRunStore) GetRun(_ context.Context, id uuid.UUID) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.runs {
		if m.runs[i].ID == id {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, ErrRunNotFound
}
