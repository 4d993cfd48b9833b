package analyses

import (
	"context"
	"sync"
)

// Repo stores completed analysis runs.
type Repo interface {
	Put(ctx context.Context, run AnalysisRun) error
	Get(ctx context.Context, id string) (AnalysisRun, error)
}

// MemoryRepo is an in-memory Repo. Safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	runs map[string]AnalysisRun
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{runs: make(map[string]AnalysisRun)}
}

func (r *MemoryRepo) Put(ctx context.Context, run AnalysisRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (AnalysisRun, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisRun{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return AnalysisRun{}, ErrNotFound
	}
	return run, nil
}
