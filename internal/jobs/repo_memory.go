package jobs

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Job // jobID -> job
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Job)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[job.ID]; exists {
		return ErrInvalidInput
	}
	job.Keywords = slices.Clone(job.Keywords)
	r.data[job.ID] = job
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[jobID]
	if !ok || job.UserID != userID {
		return Job{}, ErrNotFound
	}
	job.Keywords = slices.Clone(job.Keywords)
	return job, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Job, 0)
	for _, job := range r.data {
		if job.UserID == userID {
			job.Keywords = slices.Clone(job.Keywords)
			out = append(out, job)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []Job{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.data[jobID]
	if !ok || job.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, jobID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
