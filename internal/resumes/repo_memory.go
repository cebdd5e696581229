package resumes

import (
	"context"
	"sort"
	"sync"

	"resume-builder/resume/model"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]model.Resume // resumeID -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]model.Resume)}
}

// Create stores a new resume.
func (r *MemoryRepo) Create(ctx context.Context, res model.Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[res.ID]; exists {
		return ErrInvalidInput
	}
	r.data[res.ID] = res.Clone()
	return nil
}

// GetByID returns a resume owned by userID.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (model.Resume, error) {
	if err := ctx.Err(); err != nil {
		return model.Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[resumeID]
	if !ok || res.UserID != userID {
		return model.Resume{}, ErrNotFound
	}
	return res.Clone(), nil
}

// Update replaces a stored resume.
func (r *MemoryRepo) Update(ctx context.Context, res model.Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[res.ID]
	if !ok || existing.UserID != res.UserID {
		return ErrNotFound
	}
	r.data[res.ID] = res.Clone()
	return nil
}

// Delete removes a resume owned by userID.
func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[resumeID]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, resumeID)
	return nil
}

// ListByUser returns the user's resumes of the given kind, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, kind Kind, limit, offset int) ([]model.Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	out := make([]model.Resume, 0)
	for _, res := range r.data {
		if res.UserID == userID && kind.matches(res) {
			out = append(out, res.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []model.Resume{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// Count returns the number of the user's resumes of the given kind.
func (r *MemoryRepo) Count(ctx context.Context, userID string, kind Kind) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, res := range r.data {
		if res.UserID == userID && kind.matches(res) {
			n++
		}
	}
	return n, nil
}

var _ Repo = (*MemoryRepo)(nil)
