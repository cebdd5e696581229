package imports

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Import
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Import)}
}

func (r *MemoryRepo) Create(ctx context.Context, imp Import) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[imp.ID]; exists {
		return ErrInvalidInput
	}
	r.data[imp.ID] = imp
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, importID string) (Import, error) {
	imp, err := r.GetByID(ctx, importID)
	if err != nil {
		return Import{}, err
	}
	if imp.UserID != userID {
		return Import{}, ErrNotFound
	}
	return imp, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, importID string) (Import, error) {
	if err := ctx.Err(); err != nil {
		return Import{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	imp, ok := r.data[importID]
	if !ok {
		return Import{}, ErrNotFound
	}
	return imp, nil
}

func (r *MemoryRepo) Update(ctx context.Context, imp Import) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[imp.ID]
	if !ok || existing.UserID != imp.UserID {
		return ErrNotFound
	}
	imp.CreatedAt = existing.CreatedAt
	r.data[imp.ID] = imp
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
