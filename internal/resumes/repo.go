package resumes

import (
	"context"

	"resume-builder/resume/model"
)

// Repo defines persistence operations for resumes. Every lookup is scoped to the owner.
type Repo interface {
	Create(ctx context.Context, r model.Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (model.Resume, error)
	Update(ctx context.Context, r model.Resume) error
	Delete(ctx context.Context, userID, resumeID string) error
	ListByUser(ctx context.Context, userID string, kind Kind, limit, offset int) ([]model.Resume, error)
	Count(ctx context.Context, userID string, kind Kind) (int, error)
}
