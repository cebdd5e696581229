package jobs

import "context"

// Repo persists jobs.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, userID, jobID string) (Job, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error)
	Delete(ctx context.Context, userID, jobID string) error
}
