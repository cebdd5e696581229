package imports

import "context"

// Repo stores import records.
type Repo interface {
	Create(ctx context.Context, imp Import) error
	// Get is scoped to the owner; GetByID is for workers that only know the id.
	Get(ctx context.Context, userID, importID string) (Import, error)
	GetByID(ctx context.Context, importID string) (Import, error)
	Update(ctx context.Context, imp Import) error
}
