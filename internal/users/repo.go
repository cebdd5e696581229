package users

import "context"

// Repo stores signed-in users.
type Repo interface {
	// Upsert inserts or refreshes user and returns the stored row. CreatedAt survives
	// later upserts.
	Upsert(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
