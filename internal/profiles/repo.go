package profiles

import "context"

// Repo defines persistence operations for profiles.
type Repo interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, profile Profile) error
}
