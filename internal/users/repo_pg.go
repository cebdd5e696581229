package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, COALESCE(full_name, ''), COALESCE(given_name, ''), COALESCE(family_name, ''),
  COALESCE(picture_url, ''), COALESCE(last_login_at, created_at), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	query := `
INSERT INTO users (id, email, full_name, given_name, family_name, picture_url, last_login_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = COALESCE(EXCLUDED.full_name, users.full_name),
  given_name = COALESCE(EXCLUDED.given_name, users.given_name),
  family_name = COALESCE(EXCLUDED.family_name, users.family_name),
  picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url),
  last_login_at = EXCLUDED.last_login_at,
  updated_at = EXCLUDED.updated_at
RETURNING ` + userColumns
	row := r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.GivenName),
		nullableString(user.FamilyName),
		nullableString(user.PictureURL),
		user.UpdatedAt,
	)
	stored, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return stored, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.GivenName, &u.FamilyName, &u.PictureURL,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
