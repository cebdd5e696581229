package imports

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const importColumns = `id, user_id, name, file_name, source_key, mime_type, size_bytes, status, resume_id, error, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, imp Import) error {
	const query = `
INSERT INTO resume_imports (` + importColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		imp.ID,
		imp.UserID,
		imp.Name,
		imp.FileName,
		imp.SourceKey,
		imp.MimeType,
		imp.SizeBytes,
		string(imp.Status),
		nullableString(imp.ResumeID),
		nullableString(imp.Error),
		imp.CreatedAt,
		imp.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, importID string) (Import, error) {
	const query = `
SELECT ` + importColumns + `
FROM resume_imports
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return r.getOne(r.DB.QueryRowContext(ctx, query, userID, importID))
}

func (r *PGRepo) GetByID(ctx context.Context, importID string) (Import, error) {
	const query = `
SELECT ` + importColumns + `
FROM resume_imports
WHERE id = $1
LIMIT 1`
	return r.getOne(r.DB.QueryRowContext(ctx, query, importID))
}

func (r *PGRepo) getOne(row *sql.Row) (Import, error) {
	imp, err := scanImport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Import{}, ErrNotFound
		}
		return Import{}, err
	}
	return imp, nil
}

func (r *PGRepo) Update(ctx context.Context, imp Import) error {
	const query = `
UPDATE resume_imports
SET status = $3, resume_id = $4, error = $5, updated_at = $6
WHERE user_id = $1 AND id = $2`
	result, err := r.DB.ExecContext(ctx, query,
		imp.UserID,
		imp.ID,
		string(imp.Status),
		nullableString(imp.ResumeID),
		nullableString(imp.Error),
		imp.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImport(row rowScanner) (Import, error) {
	var imp Import
	var status string
	var resumeID, errMsg sql.NullString
	if err := row.Scan(
		&imp.ID,
		&imp.UserID,
		&imp.Name,
		&imp.FileName,
		&imp.SourceKey,
		&imp.MimeType,
		&imp.SizeBytes,
		&status,
		&resumeID,
		&errMsg,
		&imp.CreatedAt,
		&imp.UpdatedAt,
	); err != nil {
		return Import{}, err
	}
	imp.Status = Status(status)
	imp.ResumeID = resumeID.String
	imp.Error = errMsg.String
	return imp, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
