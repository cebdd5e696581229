package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, user_id, company_name, position, location, description, job_url, keywords, created_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	keywords := job.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	rawKeywords, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encode keywords for job %s: %w", job.ID, err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.UserID,
		job.CompanyName,
		job.Position,
		nullableString(job.Location),
		nullableString(job.Description),
		nullableString(job.JobURL),
		rawKeywords,
		job.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, jobID string) (Job, error) {
	const query = `
SELECT ` + jobColumns + `
FROM jobs
WHERE user_id = $1 AND id = $2
LIMIT 1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, userID, jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + jobColumns + `
FROM jobs
WHERE user_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, jobID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE user_id = $1 AND id = $2`, userID, jobID)
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

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var location, description, jobURL sql.NullString
	var keywords []byte
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.CompanyName,
		&job.Position,
		&location,
		&description,
		&jobURL,
		&keywords,
		&job.CreatedAt,
	); err != nil {
		return Job{}, err
	}
	job.Location = location.String
	job.Description = description.String
	job.JobURL = jobURL.String
	job.Keywords = []string{}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &job.Keywords); err != nil {
			return Job{}, fmt.Errorf("decode keywords for job %s: %w", job.ID, err)
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
